package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gracechapel-dev/churchhub-backend/pkg/migrate"
)

func TestAttendeesMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_attendees.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no attendees migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS attendees",
		"FOREIGN KEY (event_id) REFERENCES attendance_events(id) ON DELETE CASCADE",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_attendees_event_user ON attendees (event_id, user_id)",
		"DROP TABLE IF EXISTS attendees",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestEventMigrationConstrainsCodeAndStatus(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_attendance_events.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no attendance events migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"code VARCHAR(6) NOT NULL",
		"CHECK (status IN ('active', 'ended'))",
		"CHECK (code ~ '^[0-9]{6}$')",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestDonationsMigrationConstrainsSettlement(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_donations.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no donations migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CHECK (amount > 0)",
		"CHECK (provider IN ('paystack', 'flutterwave'))",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_donations_reference ON donations (reference)",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateMigrationsDir(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
