package db

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gracechapel-dev/churchhub-backend/pkg/config"
)

type noteRecord struct {
	ID   int
	Body string
}

func openTestConn(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&noteRecord{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestNewWithSQLiteFlag(t *testing.T) {
	client, err := New(context.Background(),
		config.DBConfig{DSN: "file::memory:?cache=shared"},
		config.FeatureFlagsConfig{UseSQLite: true},
		nil)
	if err != nil {
		t.Fatalf("New with sqlite flag failed: %v", err)
	}
	defer client.Close()

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{}, config.FeatureFlagsConfig{UseSQLite: true}, nil)
	if err == nil {
		t.Fatal("expected an error for a missing DSN")
	}
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	conn := openTestConn(t)
	client := &Client{conn: conn}

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&noteRecord{Body: "kept"}).Error
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	var count int64
	if err := conn.Model(&noteRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record after commit, got %d", count)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	conn := openTestConn(t)
	client := &Client{conn: conn}

	var before int64
	if err := conn.Model(&noteRecord{}).Count(&before).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&noteRecord{Body: "discarded"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to surface the callback error")
	}

	var after int64
	if err := conn.Model(&noteRecord{}).Count(&after).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if after != before {
		t.Fatalf("expected rollback to leave %d records, got %d", before, after)
	}
}

func TestPing(t *testing.T) {
	client := &Client{conn: openTestConn(t)}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}
