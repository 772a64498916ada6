package attendance

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
	pkgerrors "github.com/gracechapel-dev/churchhub-backend/pkg/errors"
)

// Exporter streams an event's roster as CSV.
type Exporter interface {
	ExportRoster(ctx context.Context, eventID uuid.UUID, w io.Writer) (string, error)
}

type rosterRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.AttendanceEvent, error)
	Roster(ctx context.Context, eventID uuid.UUID) ([]models.Attendee, error)
}

type exporter struct {
	events rosterRepository
}

// NewExporter constructs the roster CSV exporter.
func NewExporter(repo rosterRepository) (Exporter, error) {
	if repo == nil {
		return nil, fmt.Errorf("event repository is required")
	}
	return &exporter{events: repo}, nil
}

// ExportRoster writes the roster ordered by check-in time and returns a
// filename derived from the event date.
func (e *exporter) ExportRoster(ctx context.Context, eventID uuid.UUID, w io.Writer) (string, error) {
	event, err := e.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load event")
	}

	roster, err := e.events.Roster(ctx, eventID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load roster")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "email", "checked_in_at"}); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv header")
	}
	for _, a := range roster {
		row := []string{a.Name, a.Email, a.CheckedInAt.UTC().Format(time.RFC3339)}
		if err := cw.Write(row); err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flush csv")
	}

	filename := fmt.Sprintf("attendance-%s-%s.csv",
		event.ScheduledAt.UTC().Format("2006-01-02"), event.ID)
	return filename, nil
}
