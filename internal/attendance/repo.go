package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gracechapel-dev/churchhub-backend/internal/repo"
	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
	"github.com/gracechapel-dev/churchhub-backend/pkg/enums"
)

// Repository exposes attendance persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs an attendance repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreateEvent inserts a new active event.
func (r *Repository) CreateEvent(ctx context.Context, event *models.AttendanceEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return r.DB(ctx).Create(event).Error
}

// FindByID loads an event with its roster.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.AttendanceEvent, error) {
	var event models.AttendanceEvent
	err := r.DB(ctx).
		Preload("Roster").
		First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// FindActiveByCode resolves a join code against active events only.
func (r *Repository) FindActiveByCode(ctx context.Context, code string) (*models.AttendanceEvent, error) {
	var event models.AttendanceEvent
	err := r.DB(ctx).
		Where("code = ? AND status = ?", code, enums.EventStatusActive).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ActiveCodeExists reports whether an active event already claims the code.
func (r *Repository) ActiveCodeExists(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.DB(ctx).
		Model(&models.AttendanceEvent{}).
		Where("code = ? AND status = ?", code, enums.EventStatusActive).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns events newest first, with rosters.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]models.AttendanceEvent, error) {
	var out []models.AttendanceEvent
	q := r.DB(ctx).
		Preload("Roster").
		Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MarkEnded stamps the event as ended. Ending an already ended event is
// a no-op update, which keeps the operation idempotent.
func (r *Repository) MarkEnded(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB(ctx).
		Model(&models.AttendanceEvent{}).
		Where("id = ? AND status = ?", id, enums.EventStatusActive).
		Updates(map[string]any{"status": enums.EventStatusEnded, "ended_at": at}).Error
}

// Delete removes the event; attendees go with it via FK cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Delete(&models.AttendanceEvent{}, "id = ?", id).Error
}

// InsertAttendee appends one roster entry. The (event_id, user_id)
// unique index turns a duplicate check-in into gorm.ErrDuplicatedKey.
func (r *Repository) InsertAttendee(ctx context.Context, attendee *models.Attendee) error {
	if attendee.ID == uuid.Nil {
		attendee.ID = uuid.New()
	}
	return r.DB(ctx).Create(attendee).Error
}

// Roster returns the attendees of one event ordered by check-in time.
func (r *Repository) Roster(ctx context.Context, eventID uuid.UUID) ([]models.Attendee, error) {
	var out []models.Attendee
	err := r.DB(ctx).
		Where("event_id = ?", eventID).
		Order("checked_in_at asc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CountEvents reports the total number of events.
func (r *Repository) CountEvents(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB(ctx).Model(&models.AttendanceEvent{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// CountActiveEvents reports how many events are currently open for
// check-in.
func (r *Repository) CountActiveEvents(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB(ctx).
		Model(&models.AttendanceEvent{}).
		Where("status = ?", enums.EventStatusActive).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

// CountAttendees reports the total roster entries across all events.
func (r *Repository) CountAttendees(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB(ctx).Model(&models.Attendee{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
