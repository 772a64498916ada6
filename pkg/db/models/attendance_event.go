package models

import (
	"time"

	"github.com/gracechapel-dev/churchhub-backend/pkg/enums"
	"github.com/google/uuid"
)

// AttendanceEvent is one time-boxed check-in session. The join code is
// unique among active events; ended is terminal.
type AttendanceEvent struct {
	ID          uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string            `gorm:"type:text;not null"`
	Type        string            `gorm:"type:text;not null"`
	ScheduledAt time.Time         `gorm:"column:scheduled_at;not null"`
	Code        string            `gorm:"type:varchar(6);not null;index"`
	Status      enums.EventStatus `gorm:"type:text;not null;default:active;index"`
	CreatedBy   uuid.UUID         `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	EndedAt     *time.Time        `gorm:"column:ended_at"`

	Roster []Attendee `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// Attendee is one roster entry. The (event_id, user_id) unique index is
// what makes check-in an idempotent keyed write rather than a
// check-then-append sequence.
type Attendee struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EventID     uuid.UUID `gorm:"column:event_id;type:uuid;not null;uniqueIndex:idx_attendees_event_user"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_attendees_event_user"`
	Name        string    `gorm:"type:text;not null"`
	Email       string    `gorm:"type:text;not null"`
	CheckedInAt time.Time `gorm:"column:checked_in_at;not null"`
}
