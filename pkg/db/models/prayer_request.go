package models

import (
	"time"

	"github.com/google/uuid"
)

// PrayerRequest is a member-submitted request. Endorsements live in the
// prayers table; the count is derived, never stored.
type PrayerRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Title     string    `gorm:"type:text;not null"`
	Body      string    `gorm:"type:text;not null"`
	Anonymous bool      `gorm:"column:anonymous;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Prayers []Prayer `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
}

// Prayer is one member's endorsement of a request. The unique pair
// makes the "I prayed" toggle an idempotent keyed write.
type Prayer struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RequestID uuid.UUID `gorm:"column:request_id;type:uuid;not null;uniqueIndex:idx_prayers_request_user"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_prayers_request_user"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
