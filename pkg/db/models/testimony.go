package models

import (
	"time"

	"github.com/gracechapel-dev/churchhub-backend/pkg/enums"
	"github.com/google/uuid"
)

// Testimony is a member submission held for moderation. Only approved
// rows appear in the public feed; pending to approved is one-way.
type Testimony struct {
	ID         uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	Title      string                `gorm:"type:text;not null"`
	Body       string                `gorm:"type:text;not null"`
	Status     enums.TestimonyStatus `gorm:"type:text;not null;default:pending;index"`
	CreatedAt  time.Time             `gorm:"column:created_at;autoCreateTime"`
	ApprovedAt *time.Time            `gorm:"column:approved_at"`
}
