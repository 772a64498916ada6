package models

import (
	"time"

	"github.com/gracechapel-dev/churchhub-backend/pkg/enums"
	"github.com/google/uuid"
)

// User is the canonical identity plus member profile. Exactly one row
// exists per registered identity; the role gates admin surfaces.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	FullName     string     `gorm:"column:full_name;not null"`
	Phone        *string    `gorm:"column:phone"`
	Department   *string    `gorm:"column:department"`
	Role         enums.Role `gorm:"type:text;not null;default:member"`
	PhotoURL     *string    `gorm:"column:photo_url"`
	ChurchID     string     `gorm:"column:church_id;not null;default:default"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
