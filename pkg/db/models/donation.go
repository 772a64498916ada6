package models

import (
	"time"

	"github.com/gracechapel-dev/churchhub-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Donation records one gift from initiation through settlement. The
// provider reference is the idempotency anchor: verification only ever
// settles the row it was initiated with.
type Donation struct {
	ID         uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	Category   enums.DonationCategory `gorm:"type:text;not null"`
	Provider   enums.PaymentProvider `gorm:"type:text;not null"`
	Reference  string                `gorm:"type:text;not null;uniqueIndex"`
	Amount     decimal.Decimal       `gorm:"type:numeric(12,2);not null"`
	Currency   string                `gorm:"type:varchar(3);not null;default:NGN"`
	Status     enums.DonationStatus  `gorm:"type:text;not null;default:pending;index"`
	CreatedAt  time.Time             `gorm:"column:created_at;autoCreateTime"`
	VerifiedAt *time.Time            `gorm:"column:verified_at"`
}
