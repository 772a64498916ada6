package donations

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
	"github.com/gracechapel-dev/churchhub-backend/pkg/enums"
)

// InitiateRequest opens a checkout for one gift.
type InitiateRequest struct {
	Provider string          `json:"provider" validate:"required"`
	Category string          `json:"category" validate:"required"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	Currency string          `json:"currency,omitempty"`
}

// InitiateResponse hands the hosted checkout back to the client.
type InitiateResponse struct {
	DonationID  uuid.UUID `json:"donation_id"`
	Reference   string    `json:"reference"`
	CheckoutURL string    `json:"checkout_url"`
}

// VerifyRequest settles a previously initiated donation.
type VerifyRequest struct {
	Reference string `json:"reference" validate:"required"`
}

// DonationDTO is the history representation.
type DonationDTO struct {
	ID         uuid.UUID             `json:"id"`
	Category   enums.DonationCategory `json:"category"`
	Provider   enums.PaymentProvider `json:"provider"`
	Reference  string                `json:"reference"`
	Amount     decimal.Decimal       `json:"amount"`
	Currency   string                `json:"currency"`
	Status     enums.DonationStatus  `json:"status"`
	CreatedAt  time.Time             `json:"created_at"`
	VerifiedAt *time.Time            `json:"verified_at,omitempty"`
}

func fromModel(m *models.Donation) *DonationDTO {
	return &DonationDTO{
		ID:         m.ID,
		Category:   m.Category,
		Provider:   m.Provider,
		Reference:  m.Reference,
		Amount:     m.Amount,
		Currency:   m.Currency,
		Status:     m.Status,
		CreatedAt:  m.CreatedAt,
		VerifiedAt: m.VerifiedAt,
	}
}
