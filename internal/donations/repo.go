package donations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gracechapel-dev/churchhub-backend/internal/repo"
	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
	"github.com/gracechapel-dev/churchhub-backend/pkg/enums"
)

// Repository exposes donation persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a donations repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, d *models.Donation) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return r.DB(ctx).Create(d).Error
}

func (r *Repository) FindByReference(ctx context.Context, reference string) (*models.Donation, error) {
	var d models.Donation
	if err := r.DB(ctx).Where("reference = ?", reference).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// Settle flips a pending donation to its terminal status. A row that
// already settled is left alone, which makes repeated verification
// idempotent.
func (r *Repository) Settle(ctx context.Context, reference string, status enums.DonationStatus, at time.Time) error {
	return r.DB(ctx).
		Model(&models.Donation{}).
		Where("reference = ? AND status = ?", reference, enums.DonationStatusPending).
		Updates(map[string]any{"status": status, "verified_at": at}).Error
}

// ListByUser returns a member's own gifts newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Donation, error) {
	var out []models.Donation
	q := r.DB(ctx).
		Where("user_id = ?", userID).
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

// ListAll returns every gift, optionally filtered by status, newest first.
func (r *Repository) ListAll(ctx context.Context, status enums.DonationStatus, limit, offset int) ([]models.Donation, error) {
	var out []models.Donation
	q := r.DB(ctx).Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
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

// SumSucceeded totals the settled gifts.
func (r *Repository) SumSucceeded(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.DB(ctx).
		Model(&models.Donation{}).
		Select("SUM(amount)").
		Where("status = ?", enums.DonationStatusSucceeded).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
