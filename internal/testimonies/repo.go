package testimonies

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gracechapel-dev/churchhub-backend/internal/repo"
	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
	"github.com/gracechapel-dev/churchhub-backend/pkg/enums"
)

// Repository exposes testimony persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a testimonies repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, t *models.Testimony) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return r.DB(ctx).Create(t).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Testimony, error) {
	var t models.Testimony
	if err := r.DB(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByStatus returns testimonies in the given moderation state,
// newest first. An empty status lists everything.
func (r *Repository) ListByStatus(ctx context.Context, status enums.TestimonyStatus, limit, offset int) ([]models.Testimony, error) {
	var out []models.Testimony
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

// Approve promotes a pending testimony. The status guard in the WHERE
// clause is what makes the transition one-way.
func (r *Repository) Approve(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB(ctx).
		Model(&models.Testimony{}).
		Where("id = ? AND status = ?", id, enums.TestimonyStatusPending).
		Updates(map[string]any{"status": enums.TestimonyStatusApproved, "approved_at": at}).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Delete(&models.Testimony{}, "id = ?", id).Error
}

func (r *Repository) CountByStatus(ctx context.Context, status enums.TestimonyStatus) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Testimony{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
