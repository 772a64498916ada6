package sermons

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gracechapel-dev/churchhub-backend/internal/repo"
	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
)

// Repository exposes sermon persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a sermons repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, s *models.Sermon) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return r.DB(ctx).Create(s).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Sermon, error) {
	var s models.Sermon
	if err := r.DB(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns sermons most recently preached first.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]models.Sermon, error) {
	var out []models.Sermon
	q := r.DB(ctx).Order("preached_at desc")
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

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.DB(ctx).
		Model(&models.Sermon{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Delete(&models.Sermon{}, "id = ?", id).Error
}
