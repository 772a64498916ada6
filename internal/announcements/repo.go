package announcements

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gracechapel-dev/churchhub-backend/internal/repo"
	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
)

// Repository exposes announcement persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs an announcements repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, a *models.Announcement) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return r.DB(ctx).Create(a).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error) {
	var a models.Announcement
	if err := r.DB(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns the feed newest first.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]models.Announcement, error) {
	var out []models.Announcement
	q := r.DB(ctx).Order("created_at desc")
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

// Update applies the provided column map. A no-op with an empty map.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.DB(ctx).
		Model(&models.Announcement{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Delete(&models.Announcement{}, "id = ?", id).Error
}
