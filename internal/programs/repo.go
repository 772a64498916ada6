package programs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gracechapel-dev/churchhub-backend/internal/repo"
	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
)

// Repository exposes program persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a programs repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, p *models.Program) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.DB(ctx).Create(p).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Program, error) {
	var p models.Program
	if err := r.DB(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns programs soonest first.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]models.Program, error) {
	var out []models.Program
	q := r.DB(ctx).Order("scheduled_at asc")
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
		Model(&models.Program{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Delete(&models.Program{}, "id = ?", id).Error
}
