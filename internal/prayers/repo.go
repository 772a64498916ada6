package prayers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gracechapel-dev/churchhub-backend/internal/repo"
	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
)

// RequestRow is a request joined with its author and derived count.
type RequestRow struct {
	models.PrayerRequest
	AuthorName  string
	PrayerCount int64
}

// Repository exposes prayer wall persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a prayers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) CreateRequest(ctx context.Context, req *models.PrayerRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	return r.DB(ctx).Create(req).Error
}

func (r *Repository) FindRequest(ctx context.Context, id uuid.UUID) (*models.PrayerRequest, error) {
	var req models.PrayerRequest
	if err := r.DB(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListRequests returns the wall newest first. The prayer count is
// derived per row; it is never stored on the request.
func (r *Repository) ListRequests(ctx context.Context, limit, offset int) ([]RequestRow, error) {
	var out []RequestRow
	q := r.DB(ctx).
		Model(&models.PrayerRequest{}).
		Select("prayer_requests.*, users.full_name AS author_name, COUNT(prayers.id) AS prayer_count").
		Joins("LEFT JOIN users ON users.id = prayer_requests.user_id").
		Joins("LEFT JOIN prayers ON prayers.request_id = prayer_requests.id").
		Group("prayer_requests.id, users.full_name").
		Order("prayer_requests.created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Delete(&models.PrayerRequest{}, "id = ?", id).Error
}

// InsertPrayer records an endorsement. The (request_id, user_id)
// unique index turns a second endorsement into gorm.ErrDuplicatedKey.
func (r *Repository) InsertPrayer(ctx context.Context, p *models.Prayer) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.DB(ctx).Create(p).Error
}

func (r *Repository) DeletePrayer(ctx context.Context, requestID, userID uuid.UUID) error {
	return r.DB(ctx).
		Where("request_id = ? AND user_id = ?", requestID, userID).
		Delete(&models.Prayer{}).Error
}

func (r *Repository) CountPrayers(ctx context.Context, requestID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Prayer{}).
		Where("request_id = ?", requestID).
		Count(&count).Error
	return count, err
}
