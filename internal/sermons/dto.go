package sermons

import (
	"time"

	"github.com/google/uuid"

	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
)

// CreateSermonRequest records a new teaching.
type CreateSermonRequest struct {
	Title       string    `json:"title" validate:"required"`
	Preacher    string    `json:"preacher" validate:"required"`
	Description *string   `json:"description,omitempty"`
	MediaURL    *string   `json:"media_url,omitempty"`
	PreachedAt  time.Time `json:"preached_at" validate:"required"`
}

// UpdateSermonRequest edits an existing sermon. Nil fields keep their
// current value.
type UpdateSermonRequest struct {
	Title       *string    `json:"title,omitempty"`
	Preacher    *string    `json:"preacher,omitempty"`
	Description *string    `json:"description,omitempty"`
	MediaURL    *string    `json:"media_url,omitempty"`
	PreachedAt  *time.Time `json:"preached_at,omitempty"`
}

// SermonDTO is the public representation.
type SermonDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Preacher    string    `json:"preacher"`
	Description *string   `json:"description,omitempty"`
	MediaURL    *string   `json:"media_url,omitempty"`
	PreachedAt  time.Time `json:"preached_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func fromModel(m *models.Sermon) *SermonDTO {
	return &SermonDTO{
		ID:          m.ID,
		Title:       m.Title,
		Preacher:    m.Preacher,
		Description: m.Description,
		MediaURL:    m.MediaURL,
		PreachedAt:  m.PreachedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
