package announcements

import (
	"time"

	"github.com/google/uuid"

	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
)

// CreateAnnouncementRequest carries a new broadcast.
type CreateAnnouncementRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

// UpdateAnnouncementRequest edits an existing broadcast. Nil fields
// are left unchanged.
type UpdateAnnouncementRequest struct {
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
}

// AnnouncementDTO is the feed representation.
type AnnouncementDTO struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func fromModel(m *models.Announcement) *AnnouncementDTO {
	return &AnnouncementDTO{
		ID:        m.ID,
		Title:     m.Title,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
