package testimonies

import (
	"time"

	"github.com/google/uuid"

	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
	"github.com/gracechapel-dev/churchhub-backend/pkg/enums"
)

// SubmitRequest carries a new testimony. Submissions enter moderation
// as pending.
type SubmitRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

// TestimonyDTO is the feed representation.
type TestimonyDTO struct {
	ID         uuid.UUID             `json:"id"`
	Title      string                `json:"title"`
	Body       string                `json:"body"`
	Status     enums.TestimonyStatus `json:"status"`
	CreatedAt  time.Time             `json:"created_at"`
	ApprovedAt *time.Time            `json:"approved_at,omitempty"`
}

func fromModel(m *models.Testimony) *TestimonyDTO {
	return &TestimonyDTO{
		ID:         m.ID,
		Title:      m.Title,
		Body:       m.Body,
		Status:     m.Status,
		CreatedAt:  m.CreatedAt,
		ApprovedAt: m.ApprovedAt,
	}
}
