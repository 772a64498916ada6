package programs

import (
	"time"

	"github.com/google/uuid"

	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
)

// CreateProgramRequest schedules a new program or activity.
type CreateProgramRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Location    *string   `json:"location,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
}

// UpdateProgramRequest edits an existing program. Nil fields keep
// their current value.
type UpdateProgramRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// ProgramDTO is the public representation.
type ProgramDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    *string   `json:"location,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func fromModel(m *models.Program) *ProgramDTO {
	return &ProgramDTO{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Location:    m.Location,
		ScheduledAt: m.ScheduledAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
