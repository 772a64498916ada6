package prayers

import (
	"time"

	"github.com/google/uuid"
)

// SubmitRequest carries a new prayer request.
type SubmitRequest struct {
	Title     string `json:"title" validate:"required"`
	Body      string `json:"body" validate:"required"`
	Anonymous bool   `json:"anonymous"`
}

// RequestDTO is the wall representation. Author is masked for
// anonymous submissions.
type RequestDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Author      string    `json:"author"`
	Anonymous   bool      `json:"anonymous"`
	PrayerCount int64     `json:"prayer_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToggleResponse reports the endorsement state after a toggle.
type ToggleResponse struct {
	RequestID   uuid.UUID `json:"request_id"`
	Praying     bool      `json:"praying"`
	PrayerCount int64     `json:"prayer_count"`
}
