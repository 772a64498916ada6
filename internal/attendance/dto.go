package attendance

import (
	"time"

	"github.com/google/uuid"

	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
	"github.com/gracechapel-dev/churchhub-backend/pkg/enums"
)

// CreateEventRequest is the admin payload for opening a check-in session.
type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required"`
	Type        string    `json:"type" validate:"required"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
}

// CheckInRequest carries the member's join code.
type CheckInRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// AttendeeDTO is one roster entry.
type AttendeeDTO struct {
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CheckedInAt time.Time `json:"checked_in_at"`
}

// EventDTO is the transport shape of an attendance event. The roster is
// keyed by member ID, so a client can test membership without scanning.
type EventDTO struct {
	ID          uuid.UUID              `json:"id"`
	Title       string                 `json:"title"`
	Type        string                 `json:"type"`
	ScheduledAt time.Time              `json:"scheduled_at"`
	Code        string                 `json:"code"`
	Status      enums.EventStatus      `json:"status"`
	CreatedBy   uuid.UUID              `json:"created_by"`
	CreatedAt   time.Time              `json:"created_at"`
	EndedAt     *time.Time             `json:"ended_at,omitempty"`
	Roster      map[string]AttendeeDTO `json:"roster"`
}

// MemberEventDTO is the member-facing event view. Join codes and the
// full roster stay admin-only; members see whether they checked in.
type MemberEventDTO struct {
	ID            uuid.UUID         `json:"id"`
	Title         string            `json:"title"`
	Type          string            `json:"type"`
	ScheduledAt   time.Time         `json:"scheduled_at"`
	Status        enums.EventStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	EndedAt       *time.Time        `json:"ended_at,omitempty"`
	AttendeeCount int               `json:"attendee_count"`
	CheckedIn     bool              `json:"checked_in"`
}

// CheckInResponse confirms the member's roster entry.
type CheckInResponse struct {
	EventID     uuid.UUID `json:"event_id"`
	EventTitle  string    `json:"event_title"`
	CheckedInAt time.Time `json:"checked_in_at"`
}

func attendeeFromModel(a models.Attendee) AttendeeDTO {
	return AttendeeDTO{
		UserID:      a.UserID,
		Name:        a.Name,
		Email:       a.Email,
		CheckedInAt: a.CheckedInAt,
	}
}

func memberEventFromModel(e *models.AttendanceEvent, memberID uuid.UUID) MemberEventDTO {
	checkedIn := false
	for _, a := range e.Roster {
		if a.UserID == memberID {
			checkedIn = true
			break
		}
	}
	return MemberEventDTO{
		ID:            e.ID,
		Title:         e.Title,
		Type:          e.Type,
		ScheduledAt:   e.ScheduledAt,
		Status:        e.Status,
		CreatedAt:     e.CreatedAt,
		EndedAt:       e.EndedAt,
		AttendeeCount: len(e.Roster),
		CheckedIn:     checkedIn,
	}
}

func eventFromModel(e *models.AttendanceEvent) *EventDTO {
	if e == nil {
		return nil
	}
	roster := make(map[string]AttendeeDTO, len(e.Roster))
	for _, a := range e.Roster {
		roster[a.UserID.String()] = attendeeFromModel(a)
	}
	return &EventDTO{
		ID:          e.ID,
		Title:       e.Title,
		Type:        e.Type,
		ScheduledAt: e.ScheduledAt,
		Code:        e.Code,
		Status:      e.Status,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		EndedAt:     e.EndedAt,
		Roster:      roster,
	}
}
