package attendance

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gracechapel-dev/churchhub-backend/pkg/config"
	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
	"github.com/gracechapel-dev/churchhub-backend/pkg/enums"
	pkgerrors "github.com/gracechapel-dev/churchhub-backend/pkg/errors"
)

var joinCodeRe = regexp.MustCompile(`^[0-9]{6}$`)

// MemberIdentity is the checked-in member's denormalized roster identity.
type MemberIdentity struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// Service defines the attendance operations used by the controllers.
type Service interface {
	CreateEvent(ctx context.Context, createdBy uuid.UUID, req CreateEventRequest) (*EventDTO, error)
	CheckIn(ctx context.Context, member MemberIdentity, req CheckInRequest) (*CheckInResponse, error)
	EndEvent(ctx context.Context, id uuid.UUID) (*EventDTO, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	GetEvent(ctx context.Context, id uuid.UUID) (*EventDTO, error)
	ListEvents(ctx context.Context, limit, offset int) ([]EventDTO, error)
	ListEventsForMember(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]MemberEventDTO, error)
}

type eventRepository interface {
	CreateEvent(ctx context.Context, event *models.AttendanceEvent) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.AttendanceEvent, error)
	FindActiveByCode(ctx context.Context, code string) (*models.AttendanceEvent, error)
	ActiveCodeExists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]models.AttendanceEvent, error)
	MarkEnded(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	InsertAttendee(ctx context.Context, attendee *models.Attendee) error
}

type service struct {
	events       eventRepository
	codeAttempts int
}

// ServiceParams bundles the attendance service dependencies.
type ServiceParams struct {
	EventRepo        eventRepository
	AttendanceConfig config.AttendanceConfig
}

// NewService constructs the attendance service.
func NewService(params ServiceParams) (Service, error) {
	if params.EventRepo == nil {
		return nil, fmt.Errorf("event repository is required")
	}
	attempts := params.AttendanceConfig.CodeAttempts
	if attempts <= 0 {
		attempts = 10
	}
	return &service{
		events:       params.EventRepo,
		codeAttempts: attempts,
	}, nil
}

func (s *service) CreateEvent(ctx context.Context, createdBy uuid.UUID, req CreateEventRequest) (*EventDTO, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	eventType := strings.TrimSpace(req.Type)
	if eventType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "type is required")
	}
	if req.ScheduledAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduled_at is required")
	}

	code, err := s.uniqueJoinCode(ctx)
	if err != nil {
		return nil, err
	}

	event := &models.AttendanceEvent{
		Title:       title,
		Type:        eventType,
		ScheduledAt: req.ScheduledAt.UTC(),
		Code:        code,
		Status:      enums.EventStatusActive,
		CreatedBy:   createdBy,
	}
	if err := s.events.CreateEvent(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create event")
	}
	return eventFromModel(event), nil
}

// uniqueJoinCode draws codes until one is free among active events.
// Collisions only matter within the active set; ended events release
// their codes for reuse.
func (s *service) uniqueJoinCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < s.codeAttempts; attempt++ {
		code, err := randomJoinCode()
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate join code")
		}
		taken, err := s.events.ActiveCodeExists(ctx, code)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check join code")
		}
		if !taken {
			return code, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeInternal, "could not allocate a unique join code")
}

func (s *service) CheckIn(ctx context.Context, member MemberIdentity, req CheckInRequest) (*CheckInResponse, error) {
	code := strings.TrimSpace(req.Code)
	if !joinCodeRe.MatchString(code) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code must be exactly 6 digits")
	}
	if member.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing member identity")
	}

	event, err := s.events.FindActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidCode, "invalid or expired code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve join code")
	}

	now := time.Now().UTC()
	attendee := &models.Attendee{
		EventID:     event.ID,
		UserID:      member.ID,
		Name:        member.Name,
		Email:       member.Email,
		CheckedInAt: now,
	}
	if err := s.events.InsertAttendee(ctx, attendee); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeAlreadyCheckedIn, "already checked in to this event")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record check-in")
	}

	return &CheckInResponse{
		EventID:     event.ID,
		EventTitle:  event.Title,
		CheckedInAt: now,
	}, nil
}

// EndEvent closes an event. Ending an already ended event succeeds and
// returns the current state unchanged.
func (s *service) EndEvent(ctx context.Context, id uuid.UUID) (*EventDTO, error) {
	event, err := s.findEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status == enums.EventStatusEnded {
		return eventFromModel(event), nil
	}

	now := time.Now().UTC()
	if err := s.events.MarkEnded(ctx, id, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "end event")
	}
	event.Status = enums.EventStatusEnded
	event.EndedAt = &now
	return eventFromModel(event), nil
}

func (s *service) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findEvent(ctx, id); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete event")
	}
	return nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*EventDTO, error) {
	event, err := s.findEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return eventFromModel(event), nil
}

func (s *service) ListEvents(ctx context.Context, limit, offset int) ([]EventDTO, error) {
	events, err := s.events.List(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list events")
	}
	out := make([]EventDTO, 0, len(events))
	for i := range events {
		out = append(out, *eventFromModel(&events[i]))
	}
	return out, nil
}

func (s *service) ListEventsForMember(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]MemberEventDTO, error) {
	if memberID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing member identity")
	}
	events, err := s.events.List(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list events")
	}
	out := make([]MemberEventDTO, 0, len(events))
	for i := range events {
		out = append(out, memberEventFromModel(&events[i], memberID))
	}
	return out, nil
}

func (s *service) findEvent(ctx context.Context, id uuid.UUID) (*models.AttendanceEvent, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load event")
	}
	return event, nil
}
