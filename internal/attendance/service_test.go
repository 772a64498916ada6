package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gracechapel-dev/churchhub-backend/pkg/config"
	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
	"github.com/gracechapel-dev/churchhub-backend/pkg/enums"
	pkgerrors "github.com/gracechapel-dev/churchhub-backend/pkg/errors"
)

type stubEventRepo struct {
	events      map[uuid.UUID]*models.AttendanceEvent
	attendees   map[uuid.UUID]map[uuid.UUID]models.Attendee
	createCalls int
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{
		events:    map[uuid.UUID]*models.AttendanceEvent{},
		attendees: map[uuid.UUID]map[uuid.UUID]models.Attendee{},
	}
}

func (s *stubEventRepo) CreateEvent(ctx context.Context, event *models.AttendanceEvent) error {
	s.createCalls++
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now().UTC()
	s.events[event.ID] = event
	return nil
}

func (s *stubEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.AttendanceEvent, error) {
	event, ok := s.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *event
	copied.Roster = nil
	for _, a := range s.attendees[id] {
		copied.Roster = append(copied.Roster, a)
	}
	return &copied, nil
}

func (s *stubEventRepo) FindActiveByCode(ctx context.Context, code string) (*models.AttendanceEvent, error) {
	for _, event := range s.events {
		if event.Code == code && event.Status == enums.EventStatusActive {
			copied := *event
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubEventRepo) ActiveCodeExists(ctx context.Context, code string) (bool, error) {
	_, err := s.FindActiveByCode(ctx, code)
	return err == nil, nil
}

func (s *stubEventRepo) List(ctx context.Context, limit, offset int) ([]models.AttendanceEvent, error) {
	var out []models.AttendanceEvent
	for id := range s.events {
		found, _ := s.FindByID(ctx, id)
		out = append(out, *found)
	}
	return out, nil
}

func (s *stubEventRepo) MarkEnded(ctx context.Context, id uuid.UUID, at time.Time) error {
	event, ok := s.events[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if event.Status == enums.EventStatusActive {
		event.Status = enums.EventStatusEnded
		event.EndedAt = &at
	}
	return nil
}

func (s *stubEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.events, id)
	delete(s.attendees, id)
	return nil
}

func (s *stubEventRepo) InsertAttendee(ctx context.Context, attendee *models.Attendee) error {
	roster, ok := s.attendees[attendee.EventID]
	if !ok {
		roster = map[uuid.UUID]models.Attendee{}
		s.attendees[attendee.EventID] = roster
	}
	if _, exists := roster[attendee.UserID]; exists {
		return gorm.ErrDuplicatedKey
	}
	if attendee.ID == uuid.Nil {
		attendee.ID = uuid.New()
	}
	roster[attendee.UserID] = *attendee
	return nil
}

func (s *stubEventRepo) Roster(ctx context.Context, eventID uuid.UUID) ([]models.Attendee, error) {
	var out []models.Attendee
	for _, a := range s.attendees[eventID] {
		out = append(out, a)
	}
	return out, nil
}

func newTestService(t *testing.T, repo *stubEventRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		EventRepo:        repo,
		AttendanceConfig: config.AttendanceConfig{CodeAttempts: 10},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func sampleCreateRequest() CreateEventRequest {
	return CreateEventRequest{
		Title:       "Sunday Service",
		Type:        "service",
		ScheduledAt: time.Date(2025, 9, 7, 9, 0, 0, 0, time.UTC),
	}
}

func sampleMember() MemberIdentity {
	return MemberIdentity{
		ID:    uuid.New(),
		Name:  "Ada Obi",
		Email: "ada@gracechapel.dev",
	}
}

func TestCreateEventAssignsSixDigitCode(t *testing.T) {
	repo := newStubEventRepo()
	svc := newTestService(t, repo)

	event, err := svc.CreateEvent(context.Background(), uuid.New(), sampleCreateRequest())
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if !joinCodeRe.MatchString(event.Code) {
		t.Fatalf("expected 6-digit code, got %q", event.Code)
	}
	if event.Status != enums.EventStatusActive {
		t.Fatalf("expected active status, got %s", event.Status)
	}
	if len(event.Roster) != 0 {
		t.Fatalf("expected empty roster")
	}
}

func TestCreateEventRerollsOnCodeCollision(t *testing.T) {
	repo := newStubEventRepo()
	svc := newTestService(t, repo).(*service)

	collide := 3
	calls := 0
	svc.events = &collisionRepo{stubEventRepo: repo, collisions: collide, calls: &calls}

	event, err := svc.CreateEvent(context.Background(), uuid.New(), sampleCreateRequest())
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if calls != collide+1 {
		t.Fatalf("expected %d code checks, got %d", collide+1, calls)
	}
	if !joinCodeRe.MatchString(event.Code) {
		t.Fatalf("expected valid code after re-rolls, got %q", event.Code)
	}
}

type collisionRepo struct {
	*stubEventRepo
	collisions int
	calls      *int
}

func (c *collisionRepo) ActiveCodeExists(ctx context.Context, code string) (bool, error) {
	*c.calls++
	if *c.calls <= c.collisions {
		return true, nil
	}
	return false, nil
}

func TestCreateEventExhaustsCodeAttempts(t *testing.T) {
	repo := newStubEventRepo()
	svcIface := newTestService(t, repo)
	svc := svcIface.(*service)

	calls := 0
	svc.events = &collisionRepo{stubEventRepo: repo, collisions: 1 << 30, calls: &calls}

	_, err := svc.CreateEvent(context.Background(), uuid.New(), sampleCreateRequest())
	if !pkgerrors.IsCode(err, pkgerrors.CodeInternal) {
		t.Fatalf("expected internal error after exhausting attempts, got %v", err)
	}
	if calls != 10 {
		t.Fatalf("expected 10 attempts, got %d", calls)
	}
}

func TestCreateEventValidation(t *testing.T) {
	svc := newTestService(t, newStubEventRepo())

	cases := []struct {
		name string
		req  CreateEventRequest
	}{
		{"missing title", CreateEventRequest{Type: "service", ScheduledAt: time.Now()}},
		{"missing type", CreateEventRequest{Title: "t", ScheduledAt: time.Now()}},
		{"missing schedule", CreateEventRequest{Title: "t", Type: "service"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateEvent(context.Background(), uuid.New(), tc.req); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCheckInHappyPath(t *testing.T) {
	repo := newStubEventRepo()
	svc := newTestService(t, repo)

	event, err := svc.CreateEvent(context.Background(), uuid.New(), sampleCreateRequest())
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	member := sampleMember()
	resp, err := svc.CheckIn(context.Background(), member, CheckInRequest{Code: event.Code})
	if err != nil {
		t.Fatalf("check in: %v", err)
	}
	if resp.EventID != event.ID {
		t.Fatalf("checked into wrong event")
	}

	reloaded, err := svc.GetEvent(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	entry, ok := reloaded.Roster[member.ID.String()]
	if !ok {
		t.Fatalf("expected roster keyed by member id")
	}
	if entry.Name != member.Name || entry.Email != member.Email {
		t.Fatalf("roster entry mismatch: %+v", entry)
	}
}

func TestCheckInTwiceIsRejected(t *testing.T) {
	repo := newStubEventRepo()
	svc := newTestService(t, repo)

	event, err := svc.CreateEvent(context.Background(), uuid.New(), sampleCreateRequest())
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	member := sampleMember()

	if _, err := svc.CheckIn(context.Background(), member, CheckInRequest{Code: event.Code}); err != nil {
		t.Fatalf("first check in: %v", err)
	}
	_, err = svc.CheckIn(context.Background(), member, CheckInRequest{Code: event.Code})
	if !pkgerrors.IsCode(err, pkgerrors.CodeAlreadyCheckedIn) {
		t.Fatalf("expected already checked in, got %v", err)
	}

	reloaded, _ := svc.GetEvent(context.Background(), event.ID)
	if len(reloaded.Roster) != 1 {
		t.Fatalf("expected one roster entry, got %d", len(reloaded.Roster))
	}
}

func TestCheckInUnknownCode(t *testing.T) {
	svc := newTestService(t, newStubEventRepo())

	_, err := svc.CheckIn(context.Background(), sampleMember(), CheckInRequest{Code: "123456"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeInvalidCode) {
		t.Fatalf("expected invalid code, got %v", err)
	}
}

func TestCheckInEndedEventCodeIsExpired(t *testing.T) {
	repo := newStubEventRepo()
	svc := newTestService(t, repo)

	event, err := svc.CreateEvent(context.Background(), uuid.New(), sampleCreateRequest())
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if _, err := svc.EndEvent(context.Background(), event.ID); err != nil {
		t.Fatalf("end event: %v", err)
	}

	_, err = svc.CheckIn(context.Background(), sampleMember(), CheckInRequest{Code: event.Code})
	if !pkgerrors.IsCode(err, pkgerrors.CodeInvalidCode) {
		t.Fatalf("expected invalid code for ended event, got %v", err)
	}
}

func TestCheckInMalformedCode(t *testing.T) {
	svc := newTestService(t, newStubEventRepo())

	for _, code := range []string{"", "12345", "1234567", "12a456"} {
		if _, err := svc.CheckIn(context.Background(), sampleMember(), CheckInRequest{Code: code}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for %q, got %v", code, err)
		}
	}
}

func TestEndEventIsIdempotent(t *testing.T) {
	repo := newStubEventRepo()
	svc := newTestService(t, repo)

	event, err := svc.CreateEvent(context.Background(), uuid.New(), sampleCreateRequest())
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	first, err := svc.EndEvent(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("end event: %v", err)
	}
	if first.Status != enums.EventStatusEnded || first.EndedAt == nil {
		t.Fatalf("expected ended event, got %+v", first)
	}

	second, err := svc.EndEvent(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("ending twice should succeed: %v", err)
	}
	if !second.EndedAt.Equal(*first.EndedAt) {
		t.Fatalf("expected ended_at unchanged on second end")
	}
}

func TestEndEventNotFound(t *testing.T) {
	svc := newTestService(t, newStubEventRepo())

	if _, err := svc.EndEvent(context.Background(), uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCodeReleasedAfterEventEnds(t *testing.T) {
	repo := newStubEventRepo()
	svc := newTestService(t, repo)

	event, err := svc.CreateEvent(context.Background(), uuid.New(), sampleCreateRequest())
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if _, err := svc.EndEvent(context.Background(), event.ID); err != nil {
		t.Fatalf("end event: %v", err)
	}

	taken, err := repo.ActiveCodeExists(context.Background(), event.Code)
	if err != nil {
		t.Fatalf("code check: %v", err)
	}
	if taken {
		t.Fatalf("expected ended event to release its code")
	}
}

func TestDeleteEventRemovesRoster(t *testing.T) {
	repo := newStubEventRepo()
	svc := newTestService(t, repo)

	event, err := svc.CreateEvent(context.Background(), uuid.New(), sampleCreateRequest())
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if _, err := svc.CheckIn(context.Background(), sampleMember(), CheckInRequest{Code: event.Code}); err != nil {
		t.Fatalf("check in: %v", err)
	}

	if err := svc.DeleteEvent(context.Background(), event.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	if _, err := svc.GetEvent(context.Background(), event.ID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if len(repo.attendees[event.ID]) != 0 {
		t.Fatalf("expected roster removed with event")
	}
}

func TestDeleteEventNotFound(t *testing.T) {
	svc := newTestService(t, newStubEventRepo())

	if err := svc.DeleteEvent(context.Background(), uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListEventsForMemberFlagsOwnCheckIns(t *testing.T) {
	repo := newStubEventRepo()
	svc := newTestService(t, repo)

	attended, err := svc.CreateEvent(context.Background(), uuid.New(), sampleCreateRequest())
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	skipped, err := svc.CreateEvent(context.Background(), uuid.New(), CreateEventRequest{
		Title:       "Midweek Bible Study",
		Type:        "bible_study",
		ScheduledAt: time.Date(2025, 9, 10, 18, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create second event: %v", err)
	}

	member := sampleMember()
	if _, err := svc.CheckIn(context.Background(), member, CheckInRequest{Code: attended.Code}); err != nil {
		t.Fatalf("check in: %v", err)
	}
	other := sampleMember()
	if _, err := svc.CheckIn(context.Background(), other, CheckInRequest{Code: skipped.Code}); err != nil {
		t.Fatalf("other member check in: %v", err)
	}

	events, err := svc.ListEventsForMember(context.Background(), member.ID, 0, 0)
	if err != nil {
		t.Fatalf("list for member: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	for _, e := range events {
		if e.ID == attended.ID && !e.CheckedIn {
			t.Fatalf("expected checked_in on attended event")
		}
		if e.ID == skipped.ID && e.CheckedIn {
			t.Fatalf("unexpected checked_in on skipped event")
		}
		if e.ID == skipped.ID && e.AttendeeCount != 1 {
			t.Fatalf("expected attendee count 1, got %d", e.AttendeeCount)
		}
	}
}

func TestListEventsForMemberRequiresIdentity(t *testing.T) {
	svc := newTestService(t, newStubEventRepo())

	_, err := svc.ListEventsForMember(context.Background(), uuid.Nil, 0, 0)
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
