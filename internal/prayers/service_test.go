package prayers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
	pkgerrors "github.com/gracechapel-dev/churchhub-backend/pkg/errors"
)

type stubPrayerRepo struct {
	requests map[uuid.UUID]*models.PrayerRequest
	names    map[uuid.UUID]string
	prayers  map[uuid.UUID]map[uuid.UUID]struct{}
}

func newStubPrayerRepo() *stubPrayerRepo {
	return &stubPrayerRepo{
		requests: map[uuid.UUID]*models.PrayerRequest{},
		names:    map[uuid.UUID]string{},
		prayers:  map[uuid.UUID]map[uuid.UUID]struct{}{},
	}
}

func (s *stubPrayerRepo) CreateRequest(ctx context.Context, req *models.PrayerRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.CreatedAt = time.Now().UTC()
	s.requests[req.ID] = req
	return nil
}

func (s *stubPrayerRepo) FindRequest(ctx context.Context, id uuid.UUID) (*models.PrayerRequest, error) {
	req, ok := s.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *req
	return &copied, nil
}

func (s *stubPrayerRepo) ListRequests(ctx context.Context, limit, offset int) ([]RequestRow, error) {
	var out []RequestRow
	for _, req := range s.requests {
		out = append(out, RequestRow{
			PrayerRequest: *req,
			AuthorName:    s.names[req.UserID],
			PrayerCount:   int64(len(s.prayers[req.ID])),
		})
	}
	return out, nil
}

func (s *stubPrayerRepo) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	delete(s.requests, id)
	delete(s.prayers, id)
	return nil
}

func (s *stubPrayerRepo) InsertPrayer(ctx context.Context, p *models.Prayer) error {
	set, ok := s.prayers[p.RequestID]
	if !ok {
		set = map[uuid.UUID]struct{}{}
		s.prayers[p.RequestID] = set
	}
	if _, exists := set[p.UserID]; exists {
		return gorm.ErrDuplicatedKey
	}
	set[p.UserID] = struct{}{}
	return nil
}

func (s *stubPrayerRepo) DeletePrayer(ctx context.Context, requestID, userID uuid.UUID) error {
	delete(s.prayers[requestID], userID)
	return nil
}

func (s *stubPrayerRepo) CountPrayers(ctx context.Context, requestID uuid.UUID) (int64, error) {
	return int64(len(s.prayers[requestID])), nil
}

func newTestService(t *testing.T) (Service, *stubPrayerRepo) {
	t.Helper()
	repo := newStubPrayerRepo()
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestSubmitPrayerRequest(t *testing.T) {
	svc, _ := newTestService(t)
	author := Author{ID: uuid.New(), Name: "Ada Obi"}

	got, err := svc.Submit(context.Background(), author, SubmitRequest{
		Title: "Healing",
		Body:  "Please pray for my mother.",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.Author != "Ada Obi" {
		t.Fatalf("expected author shown, got %q", got.Author)
	}
	if got.PrayerCount != 0 {
		t.Fatalf("expected zero endorsements")
	}
}

func TestSubmitAnonymousMasksAuthor(t *testing.T) {
	svc, repo := newTestService(t)
	author := Author{ID: uuid.New(), Name: "Ada Obi"}
	repo.names[author.ID] = author.Name

	got, err := svc.Submit(context.Background(), author, SubmitRequest{
		Title:     "Guidance",
		Body:      "For a decision ahead.",
		Anonymous: true,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.Author != "Anonymous" {
		t.Fatalf("expected masked author, got %q", got.Author)
	}

	// the wall listing must mask it too even though the name joins through
	list, err := svc.List(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Author != "Anonymous" {
		t.Fatalf("expected anonymous listing, got %+v", list)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc, _ := newTestService(t)
	author := Author{ID: uuid.New(), Name: "Ada"}

	if _, err := svc.Submit(context.Background(), author, SubmitRequest{Body: "b"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Submit(context.Background(), Author{}, SubmitRequest{Title: "t", Body: "b"}); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestTogglePrayOnThenOff(t *testing.T) {
	svc, _ := newTestService(t)
	author := Author{ID: uuid.New(), Name: "Ada"}
	member := uuid.New()

	req, err := svc.Submit(context.Background(), author, SubmitRequest{Title: "t", Body: "b"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	on, err := svc.TogglePray(context.Background(), req.ID, member)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !on.Praying || on.PrayerCount != 1 {
		t.Fatalf("expected praying with count 1, got %+v", on)
	}

	off, err := svc.TogglePray(context.Background(), req.ID, member)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if off.Praying || off.PrayerCount != 0 {
		t.Fatalf("expected toggled off with count 0, got %+v", off)
	}
}

func TestTogglePrayCountsDistinctMembers(t *testing.T) {
	svc, _ := newTestService(t)
	author := Author{ID: uuid.New(), Name: "Ada"}

	req, _ := svc.Submit(context.Background(), author, SubmitRequest{Title: "t", Body: "b"})

	for i := 0; i < 3; i++ {
		if _, err := svc.TogglePray(context.Background(), req.ID, uuid.New()); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}
	resp, err := svc.TogglePray(context.Background(), req.ID, uuid.New())
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if resp.PrayerCount != 4 {
		t.Fatalf("expected 4 endorsements, got %d", resp.PrayerCount)
	}
}

func TestTogglePrayUnknownRequest(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.TogglePray(context.Background(), uuid.New(), uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteRequestRemovesEndorsements(t *testing.T) {
	svc, repo := newTestService(t)
	author := Author{ID: uuid.New(), Name: "Ada"}

	req, _ := svc.Submit(context.Background(), author, SubmitRequest{Title: "t", Body: "b"})
	if _, err := svc.TogglePray(context.Background(), req.ID, uuid.New()); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if err := svc.Delete(context.Background(), req.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.prayers[req.ID]) != 0 {
		t.Fatalf("expected endorsements removed with request")
	}
}
