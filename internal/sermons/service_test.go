package sermons

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
	pkgerrors "github.com/gracechapel-dev/churchhub-backend/pkg/errors"
)

type stubRepo struct {
	rows map[uuid.UUID]*models.Sermon
}

func newStubRepo() *stubRepo {
	return &stubRepo{rows: map[uuid.UUID]*models.Sermon{}}
}

func (s *stubRepo) Create(ctx context.Context, m *models.Sermon) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	s.rows[m.ID] = m
	return nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Sermon, error) {
	m, ok := s.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *m
	return &copied, nil
}

func (s *stubRepo) List(ctx context.Context, limit, offset int) ([]models.Sermon, error) {
	var out []models.Sermon
	for _, m := range s.rows {
		out = append(out, *m)
	}
	return out, nil
}

func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	m, ok := s.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["title"].(string); ok {
		m.Title = v
	}
	if v, ok := updates["preacher"].(string); ok {
		m.Preacher = v
	}
	if v, ok := updates["description"].(string); ok {
		m.Description = &v
	}
	if v, ok := updates["media_url"].(string); ok {
		m.MediaURL = &v
	}
	if v, ok := updates["preached_at"].(time.Time); ok {
		m.PreachedAt = v
	}
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.rows, id)
	return nil
}

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: newStubRepo()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func sampleRequest() CreateSermonRequest {
	return CreateSermonRequest{
		Title:      "Walking in Grace",
		Preacher:   "Pastor John",
		PreachedAt: time.Date(2025, 8, 24, 10, 0, 0, 0, time.UTC),
	}
}

func TestCreateSermon(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Create(context.Background(), uuid.New(), sampleRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.Title != "Walking in Grace" || got.Preacher != "Pastor John" {
		t.Fatalf("unexpected sermon: %+v", got)
	}
	if got.MediaURL != nil {
		t.Fatalf("expected no media yet")
	}
}

func TestCreateSermonValidation(t *testing.T) {
	svc := newTestService(t)

	cases := []struct {
		name string
		req  CreateSermonRequest
	}{
		{"missing title", CreateSermonRequest{Preacher: "p", PreachedAt: time.Now()}},
		{"missing preacher", CreateSermonRequest{Title: "t", PreachedAt: time.Now()}},
		{"missing preached_at", CreateSermonRequest{Title: "t", Preacher: "p"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), uuid.New(), tc.req); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAdoptMedia(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), uuid.New(), sampleRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.AdoptMedia(context.Background(), created.ID, "https://storage.googleapis.com/chb-media/media/sermons/abc.mp3")
	if err != nil {
		t.Fatalf("adopt media: %v", err)
	}
	if got.MediaURL == nil || *got.MediaURL == "" {
		t.Fatalf("expected media url adopted")
	}
}

func TestAdoptMediaValidation(t *testing.T) {
	svc := newTestService(t)

	created, _ := svc.Create(context.Background(), uuid.New(), sampleRequest())
	if _, err := svc.AdoptMedia(context.Background(), created.ID, "   "); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateSermonPartial(t *testing.T) {
	svc := newTestService(t)

	created, _ := svc.Create(context.Background(), uuid.New(), sampleRequest())

	desc := "Part two of the grace series."
	got, err := svc.Update(context.Background(), created.ID, UpdateSermonRequest{Description: &desc})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Description == nil || *got.Description != desc {
		t.Fatalf("expected description set, got %+v", got)
	}
	if got.Title != created.Title {
		t.Fatalf("expected untouched title")
	}
}

func TestDeleteSermonNotFound(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Delete(context.Background(), uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
