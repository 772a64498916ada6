package prayers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
	pkgerrors "github.com/gracechapel-dev/churchhub-backend/pkg/errors"
)

const anonymousAuthor = "Anonymous"

// Author is the submitting member's display identity.
type Author struct {
	ID   uuid.UUID
	Name string
}

// Service defines the prayer wall operations used by the controllers.
type Service interface {
	Submit(ctx context.Context, author Author, req SubmitRequest) (*RequestDTO, error)
	List(ctx context.Context, limit, offset int) ([]RequestDTO, error)
	TogglePray(ctx context.Context, requestID, userID uuid.UUID) (*ToggleResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type prayerRepository interface {
	CreateRequest(ctx context.Context, req *models.PrayerRequest) error
	FindRequest(ctx context.Context, id uuid.UUID) (*models.PrayerRequest, error)
	ListRequests(ctx context.Context, limit, offset int) ([]RequestRow, error)
	DeleteRequest(ctx context.Context, id uuid.UUID) error
	InsertPrayer(ctx context.Context, p *models.Prayer) error
	DeletePrayer(ctx context.Context, requestID, userID uuid.UUID) error
	CountPrayers(ctx context.Context, requestID uuid.UUID) (int64, error)
}

type service struct {
	repo prayerRepository
}

// ServiceParams bundles the prayer service dependencies.
type ServiceParams struct {
	Repo prayerRepository
}

// NewService constructs the prayers service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("prayer repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Submit(ctx context.Context, author Author, req SubmitRequest) (*RequestDTO, error) {
	if author.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing member identity")
	}
	title := strings.TrimSpace(req.Title)
	body := strings.TrimSpace(req.Body)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "body is required")
	}

	m := &models.PrayerRequest{
		UserID:    author.ID,
		Title:     title,
		Body:      body,
		Anonymous: req.Anonymous,
	}
	if err := s.repo.CreateRequest(ctx, m); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create prayer request")
	}
	display := author.Name
	if m.Anonymous {
		display = anonymousAuthor
	}
	return &RequestDTO{
		ID:        m.ID,
		Title:     m.Title,
		Body:      m.Body,
		Author:    display,
		Anonymous: m.Anonymous,
		CreatedAt: m.CreatedAt,
	}, nil
}

func (s *service) List(ctx context.Context, limit, offset int) ([]RequestDTO, error) {
	rows, err := s.repo.ListRequests(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list prayer requests")
	}
	out := make([]RequestDTO, 0, len(rows))
	for _, row := range rows {
		author := row.AuthorName
		if row.Anonymous || author == "" {
			author = anonymousAuthor
		}
		out = append(out, RequestDTO{
			ID:          row.ID,
			Title:       row.Title,
			Body:        row.Body,
			Author:      author,
			Anonymous:   row.Anonymous,
			PrayerCount: row.PrayerCount,
			CreatedAt:   row.CreatedAt,
		})
	}
	return out, nil
}

// TogglePray flips the caller's endorsement. A first call records it,
// a second removes it. The unique pair index is what detects the
// existing row, so concurrent toggles cannot double-count.
func (s *service) TogglePray(ctx context.Context, requestID, userID uuid.UUID) (*ToggleResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing member identity")
	}
	if _, err := s.repo.FindRequest(ctx, requestID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "prayer request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load prayer request")
	}

	praying := true
	err := s.repo.InsertPrayer(ctx, &models.Prayer{RequestID: requestID, UserID: userID})
	if err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record prayer")
		}
		if err := s.repo.DeletePrayer(ctx, requestID, userID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove prayer")
		}
		praying = false
	}

	count, err := s.repo.CountPrayers(ctx, requestID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count prayers")
	}
	return &ToggleResponse{RequestID: requestID, Praying: praying, PrayerCount: count}, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindRequest(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "prayer request not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load prayer request")
	}
	if err := s.repo.DeleteRequest(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete prayer request")
	}
	return nil
}
