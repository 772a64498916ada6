package testimonies

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
	"github.com/gracechapel-dev/churchhub-backend/pkg/enums"
	pkgerrors "github.com/gracechapel-dev/churchhub-backend/pkg/errors"
)

// Service defines the testimony operations used by the controllers.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, req SubmitRequest) (*TestimonyDTO, error)
	ListApproved(ctx context.Context, limit, offset int) ([]TestimonyDTO, error)
	ListPending(ctx context.Context, limit, offset int) ([]TestimonyDTO, error)
	Approve(ctx context.Context, id uuid.UUID) (*TestimonyDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type testimonyRepository interface {
	Create(ctx context.Context, t *models.Testimony) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Testimony, error)
	ListByStatus(ctx context.Context, status enums.TestimonyStatus, limit, offset int) ([]models.Testimony, error)
	Approve(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo testimonyRepository
}

// ServiceParams bundles the testimony service dependencies.
type ServiceParams struct {
	Repo testimonyRepository
}

// NewService constructs the testimonies service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("testimony repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Submit(ctx context.Context, userID uuid.UUID, req SubmitRequest) (*TestimonyDTO, error) {
	if userID == uuid.Nil {
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

	m := &models.Testimony{
		UserID: userID,
		Title:  title,
		Body:   body,
		Status: enums.TestimonyStatusPending,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create testimony")
	}
	return fromModel(m), nil
}

func (s *service) ListApproved(ctx context.Context, limit, offset int) ([]TestimonyDTO, error) {
	return s.list(ctx, enums.TestimonyStatusApproved, limit, offset)
}

func (s *service) ListPending(ctx context.Context, limit, offset int) ([]TestimonyDTO, error) {
	return s.list(ctx, enums.TestimonyStatusPending, limit, offset)
}

func (s *service) list(ctx context.Context, status enums.TestimonyStatus, limit, offset int) ([]TestimonyDTO, error) {
	rows, err := s.repo.ListByStatus(ctx, status, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list testimonies")
	}
	out := make([]TestimonyDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *fromModel(&rows[i]))
	}
	return out, nil
}

// Approve publishes a pending testimony. Approving an already approved
// row is a no-op that returns the current state.
func (s *service) Approve(ctx context.Context, id uuid.UUID) (*TestimonyDTO, error) {
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status == enums.TestimonyStatusApproved {
		return fromModel(m), nil
	}

	now := time.Now().UTC()
	if err := s.repo.Approve(ctx, id, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "approve testimony")
	}
	m.Status = enums.TestimonyStatusApproved
	m.ApprovedAt = &now
	return fromModel(m), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete testimony")
	}
	return nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.Testimony, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "testimony not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load testimony")
	}
	return m, nil
}
