package programs

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

// Service defines the program operations used by the controllers.
type Service interface {
	Create(ctx context.Context, createdBy uuid.UUID, req CreateProgramRequest) (*ProgramDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateProgramRequest) (*ProgramDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*ProgramDTO, error)
	List(ctx context.Context, limit, offset int) ([]ProgramDTO, error)
}

type programRepository interface {
	Create(ctx context.Context, p *models.Program) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Program, error)
	List(ctx context.Context, limit, offset int) ([]models.Program, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo programRepository
}

// ServiceParams bundles the program service dependencies.
type ServiceParams struct {
	Repo programRepository
}

// NewService constructs the programs service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("program repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, createdBy uuid.UUID, req CreateProgramRequest) (*ProgramDTO, error) {
	title := strings.TrimSpace(req.Title)
	desc := strings.TrimSpace(req.Description)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if desc == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if req.ScheduledAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduled_at is required")
	}

	p := &models.Program{
		Title:       title,
		Description: desc,
		Location:    req.Location,
		ScheduledAt: req.ScheduledAt.UTC(),
		CreatedBy:   createdBy,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create program")
	}
	return fromModel(p), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateProgramRequest) (*ProgramDTO, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be blank")
		}
		updates["title"] = title
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		if desc == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "description cannot be blank")
		}
		updates["description"] = desc
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.ScheduledAt != nil {
		if req.ScheduledAt.IsZero() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduled_at cannot be zero")
		}
		updates["scheduled_at"] = req.ScheduledAt.UTC()
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update program")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete program")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProgramDTO, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromModel(p), nil
}

func (s *service) List(ctx context.Context, limit, offset int) ([]ProgramDTO, error) {
	rows, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list programs")
	}
	out := make([]ProgramDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *fromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.Program, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "program not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load program")
	}
	return p, nil
}
