package announcements

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

// Service defines the announcement operations used by the controllers.
type Service interface {
	Create(ctx context.Context, createdBy uuid.UUID, req CreateAnnouncementRequest) (*AnnouncementDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateAnnouncementRequest) (*AnnouncementDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*AnnouncementDTO, error)
	List(ctx context.Context, limit, offset int) ([]AnnouncementDTO, error)
}

type announcementRepository interface {
	Create(ctx context.Context, a *models.Announcement) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error)
	List(ctx context.Context, limit, offset int) ([]models.Announcement, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo announcementRepository
}

// ServiceParams bundles the announcement service dependencies.
type ServiceParams struct {
	Repo announcementRepository
}

// NewService constructs the announcements service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("announcement repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, createdBy uuid.UUID, req CreateAnnouncementRequest) (*AnnouncementDTO, error) {
	title := strings.TrimSpace(req.Title)
	body := strings.TrimSpace(req.Body)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "body is required")
	}

	a := &models.Announcement{
		Title:     title,
		Body:      body,
		CreatedBy: createdBy,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create announcement")
	}
	return fromModel(a), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateAnnouncementRequest) (*AnnouncementDTO, error) {
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
	if req.Body != nil {
		body := strings.TrimSpace(*req.Body)
		if body == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "body cannot be blank")
		}
		updates["body"] = body
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update announcement")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete announcement")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*AnnouncementDTO, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromModel(a), nil
}

func (s *service) List(ctx context.Context, limit, offset int) ([]AnnouncementDTO, error) {
	rows, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list announcements")
	}
	out := make([]AnnouncementDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *fromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.Announcement, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "announcement not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load announcement")
	}
	return a, nil
}
