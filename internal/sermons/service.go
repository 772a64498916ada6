package sermons

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

// Service defines the sermon operations used by the controllers.
type Service interface {
	Create(ctx context.Context, createdBy uuid.UUID, req CreateSermonRequest) (*SermonDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateSermonRequest) (*SermonDTO, error)
	AdoptMedia(ctx context.Context, id uuid.UUID, mediaURL string) (*SermonDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*SermonDTO, error)
	List(ctx context.Context, limit, offset int) ([]SermonDTO, error)
}

type sermonRepository interface {
	Create(ctx context.Context, s *models.Sermon) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Sermon, error)
	List(ctx context.Context, limit, offset int) ([]models.Sermon, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo sermonRepository
}

// ServiceParams bundles the sermon service dependencies.
type ServiceParams struct {
	Repo sermonRepository
}

// NewService constructs the sermons service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("sermon repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, createdBy uuid.UUID, req CreateSermonRequest) (*SermonDTO, error) {
	title := strings.TrimSpace(req.Title)
	preacher := strings.TrimSpace(req.Preacher)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if preacher == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "preacher is required")
	}
	if req.PreachedAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "preached_at is required")
	}

	m := &models.Sermon{
		Title:       title,
		Preacher:    preacher,
		Description: req.Description,
		MediaURL:    req.MediaURL,
		PreachedAt:  req.PreachedAt.UTC(),
		CreatedBy:   createdBy,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create sermon")
	}
	return fromModel(m), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateSermonRequest) (*SermonDTO, error) {
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
	if req.Preacher != nil {
		preacher := strings.TrimSpace(*req.Preacher)
		if preacher == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "preacher cannot be blank")
		}
		updates["preacher"] = preacher
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.MediaURL != nil {
		updates["media_url"] = *req.MediaURL
	}
	if req.PreachedAt != nil {
		if req.PreachedAt.IsZero() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "preached_at cannot be zero")
		}
		updates["preached_at"] = req.PreachedAt.UTC()
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update sermon")
	}
	return s.Get(ctx, id)
}

// AdoptMedia attaches an uploaded object's URL once the client finishes
// the signed upload.
func (s *service) AdoptMedia(ctx context.Context, id uuid.UUID, mediaURL string) (*SermonDTO, error) {
	mediaURL = strings.TrimSpace(mediaURL)
	if mediaURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "media_url is required")
	}
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, map[string]any{"media_url": mediaURL}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adopt sermon media")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete sermon")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SermonDTO, error) {
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromModel(m), nil
}

func (s *service) List(ctx context.Context, limit, offset int) ([]SermonDTO, error) {
	rows, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list sermons")
	}
	out := make([]SermonDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *fromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.Sermon, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sermon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sermon")
	}
	return m, nil
}
