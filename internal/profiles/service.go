package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"

	"github.com/gracechapel-dev/churchhub-backend/internal/users"
	"github.com/gracechapel-dev/churchhub-backend/pkg/config"
	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
	pkgerrors "github.com/gracechapel-dev/churchhub-backend/pkg/errors"
)

// UpdateRequest carries the editable profile fields.
type UpdateRequest struct {
	FullName   *string `json:"full_name,omitempty" validate:"omitempty,min=1"`
	Phone      *string `json:"phone,omitempty"`
	Department *string `json:"department,omitempty"`
}

// Service exposes the member's own profile operations.
type Service interface {
	Fetch(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	Update(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*users.UserDTO, error)
	AdoptPhoto(ctx context.Context, userID uuid.UUID, photoURL string) (*users.UserDTO, error)
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, dto users.UpdateProfileDTO) error
}

type service struct {
	users      userRepository
	retryDelay time.Duration
}

// ServiceParams bundles the profile service dependencies.
type ServiceParams struct {
	UserRepo      userRepository
	ProfileConfig config.ProfileConfig
}

// NewService constructs the profile service.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	delay := params.ProfileConfig.FetchRetryDelay
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	return &service{
		users:      params.UserRepo,
		retryDelay: delay,
	}, nil
}

// Fetch loads the profile, retrying once on a miss. A freshly registered
// member can race its own first profile read behind a replica, so one
// delayed retry papers over the lag before giving up with a clear error.
func (s *service) Fetch(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	var found *models.User
	backoff := retry.WithMaxRetries(1, retry.NewConstant(s.retryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return retry.RetryableError(err)
			}
			return err
		}
		found = user
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fetch profile")
	}
	return users.FromModel(found), nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*users.UserDTO, error) {
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full_name cannot be empty")
	}

	dto := users.UpdateProfileDTO{
		FullName:   req.FullName,
		Phone:      req.Phone,
		Department: req.Department,
	}
	if err := s.users.UpdateProfile(ctx, userID, dto); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}

	return s.reload(ctx, userID)
}

// AdoptPhoto records an uploaded photo's public URL on the profile once
// the client finishes the signed upload.
func (s *service) AdoptPhoto(ctx context.Context, userID uuid.UUID, photoURL string) (*users.UserDTO, error) {
	url := strings.TrimSpace(photoURL)
	if url == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "photo_url is required")
	}
	if err := s.users.UpdateProfile(ctx, userID, users.UpdateProfileDTO{PhotoURL: &url}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adopt photo")
	}
	return s.reload(ctx, userID)
}

func (s *service) reload(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload profile")
	}
	return users.FromModel(user), nil
}
