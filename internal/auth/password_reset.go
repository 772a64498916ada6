package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/gracechapel-dev/churchhub-backend/pkg/config"
	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
	pkgerrors "github.com/gracechapel-dev/churchhub-backend/pkg/errors"
	"github.com/gracechapel-dev/churchhub-backend/pkg/security"
)

const resetTokenLength = 48

// PasswordResetService issues and redeems time-boxed reset tokens.
type PasswordResetService interface {
	RequestReset(ctx context.Context, req PasswordResetRequest) error
	ConfirmReset(ctx context.Context, req PasswordResetConfirmRequest) error
}

type resetTokenStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	ResetTokenKey(token string) string
}

type resetUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type passwordResetService struct {
	users       resetUserRepository
	store       resetTokenStore
	passwordCfg config.PasswordConfig
}

// PasswordResetParams packages the reset flow dependencies.
type PasswordResetParams struct {
	UserRepo       resetUserRepository
	TokenStore     resetTokenStore
	PasswordConfig config.PasswordConfig
}

// NewPasswordResetService builds the reset service.
func NewPasswordResetService(params PasswordResetParams) (PasswordResetService, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.TokenStore == nil {
		return nil, fmt.Errorf("token store is required")
	}
	return &passwordResetService{
		users:       params.UserRepo,
		store:       params.TokenStore,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// RequestReset stores a one-time token keyed to the account. An unknown
// email returns success so the endpoint cannot be used to enumerate accounts.
func (s *passwordResetService) RequestReset(ctx context.Context, req PasswordResetRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	token, err := security.GenerateResetToken(resetTokenLength)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}

	ttl := s.passwordCfg.ResetTokenTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if err := s.store.Set(ctx, s.store.ResetTokenKey(token), user.ID.String(), ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store reset token")
	}
	return nil
}

// ConfirmReset redeems the token, replaces the credential, and burns the token.
func (s *passwordResetService) ConfirmReset(ctx context.Context, req PasswordResetConfirmRequest) error {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}
	if len(req.NewPassword) < 8 {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	key := s.store.ResetTokenKey(token)
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return pkgerrors.New(pkgerrors.CodeInvalidCode, "invalid or expired reset token")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read reset token")
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse reset token subject")
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}

	if err := s.store.Del(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "burn reset token")
	}
	return nil
}
