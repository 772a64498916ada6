package members

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gracechapel-dev/churchhub-backend/internal/users"
	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
	"github.com/gracechapel-dev/churchhub-backend/pkg/enums"
	pkgerrors "github.com/gracechapel-dev/churchhub-backend/pkg/errors"
)

// Actor is the admin performing a directory operation. Role gates what
// they may do to other members.
type Actor struct {
	ID   uuid.UUID
	Role enums.Role
}

// ChangeRoleRequest moves a member to a new authorization tier.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// Service defines the member directory operations used by the admin
// controllers.
type Service interface {
	List(ctx context.Context, query string, limit, offset int) ([]users.UserDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*users.UserDTO, error)
	ChangeRole(ctx context.Context, actor Actor, memberID uuid.UUID, req ChangeRoleRequest) (*users.UserDTO, error)
	Deactivate(ctx context.Context, actor Actor, memberID uuid.UUID) error
	Reactivate(ctx context.Context, actor Actor, memberID uuid.UUID) error
}

type memberRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Search(ctx context.Context, query string, limit, offset int) ([]models.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role enums.Role) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type service struct {
	repo memberRepository
}

// ServiceParams bundles the member directory dependencies.
type ServiceParams struct {
	Repo memberRepository
}

// NewService constructs the members service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("member repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context, query string, limit, offset int) ([]users.UserDTO, error) {
	var (
		rows []models.User
		err  error
	)
	if trimmed := strings.TrimSpace(query); trimmed != "" {
		rows, err = s.repo.Search(ctx, trimmed, limit, offset)
	} else {
		rows, err = s.repo.List(ctx, limit, offset)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list members")
	}
	out := make([]users.UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *users.FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	member, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return users.FromModel(member), nil
}

// ChangeRole moves a member between tiers. Only a superadmin may grant
// or revoke admin, and nobody may change a superadmin's role through
// this path.
func (s *service) ChangeRole(ctx context.Context, actor Actor, memberID uuid.UUID, req ChangeRoleRequest) (*users.UserDTO, error) {
	newRole, err := enums.ParseRole(req.Role)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role")
	}
	if actor.ID == memberID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot change your own role")
	}

	member, err := s.find(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member.Role == enums.RoleSuperadmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "superadmin role cannot be changed")
	}
	touchesAdmin := newRole != enums.RoleMember || member.Role != enums.RoleMember
	if touchesAdmin && actor.Role != enums.RoleSuperadmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only a superadmin may grant or revoke admin")
	}
	if member.Role == newRole {
		return users.FromModel(member), nil
	}

	if err := s.repo.UpdateRole(ctx, memberID, newRole); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update role")
	}
	member.Role = newRole
	return users.FromModel(member), nil
}

func (s *service) Deactivate(ctx context.Context, actor Actor, memberID uuid.UUID) error {
	return s.setActive(ctx, actor, memberID, false)
}

func (s *service) Reactivate(ctx context.Context, actor Actor, memberID uuid.UUID) error {
	return s.setActive(ctx, actor, memberID, true)
}

func (s *service) setActive(ctx context.Context, actor Actor, memberID uuid.UUID, active bool) error {
	if actor.ID == memberID {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot deactivate your own account")
	}
	member, err := s.find(ctx, memberID)
	if err != nil {
		return err
	}
	if member.Role == enums.RoleSuperadmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "superadmin accounts cannot be deactivated")
	}
	if member.Role == enums.RoleAdmin && actor.Role != enums.RoleSuperadmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only a superadmin may deactivate an admin")
	}
	if err := s.repo.SetActive(ctx, memberID, active); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set member active")
	}
	return nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.User, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load member")
	}
	return member, nil
}
