package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/gracechapel-dev/churchhub-backend/pkg/db/models"
	"github.com/gracechapel-dev/churchhub-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Phone       *string    `json:"phone,omitempty"`
	Department  *string    `json:"department,omitempty"`
	Role        enums.Role `json:"role"`
	PhotoURL    *string    `json:"photo_url,omitempty"`
	ChurchID    string     `json:"church_id"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FullName     string
	Phone        *string
	Department   *string
	Role         enums.Role
	ChurchID     string
	IsActive     *bool
}

// UpdateProfileDTO carries the editable profile fields; nil means keep.
type UpdateProfileDTO struct {
	FullName   *string
	Phone      *string
	Department *string
	PhotoURL   *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Phone:       u.Phone,
		Department:  u.Department,
		Role:        u.Role,
		PhotoURL:    u.PhotoURL,
		ChurchID:    u.ChurchID,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	role := c.Role
	if role == "" {
		role = enums.RoleMember
	}

	churchID := c.ChurchID
	if churchID == "" {
		churchID = "default"
	}

	return &models.User{
		ID:           uuid.New(),
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FullName:     c.FullName,
		Phone:        c.Phone,
		Department:   c.Department,
		Role:         role,
		ChurchID:     churchID,
		IsActive:     isActive,
	}
}
