package domain

import (
	"context"
	"strings"
	"time"
)

// Role is the user category that decides which profile a user owns.
type Role string

const (
	RoleStudent    Role = "student"
	RoleHighSchool Role = "high_school"
	RoleCompany    Role = "company"
	RoleUniversity Role = "university"
)

func (r Role) Valid() bool {
	_, ok := profileFactories[r]
	return ok
}

// IsOrganization reports whether profiles of the role may exist without an owning user.
func (r Role) IsOrganization() bool {
	return r == RoleCompany || r == RoleUniversity
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	DeviceToken  *string   `json:"device_token,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is what other users get to see.
type PublicUser struct {
	ID        int64  `json:"id"`
	Role      Role   `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
	}
}

// NormalizeEmail is applied before every lookup and insert so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterInput carries a new account's details.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=72,max_bytes=72"`
	Role      string `json:"role" validate:"required,oneof=student high_school company university"`
	FirstName string `json:"first_name" validate:"required,max=100,valid_name"`
	LastName  string `json:"last_name" validate:"required,max=100,valid_name"`
}

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// PasswordHasher is injected into the auth usecase; there is no process-wide default.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// TokenService issues and validates session tokens identifying a user.
type TokenService interface {
	Issue(userID int64) (string, time.Time, error)
	Validate(token string) (int64, error)
}

type UserRepository interface {
	// CreateWithProfile inserts the user and its role's empty profile atomically.
	CreateWithProfile(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateDeviceToken(ctx context.Context, id int64, token *string) error
}

type AuthUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Authenticate(ctx context.Context, token string) (*User, error)
	GetCurrentUser(ctx context.Context, id int64) (*User, error)
	GetPublicUser(ctx context.Context, id int64) (*PublicUser, error)
	UpdateDeviceToken(ctx context.Context, userID int64, token string) error
}
