package usecase

import (
	"context"
	"errors"
	"strings"

	"rezo-backend/internal/domain"
	"rezo-backend/pkg/apperror"
	"rezo-backend/pkg/audit"
	"rezo-backend/pkg/logger"
	"rezo-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type authUsecase struct {
	userRepo domain.UserRepository
	hasher   domain.PasswordHasher
	tokens   domain.TokenService
	validate *validator.Validate
	audit    *audit.Logger
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	tokens domain.TokenService,
	validate *validator.Validate,
	auditLog *audit.Logger,
) domain.AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		validate: validate,
		audit:    auditLog,
	}
}

// Register creates the account and its empty role profile in one step.
func (u *authUsecase) Register(ctx context.Context, input *domain.RegisterInput) (*domain.User, error) {
	input.Email = domain.NormalizeEmail(input.Email)
	if err := u.validate.Struct(input); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, apperror.Wrap(apperror.BadRequest("Unknown role"), err)
	}

	email := input.Email
	if _, err := u.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, apperror.Wrap(apperror.Conflict("Email is already registered"), domain.ErrDuplicateEmail)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	digest, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: digest,
		Role:         role,
		IsActive:     true,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
	}

	if err := u.userRepo.CreateWithProfile(ctx, user); err != nil {
		// A concurrent registration can still win the unique index
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, apperror.Wrap(apperror.Conflict("Email is already registered"), err)
		}
		return nil, err
	}

	u.audit.Log(audit.Event{Type: audit.EventRegistered, UserID: user.ID, Email: user.Email})
	logger.Log.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperror.BadRequest("Email and password are required")
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			u.audit.Log(audit.Event{Type: audit.EventLoginFailed, Email: email, Reason: "unknown email"})
			return nil, apperror.Wrap(apperror.Unauthorized("Invalid email or password"), domain.ErrInvalidCredentials)
		}
		return nil, err
	}

	// Same message for unknown email and wrong password
	if !u.hasher.Verify(password, user.PasswordHash) {
		u.audit.Log(audit.Event{Type: audit.EventLoginFailed, UserID: user.ID, Email: email, Reason: "wrong password"})
		return nil, apperror.Wrap(apperror.Unauthorized("Invalid email or password"), domain.ErrInvalidCredentials)
	}

	if !user.IsActive {
		u.audit.Log(audit.Event{Type: audit.EventLoginFailed, UserID: user.ID, Email: email, Reason: "inactive"})
		return nil, apperror.Wrap(apperror.Forbidden("Account is inactive"), domain.ErrInactiveUser)
	}

	token, expiresAt, err := u.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	u.audit.Log(audit.Event{Type: audit.EventLoginSuccess, UserID: user.ID, Email: email})
	return &domain.Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Authenticate resolves a bearer token to an active user.
func (u *authUsecase) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := u.tokens.Validate(token)
	if err != nil {
		return nil, apperror.Wrap(apperror.Unauthorized("Invalid or expired token"), err)
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthorized("User no longer exists")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperror.Wrap(apperror.Forbidden("Account is inactive"), domain.ErrInactiveUser)
	}
	return user, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Wrap(apperror.NotFound("User not found"), err)
		}
		return nil, err
	}
	return user, nil
}

func (u *authUsecase) GetPublicUser(ctx context.Context, id int64) (*domain.PublicUser, error) {
	user, err := u.GetCurrentUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// UpdateDeviceToken stores the push token; an empty token clears it.
func (u *authUsecase) UpdateDeviceToken(ctx context.Context, userID int64, token string) error {
	token = strings.TrimSpace(token)
	if len(token) > 512 {
		return apperror.BadRequest("Device token is too long")
	}

	var value *string
	if token != "" {
		value = &token
	}

	if err := u.userRepo.UpdateDeviceToken(ctx, userID, value); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.Wrap(apperror.NotFound("User not found"), err)
		}
		return err
	}
	return nil
}
