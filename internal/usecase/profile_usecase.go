package usecase

import (
	"context"
	"errors"
	"strings"

	"rezo-backend/internal/domain"
	"rezo-backend/pkg/apperror"
	"rezo-backend/pkg/logger"
	"rezo-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type profileUsecase struct {
	userRepo    domain.UserRepository
	profileRepo domain.ProfileRepository
	validate    *validator.Validate
}

func NewProfileUsecase(userRepo domain.UserRepository, profileRepo domain.ProfileRepository, validate *validator.Validate) domain.ProfileUsecase {
	return &profileUsecase{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		validate:    validate,
	}
}

func (u *profileUsecase) GetMyProfile(ctx context.Context, userID int64) (domain.Profile, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, "User not found")
	}

	profile, err := u.profileRepo.GetByUserID(ctx, user.Role, userID)
	if err != nil {
		return nil, notFoundAs(err, "Profile not found")
	}
	return profile, nil
}

// UpdateMyProfile replaces the caller's profile fields. The identity columns
// always come from the stored row so a body cannot retarget another profile.
func (u *profileUsecase) UpdateMyProfile(ctx context.Context, userID int64, profile domain.Profile) (domain.Profile, error) {
	current, err := u.GetMyProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.Role() != current.Role() {
		return nil, apperror.BadRequest("Profile type does not match account role")
	}

	if err := u.validate.Struct(profile); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	*profile.Base() = *current.Base()

	if err := u.profileRepo.Update(ctx, profile); err != nil {
		return nil, notFoundAs(err, "Profile not found")
	}
	return profile, nil
}

func (u *profileUsecase) GetProfile(ctx context.Context, role domain.Role, id int64) (domain.Profile, error) {
	if !role.Valid() {
		return nil, apperror.Wrap(apperror.BadRequest("Unknown role"), domain.ErrInvalidRole)
	}
	profile, err := u.profileRepo.GetByID(ctx, role, id)
	if err != nil {
		return nil, notFoundAs(err, "Profile not found")
	}
	return profile, nil
}

// CreateOrganization adds a company or university outside of registration,
// typically one imported without an account. A user_id in the body can only
// name the caller, whose role must match.
func (u *profileUsecase) CreateOrganization(ctx context.Context, actorID int64, profile domain.Profile) (domain.Profile, error) {
	role := profile.Role()
	if !role.IsOrganization() {
		return nil, apperror.BadRequest("Only companies and universities can be created directly")
	}

	if name := domain.ProfileName(profile); name == nil || strings.TrimSpace(*name) == "" {
		return nil, apperror.BadRequest("Name: is required")
	}
	if err := u.validate.Struct(profile); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	owner := profile.Base().UserID
	if owner != nil {
		if *owner != actorID {
			return nil, apperror.Forbidden("You can only claim an organization for yourself")
		}
		user, err := u.userRepo.GetByID(ctx, *owner)
		if err != nil {
			return nil, notFoundAs(err, "User not found")
		}
		if user.Role != role {
			return nil, apperror.BadRequest("Account role does not match the organization type")
		}
	}

	*profile.Base() = domain.ProfileBase{UserID: owner}

	if err := u.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, domain.ErrProfileExists) {
			return nil, apperror.Wrap(apperror.Conflict("User already owns an organization"), err)
		}
		return nil, notFoundAs(err, "User not found")
	}

	logger.Log.InfoContext(ctx, "organization created",
		"role", role,
		"id", profile.Base().ID,
		"owned", owner != nil,
		"created_by", actorID,
	)
	return profile, nil
}

// notFoundAs turns domain.ErrNotFound into a 404 with a readable message.
func notFoundAs(err error, message string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.Wrap(apperror.NotFound(message), err)
	}
	return err
}
