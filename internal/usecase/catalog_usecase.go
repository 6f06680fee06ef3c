package usecase

import (
	"context"
	"strings"
	"time"

	"rezo-backend/internal/domain"
	"rezo-backend/pkg/apperror"
	"rezo-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type catalogUsecase struct {
	offerRepo     domain.OfferRepository
	formationRepo domain.FormationRepository
	profileRepo   domain.ProfileRepository
	validate      *validator.Validate
}

func NewCatalogUsecase(
	offerRepo domain.OfferRepository,
	formationRepo domain.FormationRepository,
	profileRepo domain.ProfileRepository,
	validate *validator.Validate,
) domain.CatalogUsecase {
	return &catalogUsecase{
		offerRepo:     offerRepo,
		formationRepo: formationRepo,
		profileRepo:   profileRepo,
		validate:      validate,
	}
}

// requireOwner checks that actorID owns the organization profile.
func (u *catalogUsecase) requireOwner(ctx context.Context, role domain.Role, orgID, actorID int64) error {
	org, err := u.profileRepo.GetByID(ctx, role, orgID)
	if err != nil {
		return notFoundAs(err, "Organization not found")
	}
	owner := org.Base().UserID
	if owner == nil || *owner != actorID {
		return apperror.Forbidden("You can only publish for an organization you own")
	}
	return nil
}

func (u *catalogUsecase) CreateOffer(ctx context.Context, actorID, companyID int64, offer *domain.Offer) error {
	if err := u.requireOwner(ctx, domain.RoleCompany, companyID, actorID); err != nil {
		return err
	}

	offer.Title = strings.TrimSpace(offer.Title)
	if err := u.validate.Struct(offer); err != nil {
		return apperror.BadRequest(validation.Message(err))
	}

	now := time.Now().UTC()
	offer.CompanyID = companyID
	offer.CreatedAt = now
	offer.UpdatedAt = now
	return u.offerRepo.Create(ctx, offer)
}

func (u *catalogUsecase) GetOffer(ctx context.Context, id int64) (*domain.OfferWithCompany, error) {
	offer, err := u.offerRepo.GetByIDWithCompany(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Offer not found")
	}
	return offer, nil
}

func (u *catalogUsecase) ListOffers(ctx context.Context, page, pageSize int) ([]domain.OfferWithCompany, int64, error) {
	limit, offset := pageToLimitOffset(page, pageSize)
	return u.offerRepo.FetchWithCompany(ctx, limit, offset)
}

func (u *catalogUsecase) ListOffersByCompany(ctx context.Context, companyID int64, page, pageSize int) ([]domain.Offer, int64, error) {
	if _, err := u.profileRepo.GetByID(ctx, domain.RoleCompany, companyID); err != nil {
		return nil, 0, notFoundAs(err, "Company not found")
	}
	limit, offset := pageToLimitOffset(page, pageSize)
	return u.offerRepo.FetchByCompanyID(ctx, companyID, limit, offset)
}

func (u *catalogUsecase) CreateFormation(ctx context.Context, actorID, universityID int64, formation *domain.Formation) error {
	if err := u.requireOwner(ctx, domain.RoleUniversity, universityID, actorID); err != nil {
		return err
	}

	formation.Title = strings.TrimSpace(formation.Title)
	if err := u.validate.Struct(formation); err != nil {
		return apperror.BadRequest(validation.Message(err))
	}

	now := time.Now().UTC()
	formation.UniversityID = universityID
	formation.CreatedAt = now
	formation.UpdatedAt = now
	return u.formationRepo.Create(ctx, formation)
}

func (u *catalogUsecase) GetFormation(ctx context.Context, id int64) (*domain.FormationWithUniversity, error) {
	formation, err := u.formationRepo.GetByIDWithUniversity(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Formation not found")
	}
	return formation, nil
}

func (u *catalogUsecase) ListFormations(ctx context.Context, page, pageSize int) ([]domain.FormationWithUniversity, int64, error) {
	limit, offset := pageToLimitOffset(page, pageSize)
	return u.formationRepo.FetchWithUniversity(ctx, limit, offset)
}

func (u *catalogUsecase) ListFormationsByUniversity(ctx context.Context, universityID int64, page, pageSize int) ([]domain.Formation, int64, error) {
	if _, err := u.profileRepo.GetByID(ctx, domain.RoleUniversity, universityID); err != nil {
		return nil, 0, notFoundAs(err, "University not found")
	}
	limit, offset := pageToLimitOffset(page, pageSize)
	return u.formationRepo.FetchByUniversityID(ctx, universityID, limit, offset)
}
