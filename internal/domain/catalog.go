package domain

import (
	"context"
	"time"
)

// Offer is published by a company and can be liked by students.
type Offer struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"company_id"`
	Title       string    `json:"title" validate:"required,min=3,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=5000"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OfferWithCompany extends Offer with the publishing company.
// OwnerUserID is nil when the company has no owning account.
type OfferWithCompany struct {
	Offer
	CompanyName *string `json:"company_name"`
	OwnerUserID *int64  `json:"owner_user_id"`
}

// Formation is a study programme published by a university.
type Formation struct {
	ID           int64     `json:"id"`
	UniversityID int64     `json:"university_id"`
	Title        string    `json:"title" validate:"required,min=3,max=200"`
	Description  *string   `json:"description" validate:"omitempty,max=5000"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FormationWithUniversity extends Formation with the publishing university.
type FormationWithUniversity struct {
	Formation
	UniversityName *string `json:"university_name"`
	OwnerUserID    *int64  `json:"owner_user_id"`
}

type OfferRepository interface {
	Create(ctx context.Context, offer *Offer) error
	GetByIDWithCompany(ctx context.Context, id int64) (*OfferWithCompany, error)
	FetchWithCompany(ctx context.Context, limit, offset int) ([]OfferWithCompany, int64, error)
	FetchByCompanyID(ctx context.Context, companyID int64, limit, offset int) ([]Offer, int64, error)
}

type FormationRepository interface {
	Create(ctx context.Context, formation *Formation) error
	GetByIDWithUniversity(ctx context.Context, id int64) (*FormationWithUniversity, error)
	FetchWithUniversity(ctx context.Context, limit, offset int) ([]FormationWithUniversity, int64, error)
	FetchByUniversityID(ctx context.Context, universityID int64, limit, offset int) ([]Formation, int64, error)
}

type CatalogUsecase interface {
	CreateOffer(ctx context.Context, actorID, companyID int64, offer *Offer) error
	GetOffer(ctx context.Context, id int64) (*OfferWithCompany, error)
	ListOffers(ctx context.Context, page, pageSize int) ([]OfferWithCompany, int64, error)
	ListOffersByCompany(ctx context.Context, companyID int64, page, pageSize int) ([]Offer, int64, error)

	CreateFormation(ctx context.Context, actorID, universityID int64, formation *Formation) error
	GetFormation(ctx context.Context, id int64) (*FormationWithUniversity, error)
	ListFormations(ctx context.Context, page, pageSize int) ([]FormationWithUniversity, int64, error)
	ListFormationsByUniversity(ctx context.Context, universityID int64, page, pageSize int) ([]Formation, int64, error)
}
