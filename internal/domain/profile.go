package domain

import (
	"context"
	"time"
)

// ProfileBase holds the columns every profile table shares.
// UserID is nullable: companies and universities may exist without an owning account.
type ProfileBase struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *ProfileBase) Base() *ProfileBase { return b }

// ProfileField binds a column name to the struct field that stores it.
type ProfileField struct {
	Column string
	Value  **string
}

// Profile is implemented by the four role-specific profile types.
type Profile interface {
	Role() Role
	Base() *ProfileBase
	// Fields lists the role-specific free-text columns in a stable order.
	Fields() []ProfileField
}

type Student struct {
	ProfileBase
	School         *string `json:"school" validate:"omitempty,max=200,no_emoji"`
	FieldOfStudy   *string `json:"field_of_study" validate:"omitempty,max=200,no_emoji"`
	GraduationYear *string `json:"graduation_year" validate:"omitempty,max=4,numeric"`
	Bio            *string `json:"bio" validate:"omitempty,max=1000"`
}

func (p *Student) Role() Role { return RoleStudent }

func (p *Student) Fields() []ProfileField {
	return []ProfileField{
		{"school", &p.School},
		{"field_of_study", &p.FieldOfStudy},
		{"graduation_year", &p.GraduationYear},
		{"bio", &p.Bio},
	}
}

type HighSchooler struct {
	ProfileBase
	HighSchool *string `json:"high_school" validate:"omitempty,max=200,no_emoji"`
	Grade      *string `json:"grade" validate:"omitempty,max=50"`
	Interests  *string `json:"interests" validate:"omitempty,max=500"`
	Bio        *string `json:"bio" validate:"omitempty,max=1000"`
}

func (p *HighSchooler) Role() Role { return RoleHighSchool }

func (p *HighSchooler) Fields() []ProfileField {
	return []ProfileField{
		{"high_school", &p.HighSchool},
		{"grade", &p.Grade},
		{"interests", &p.Interests},
		{"bio", &p.Bio},
	}
}

type Company struct {
	ProfileBase
	Name        *string `json:"name" validate:"omitempty,max=200,valid_name"`
	Industry    *string `json:"industry" validate:"omitempty,max=200"`
	Website     *string `json:"website" validate:"omitempty,url,max=500"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

func (p *Company) Role() Role { return RoleCompany }

func (p *Company) Fields() []ProfileField {
	return []ProfileField{
		{"name", &p.Name},
		{"industry", &p.Industry},
		{"website", &p.Website},
		{"description", &p.Description},
	}
}

type University struct {
	ProfileBase
	Name        *string `json:"name" validate:"omitempty,max=200,valid_name"`
	City        *string `json:"city" validate:"omitempty,max=200,valid_name"`
	Website     *string `json:"website" validate:"omitempty,url,max=500"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

func (p *University) Role() Role { return RoleUniversity }

func (p *University) Fields() []ProfileField {
	return []ProfileField{
		{"name", &p.Name},
		{"city", &p.City},
		{"website", &p.Website},
		{"description", &p.Description},
	}
}

// profileFactories is the single place that knows which profile a role owns.
// Adding a role means adding one entry here (and its table in the repository).
var profileFactories = map[Role]func() Profile{
	RoleStudent:    func() Profile { return &Student{} },
	RoleHighSchool: func() Profile { return &HighSchooler{} },
	RoleCompany:    func() Profile { return &Company{} },
	RoleUniversity: func() Profile { return &University{} },
}

// NewProfile returns an empty profile of the role's type.
func NewProfile(role Role) (Profile, error) {
	factory, ok := profileFactories[role]
	if !ok {
		return nil, ErrInvalidRole
	}
	return factory(), nil
}

// ProfileName returns the profile's "name" column, if its role has one.
func ProfileName(p Profile) *string {
	for _, f := range p.Fields() {
		if f.Column == "name" {
			return *f.Value
		}
	}
	return nil
}

// NewOwnedProfile returns an empty profile already owned by userID.
func NewOwnedProfile(role Role, userID int64) (Profile, error) {
	p, err := NewProfile(role)
	if err != nil {
		return nil, err
	}
	p.Base().UserID = &userID
	return p, nil
}

type ProfileRepository interface {
	// Create inserts a profile; Base().UserID may be nil for organizations.
	Create(ctx context.Context, profile Profile) error
	GetByID(ctx context.Context, role Role, id int64) (Profile, error)
	GetByUserID(ctx context.Context, role Role, userID int64) (Profile, error)
	Update(ctx context.Context, profile Profile) error
}

type ProfileUsecase interface {
	GetMyProfile(ctx context.Context, userID int64) (Profile, error)
	UpdateMyProfile(ctx context.Context, userID int64, profile Profile) (Profile, error)
	GetProfile(ctx context.Context, role Role, id int64) (Profile, error)
	// CreateOrganization registers a company or university, optionally owned by the caller.
	CreateOrganization(ctx context.Context, actorID int64, profile Profile) (Profile, error)
}
