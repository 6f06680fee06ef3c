package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rezo-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// profileTables maps each role to the table holding its profiles.
var profileTables = map[domain.Role]string{
	domain.RoleStudent:    "students",
	domain.RoleHighSchool: "high_schoolers",
	domain.RoleCompany:    "companies",
	domain.RoleUniversity: "universities",
}

func profileTable(role domain.Role) (string, error) {
	table, ok := profileTables[role]
	if !ok {
		return "", domain.ErrInvalidRole
	}
	return table, nil
}

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

// Create inserts the profile with its role-specific columns. A taken user_id
// maps to ErrProfileExists and an unknown one to ErrNotFound.
func (r *profileRepo) Create(ctx context.Context, profile domain.Profile) error {
	table, err := profileTable(profile.Role())
	if err != nil {
		return err
	}

	fields := profile.Fields()
	base := profile.Base()
	columns := []string{"user_id"}
	placeholders := []string{"$1"}
	args := []any{base.UserID}
	for i, f := range fields {
		columns = append(columns, f.Column)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		args = append(args, *f.Value)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING id, created_at, updated_at`,
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	err = r.db.QueryRow(ctx, query, args...).Scan(&base.ID, &base.CreatedAt, &base.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrProfileExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *profileRepo) GetByID(ctx context.Context, role domain.Role, id int64) (domain.Profile, error) {
	return r.getOne(ctx, role, "id", id)
}

func (r *profileRepo) GetByUserID(ctx context.Context, role domain.Role, userID int64) (domain.Profile, error) {
	return r.getOne(ctx, role, "user_id", userID)
}

func (r *profileRepo) getOne(ctx context.Context, role domain.Role, keyColumn string, key int64) (domain.Profile, error) {
	profile, err := domain.NewProfile(role)
	if err != nil {
		return nil, err
	}
	table, err := profileTable(role)
	if err != nil {
		return nil, err
	}

	fields := profile.Fields()
	columns := make([]string, 0, len(fields))
	base := profile.Base()
	dest := []any{&base.ID, &base.UserID, &base.CreatedAt, &base.UpdatedAt}
	for _, f := range fields {
		columns = append(columns, f.Column)
		dest = append(dest, f.Value)
	}

	query := fmt.Sprintf(`SELECT id, user_id, created_at, updated_at, %s FROM %s WHERE %s = $1`,
		strings.Join(columns, ", "), table, keyColumn)
	if err := r.db.QueryRow(ctx, query, key).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

// Update writes the role-specific columns of an existing profile.
func (r *profileRepo) Update(ctx context.Context, profile domain.Profile) error {
	table, err := profileTable(profile.Role())
	if err != nil {
		return err
	}

	fields := profile.Fields()
	sets := make([]string, 0, len(fields))
	args := []any{profile.Base().ID}
	for i, f := range fields {
		sets = append(sets, fmt.Sprintf("%s = $%d", f.Column, i+2))
		args = append(args, *f.Value)
	}

	query := fmt.Sprintf(`UPDATE %s SET %s, updated_at = NOW() WHERE id = $1 RETURNING updated_at`,
		table, strings.Join(sets, ", "))
	if err := r.db.QueryRow(ctx, query, args...).Scan(&profile.Base().UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}
