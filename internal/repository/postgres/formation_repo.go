package postgres

import (
	"context"
	"errors"

	"rezo-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type formationRepo struct {
	db *pgxpool.Pool
}

func NewFormationRepository(db *pgxpool.Pool) domain.FormationRepository {
	return &formationRepo{db: db}
}

func (r *formationRepo) Create(ctx context.Context, formation *domain.Formation) error {
	query := `INSERT INTO formations (university_id, title, description, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRow(ctx, query,
		formation.UniversityID, formation.Title, formation.Description, formation.CreatedAt, formation.UpdatedAt,
	).Scan(&formation.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// GetByIDWithUniversity returns the formation with its university and the university's owning user
func (r *formationRepo) GetByIDWithUniversity(ctx context.Context, id int64) (*domain.FormationWithUniversity, error) {
	query := `
		SELECT
			f.id, f.university_id, f.title, f.description, f.created_at, f.updated_at,
			u.name, u.user_id
		FROM formations f
		LEFT JOIN universities u ON f.university_id = u.id
		WHERE f.id = $1`

	var formation domain.FormationWithUniversity
	err := r.db.QueryRow(ctx, query, id).Scan(
		&formation.ID, &formation.UniversityID, &formation.Title, &formation.Description,
		&formation.CreatedAt, &formation.UpdatedAt,
		&formation.UniversityName, &formation.OwnerUserID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &formation, nil
}

func (r *formationRepo) FetchWithUniversity(ctx context.Context, limit, offset int) ([]domain.FormationWithUniversity, int64, error) {
	query := `
		SELECT
			f.id, f.university_id, f.title, f.description, f.created_at, f.updated_at,
			u.name, u.user_id
		FROM formations f
		LEFT JOIN universities u ON f.university_id = u.id
		ORDER BY f.created_at DESC, f.id DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	formations := []domain.FormationWithUniversity{}
	for rows.Next() {
		var formation domain.FormationWithUniversity
		if err := rows.Scan(
			&formation.ID, &formation.UniversityID, &formation.Title, &formation.Description,
			&formation.CreatedAt, &formation.UpdatedAt,
			&formation.UniversityName, &formation.OwnerUserID,
		); err != nil {
			return nil, 0, err
		}
		formations = append(formations, formation)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM formations`).Scan(&total); err != nil {
		return nil, 0, err
	}

	return formations, total, nil
}

func (r *formationRepo) FetchByUniversityID(ctx context.Context, universityID int64, limit, offset int) ([]domain.Formation, int64, error) {
	query := `SELECT id, university_id, title, description, created_at, updated_at
              FROM formations WHERE university_id = $1
              ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, universityID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	formations := []domain.Formation{}
	for rows.Next() {
		var formation domain.Formation
		if err := rows.Scan(
			&formation.ID, &formation.UniversityID, &formation.Title, &formation.Description,
			&formation.CreatedAt, &formation.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		formations = append(formations, formation)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM formations WHERE university_id = $1`, universityID).Scan(&total); err != nil {
		return nil, 0, err
	}

	return formations, total, nil
}
