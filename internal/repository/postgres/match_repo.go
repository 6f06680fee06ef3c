package postgres

import (
	"context"

	"rezo-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type matchRepo struct {
	db *pgxpool.Pool
}

func NewMatchRepository(db *pgxpool.Pool) domain.MatchRepository {
	return &matchRepo{db: db}
}

// Create inserts a like. The table's CHECK constraint rejects rows with both or neither target.
func (r *matchRepo) Create(ctx context.Context, match *domain.Match) error {
	query := `INSERT INTO matches (user_id, offer_id, formation_id, created_at)
              VALUES ($1, $2, $3, $4) RETURNING id`

	err := r.db.QueryRow(ctx, query, match.UserID, match.OfferID, match.FormationID, match.CreatedAt).
		Scan(&match.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *matchRepo) FetchByUserID(ctx context.Context, userID int64, limit, offset int) ([]domain.Match, int64, error) {
	query := `SELECT id, user_id, offer_id, formation_id, created_at
              FROM matches WHERE user_id = $1
              ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	matches := []domain.Match{}
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(&m.ID, &m.UserID, &m.OfferID, &m.FormationID, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM matches WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	return matches, total, nil
}
