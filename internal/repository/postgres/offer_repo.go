package postgres

import (
	"context"
	"errors"

	"rezo-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type offerRepo struct {
	db *pgxpool.Pool
}

func NewOfferRepository(db *pgxpool.Pool) domain.OfferRepository {
	return &offerRepo{db: db}
}

func (r *offerRepo) Create(ctx context.Context, offer *domain.Offer) error {
	query := `INSERT INTO offers (company_id, title, description, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRow(ctx, query,
		offer.CompanyID, offer.Title, offer.Description, offer.CreatedAt, offer.UpdatedAt,
	).Scan(&offer.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// GetByIDWithCompany returns the offer with its company and the company's owning user
func (r *offerRepo) GetByIDWithCompany(ctx context.Context, id int64) (*domain.OfferWithCompany, error) {
	query := `
		SELECT
			o.id, o.company_id, o.title, o.description, o.created_at, o.updated_at,
			c.name, c.user_id
		FROM offers o
		LEFT JOIN companies c ON o.company_id = c.id
		WHERE o.id = $1`

	var offer domain.OfferWithCompany
	err := r.db.QueryRow(ctx, query, id).Scan(
		&offer.ID, &offer.CompanyID, &offer.Title, &offer.Description, &offer.CreatedAt, &offer.UpdatedAt,
		&offer.CompanyName, &offer.OwnerUserID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &offer, nil
}

func (r *offerRepo) FetchWithCompany(ctx context.Context, limit, offset int) ([]domain.OfferWithCompany, int64, error) {
	query := `
		SELECT
			o.id, o.company_id, o.title, o.description, o.created_at, o.updated_at,
			c.name, c.user_id
		FROM offers o
		LEFT JOIN companies c ON o.company_id = c.id
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	offers := []domain.OfferWithCompany{}
	for rows.Next() {
		var offer domain.OfferWithCompany
		if err := rows.Scan(
			&offer.ID, &offer.CompanyID, &offer.Title, &offer.Description, &offer.CreatedAt, &offer.UpdatedAt,
			&offer.CompanyName, &offer.OwnerUserID,
		); err != nil {
			return nil, 0, err
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM offers`).Scan(&total); err != nil {
		return nil, 0, err
	}

	return offers, total, nil
}

func (r *offerRepo) FetchByCompanyID(ctx context.Context, companyID int64, limit, offset int) ([]domain.Offer, int64, error) {
	query := `SELECT id, company_id, title, description, created_at, updated_at
              FROM offers WHERE company_id = $1
              ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	offers := []domain.Offer{}
	for rows.Next() {
		var offer domain.Offer
		if err := rows.Scan(&offer.ID, &offer.CompanyID, &offer.Title, &offer.Description, &offer.CreatedAt, &offer.UpdatedAt); err != nil {
			return nil, 0, err
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM offers WHERE company_id = $1`, companyID).Scan(&total); err != nil {
		return nil, 0, err
	}

	return offers, total, nil
}
