package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recupera/collections-service/internal/domain"
)

// CreditorRepository encapsulates creditor persistence.
type CreditorRepository interface {
	Create(ctx context.Context, creditor *domain.Creditor) error
	Update(ctx context.Context, creditor *domain.Creditor) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Creditor, error)
	List(ctx context.Context, limit, offset int) ([]domain.Creditor, error)
}

type creditorRepository struct {
	pool *pgxpool.Pool
}

// NewCreditorRepository instantiates the repository.
func NewCreditorRepository(pool *pgxpool.Pool) CreditorRepository {
	return &creditorRepository{pool: pool}
}

func (r *creditorRepository) Create(ctx context.Context, creditor *domain.Creditor) error {
	const query = `
        INSERT INTO creditors (name, document, email, phone, commission_rate_bps)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		creditor.Name,
		creditor.Document,
		creditor.Email,
		creditor.Phone,
		creditor.CommissionRateBps,
	).Scan(&creditor.ID, &creditor.CreatedAt, &creditor.UpdatedAt)
}

func (r *creditorRepository) Update(ctx context.Context, creditor *domain.Creditor) error {
	const query = `
        UPDATE creditors SET name=$1, document=$2, email=$3, phone=$4, commission_rate_bps=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		creditor.Name,
		creditor.Document,
		creditor.Email,
		creditor.Phone,
		creditor.CommissionRateBps,
		creditor.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *creditorRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM creditors WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *creditorRepository) GetByID(ctx context.Context, id string) (*domain.Creditor, error) {
	const query = `
        SELECT id, name, document, email, phone, commission_rate_bps, created_at, updated_at
        FROM creditors WHERE id=$1`
	var creditor domain.Creditor
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&creditor.ID,
		&creditor.Name,
		&creditor.Document,
		&creditor.Email,
		&creditor.Phone,
		&creditor.CommissionRateBps,
		&creditor.CreatedAt,
		&creditor.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &creditor, nil
}

func (r *creditorRepository) List(ctx context.Context, limit, offset int) ([]domain.Creditor, error) {
	const query = `
        SELECT id, name, document, email, phone, commission_rate_bps, created_at, updated_at
        FROM creditors ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	creditors := make([]domain.Creditor, 0)
	for rows.Next() {
		var creditor domain.Creditor
		if err := rows.Scan(
			&creditor.ID,
			&creditor.Name,
			&creditor.Document,
			&creditor.Email,
			&creditor.Phone,
			&creditor.CommissionRateBps,
			&creditor.CreatedAt,
			&creditor.UpdatedAt,
		); err != nil {
			return nil, err
		}
		creditors = append(creditors, creditor)
	}
	return creditors, rows.Err()
}
