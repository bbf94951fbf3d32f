package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recupera/collections-service/internal/domain"
)

// RemittanceRepository closes commission periods into batches.
type RemittanceRepository interface {
	CloseBatch(ctx context.Context, remittance *domain.Remittance) error
	GetByID(ctx context.Context, id string) (*domain.Remittance, error)
	List(ctx context.Context, limit, offset int) ([]domain.Remittance, error)
}

type remittanceRepository struct {
	pool *pgxpool.Pool
}

// NewRemittanceRepository instantiates the repository.
func NewRemittanceRepository(pool *pgxpool.Pool) RemittanceRepository {
	return &remittanceRepository{pool: pool}
}

// CloseBatch inserts the remittance and claims every unremitted commission in
// its period, all in one transaction. Totals are computed from the claimed
// rows, not from the caller.
func (r *remittanceRepository) CloseBatch(ctx context.Context, remittance *domain.Remittance) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insert = `
        INSERT INTO remittances (reference, period_from, period_to, created_by)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insert,
		remittance.Reference,
		remittance.PeriodFrom,
		remittance.PeriodTo,
		remittance.CreatedBy,
	).Scan(&remittance.ID, &remittance.CreatedAt); err != nil {
		return err
	}

	const claim = `
        UPDATE commissions SET remittance_id=$1
        WHERE remittance_id IS NULL AND created_at >= $2 AND created_at < $3 + INTERVAL '1 day'`
	if _, err := tx.Exec(ctx, claim, remittance.ID, remittance.PeriodFrom, remittance.PeriodTo); err != nil {
		return err
	}

	const total = `
        UPDATE remittances SET
            total_cents = (SELECT COALESCE(SUM(amount_cents),0) FROM commissions WHERE remittance_id=$1),
            commission_count = (SELECT COUNT(*) FROM commissions WHERE remittance_id=$1)
        WHERE id=$1
        RETURNING total_cents, commission_count`
	if err := tx.QueryRow(ctx, total, remittance.ID).Scan(&remittance.TotalCents, &remittance.CommissionCount); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *remittanceRepository) GetByID(ctx context.Context, id string) (*domain.Remittance, error) {
	const query = `
        SELECT id, reference, period_from, period_to, total_cents, commission_count, created_by, created_at
        FROM remittances WHERE id=$1`
	var remittance domain.Remittance
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&remittance.ID,
		&remittance.Reference,
		&remittance.PeriodFrom,
		&remittance.PeriodTo,
		&remittance.TotalCents,
		&remittance.CommissionCount,
		&remittance.CreatedBy,
		&remittance.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &remittance, nil
}

func (r *remittanceRepository) List(ctx context.Context, limit, offset int) ([]domain.Remittance, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, reference, period_from, period_to, total_cents, commission_count, created_by, created_at
        FROM remittances ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	remittances := make([]domain.Remittance, 0)
	for rows.Next() {
		var remittance domain.Remittance
		if err := rows.Scan(
			&remittance.ID,
			&remittance.Reference,
			&remittance.PeriodFrom,
			&remittance.PeriodTo,
			&remittance.TotalCents,
			&remittance.CommissionCount,
			&remittance.CreatedBy,
			&remittance.CreatedAt,
		); err != nil {
			return nil, err
		}
		remittances = append(remittances, remittance)
	}
	return remittances, rows.Err()
}
