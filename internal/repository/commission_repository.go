package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recupera/collections-service/internal/domain"
)

// CommissionFilter captures commission search parameters.
type CommissionFilter struct {
	CreditorID *string
	From       *time.Time
	To         *time.Time
	Unremitted bool
	Limit      int
	Offset     int
}

// CommissionSummary aggregates commissions over a period.
type CommissionSummary struct {
	TotalCents int64
	Count      int64
}

// CommissionRepository reads commission rows; rows are produced inside the
// payment transaction in ChargeRepository.
type CommissionRepository interface {
	ListWithFilter(ctx context.Context, filter CommissionFilter) ([]domain.Commission, error)
	Summary(ctx context.Context, from, to time.Time) (*CommissionSummary, error)
}

type commissionRepository struct {
	pool *pgxpool.Pool
}

// NewCommissionRepository instantiates the repository.
func NewCommissionRepository(pool *pgxpool.Pool) CommissionRepository {
	return &commissionRepository{pool: pool}
}

func (r *commissionRepository) ListWithFilter(ctx context.Context, filter CommissionFilter) ([]domain.Commission, error) {
	base := `SELECT id, payment_id, charge_id, creditor_id, remittance_id, amount_cents, rate_bps, created_at
             FROM commissions`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreditorID != nil {
		args = append(args, *filter.CreditorID)
		clauses = append(clauses, fmt.Sprintf("creditor_id=$%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.Unremitted {
		clauses = append(clauses, "remittance_id IS NULL")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCommissions(rows)
}

func (r *commissionRepository) Summary(ctx context.Context, from, to time.Time) (*CommissionSummary, error) {
	const query = `
        SELECT COALESCE(SUM(amount_cents), 0), COUNT(*)
        FROM commissions WHERE created_at >= $1 AND created_at <= $2`
	var summary CommissionSummary
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&summary.TotalCents, &summary.Count); err != nil {
		return nil, err
	}
	return &summary, nil
}

func scanCommissions(rows pgx.Rows) ([]domain.Commission, error) {
	result := make([]domain.Commission, 0)
	for rows.Next() {
		var commission domain.Commission
		if err := rows.Scan(
			&commission.ID,
			&commission.PaymentID,
			&commission.ChargeID,
			&commission.CreditorID,
			&commission.RemittanceID,
			&commission.AmountCents,
			&commission.RateBps,
			&commission.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, commission)
	}
	return result, rows.Err()
}
