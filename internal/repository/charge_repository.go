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

// ChargeFilter captures charge search parameters.
type ChargeFilter struct {
	ClientID   *string
	CreditorID *string
	Statuses   []domain.ChargeStatus
	DueFrom    *time.Time
	DueTo      *time.Time
	Limit      int
	Offset     int
}

// DashboardStats aggregates the numbers shown on the landing screen.
type DashboardStats struct {
	OutstandingCents    int64
	CollectedMonthCents int64
	OpenChargeCount     int64
}

// ChargeRepository encapsulates debt persistence. RecordPayment runs the
// payment insert, the charge update and the commission row in one
// transaction so totals never drift.
type ChargeRepository interface {
	Create(ctx context.Context, charge *domain.Charge) error
	Update(ctx context.Context, charge *domain.Charge) error
	GetByID(ctx context.Context, id string) (*domain.Charge, error)
	ListWithFilter(ctx context.Context, filter ChargeFilter) ([]domain.Charge, error)
	RecordPayment(ctx context.Context, payment *domain.Payment, rateBps int32) (*domain.Charge, error)
	ListPayments(ctx context.Context, chargeID string) ([]domain.Payment, error)
	Stats(ctx context.Context, monthStart time.Time) (*DashboardStats, error)
}

type chargeRepository struct {
	pool *pgxpool.Pool
}

// NewChargeRepository instantiates the repository.
func NewChargeRepository(pool *pgxpool.Pool) ChargeRepository {
	return &chargeRepository{pool: pool}
}

func (r *chargeRepository) Create(ctx context.Context, charge *domain.Charge) error {
	const query = `
        INSERT INTO charges (client_id, creditor_id, description, amount_cents, status, due_date)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, paid_cents, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		charge.ClientID,
		charge.CreditorID,
		charge.Description,
		charge.AmountCents,
		charge.Status,
		charge.DueDate,
	).Scan(&charge.ID, &charge.PaidCents, &charge.CreatedAt, &charge.UpdatedAt)
}

func (r *chargeRepository) Update(ctx context.Context, charge *domain.Charge) error {
	const query = `
        UPDATE charges SET description=$1, amount_cents=$2, status=$3, due_date=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		charge.Description,
		charge.AmountCents,
		charge.Status,
		charge.DueDate,
		charge.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *chargeRepository) GetByID(ctx context.Context, id string) (*domain.Charge, error) {
	const query = `
        SELECT id, client_id, creditor_id, description, amount_cents, paid_cents, status, due_date, created_at, updated_at
        FROM charges WHERE id=$1`
	var charge domain.Charge
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&charge.ID,
		&charge.ClientID,
		&charge.CreditorID,
		&charge.Description,
		&charge.AmountCents,
		&charge.PaidCents,
		&charge.Status,
		&charge.DueDate,
		&charge.CreatedAt,
		&charge.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &charge, nil
}

func (r *chargeRepository) ListWithFilter(ctx context.Context, filter ChargeFilter) ([]domain.Charge, error) {
	base := `SELECT id, client_id, creditor_id, description, amount_cents, paid_cents, status, due_date, created_at, updated_at
             FROM charges`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("client_id=$%d", len(args)))
	}
	if filter.CreditorID != nil {
		args = append(args, *filter.CreditorID)
		clauses = append(clauses, fmt.Sprintf("creditor_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.DueFrom != nil {
		args = append(args, *filter.DueFrom)
		clauses = append(clauses, fmt.Sprintf("due_date >= $%d", len(args)))
	}
	if filter.DueTo != nil {
		args = append(args, *filter.DueTo)
		clauses = append(clauses, fmt.Sprintf("due_date <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY due_date LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCharges(rows)
}

// RecordPayment inserts the payment, bumps the charge's paid total, derives
// the new status and writes the commission row at the given rate. The caller
// supplies the creditor rate so the lookup stays outside the transaction.
func (r *chargeRepository) RecordPayment(ctx context.Context, payment *domain.Payment, rateBps int32) (*domain.Charge, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertPayment = `
        INSERT INTO payments (charge_id, amount_cents, method, recorded_by, paid_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insertPayment,
		payment.ChargeID,
		payment.AmountCents,
		payment.Method,
		payment.RecordedBy,
		payment.PaidAt,
	).Scan(&payment.ID, &payment.CreatedAt); err != nil {
		return nil, err
	}

	const updateCharge = `
        UPDATE charges SET paid_cents = paid_cents + $1,
               status = CASE WHEN paid_cents + $1 >= amount_cents THEN 'PAID' ELSE 'PARTIAL' END,
               updated_at = NOW()
        WHERE id=$2
        RETURNING id, client_id, creditor_id, description, amount_cents, paid_cents, status, due_date, created_at, updated_at`
	var charge domain.Charge
	if err := tx.QueryRow(ctx, updateCharge, payment.AmountCents, payment.ChargeID).Scan(
		&charge.ID,
		&charge.ClientID,
		&charge.CreditorID,
		&charge.Description,
		&charge.AmountCents,
		&charge.PaidCents,
		&charge.Status,
		&charge.DueDate,
		&charge.CreatedAt,
		&charge.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if rateBps > 0 {
		const insertCommission = `
            INSERT INTO commissions (payment_id, charge_id, creditor_id, amount_cents, rate_bps)
            VALUES ($1,$2,$3,$4,$5)`
		commission := payment.AmountCents * int64(rateBps) / 10000
		if _, err := tx.Exec(ctx, insertCommission,
			payment.ID,
			charge.ID,
			charge.CreditorID,
			commission,
			rateBps,
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &charge, nil
}

func (r *chargeRepository) ListPayments(ctx context.Context, chargeID string) ([]domain.Payment, error) {
	const query = `
        SELECT id, charge_id, amount_cents, method, recorded_by, paid_at, created_at
        FROM payments WHERE charge_id=$1 ORDER BY paid_at`

	rows, err := r.pool.Query(ctx, query, chargeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0)
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.ChargeID,
			&payment.AmountCents,
			&payment.Method,
			&payment.RecordedBy,
			&payment.PaidAt,
			&payment.CreatedAt,
		); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// Stats computes the dashboard aggregates in a single round-trip.
func (r *chargeRepository) Stats(ctx context.Context, monthStart time.Time) (*DashboardStats, error) {
	const query = `
        SELECT
            COALESCE(SUM(amount_cents - paid_cents) FILTER (WHERE status IN ('OPEN','PARTIAL')), 0),
            COALESCE((SELECT SUM(amount_cents) FROM payments WHERE paid_at >= $1), 0),
            COUNT(*) FILTER (WHERE status IN ('OPEN','PARTIAL'))
        FROM charges`

	var stats DashboardStats
	if err := r.pool.QueryRow(ctx, query, monthStart).Scan(
		&stats.OutstandingCents,
		&stats.CollectedMonthCents,
		&stats.OpenChargeCount,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

func scanCharges(rows pgx.Rows) ([]domain.Charge, error) {
	result := make([]domain.Charge, 0)
	for rows.Next() {
		var charge domain.Charge
		if err := rows.Scan(
			&charge.ID,
			&charge.ClientID,
			&charge.CreditorID,
			&charge.Description,
			&charge.AmountCents,
			&charge.PaidCents,
			&charge.Status,
			&charge.DueDate,
			&charge.CreatedAt,
			&charge.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, charge)
	}
	return result, rows.Err()
}
