package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recupera/collections-service/internal/domain"
)

// DueInstallment joins an unpaid installment with the contact details the
// reminder pipeline needs.
type DueInstallment struct {
	Installment domain.Installment
	ClientID    string
	ClientName  string
	ClientPhone string
}

// AgreementRepository manages installment plans.
type AgreementRepository interface {
	CreateWithInstallments(ctx context.Context, agreement *domain.Agreement, installments []domain.Installment) error
	GetByID(ctx context.Context, id string) (*domain.Agreement, error)
	List(ctx context.Context, limit, offset int) ([]domain.Agreement, error)
	ListByCharge(ctx context.Context, chargeID string) ([]domain.Agreement, error)
	ListInstallments(ctx context.Context, agreementID string) ([]domain.Installment, error)
	GetInstallment(ctx context.Context, agreementID string, number int) (*domain.Installment, error)
	MarkInstallmentPaid(ctx context.Context, installmentID string, paidAt time.Time) error
	SetStatus(ctx context.Context, agreementID string, status domain.AgreementStatus) error
	ListDueInstallments(ctx context.Context, from, to time.Time) ([]DueInstallment, error)
}

type agreementRepository struct {
	pool *pgxpool.Pool
}

// NewAgreementRepository instantiates the repository.
func NewAgreementRepository(pool *pgxpool.Pool) AgreementRepository {
	return &agreementRepository{pool: pool}
}

// CreateWithInstallments writes the agreement and its schedule atomically.
func (r *agreementRepository) CreateWithInstallments(ctx context.Context, agreement *domain.Agreement, installments []domain.Installment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertAgreement = `
        INSERT INTO agreements (charge_id, total_cents, installment_count, status, start_date, created_by)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insertAgreement,
		agreement.ChargeID,
		agreement.TotalCents,
		agreement.InstallmentCount,
		agreement.Status,
		agreement.StartDate,
		agreement.CreatedBy,
	).Scan(&agreement.ID, &agreement.CreatedAt, &agreement.UpdatedAt); err != nil {
		return err
	}

	const insertInstallment = `
        INSERT INTO installments (agreement_id, number, amount_cents, due_date)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	for i := range installments {
		installments[i].AgreementID = agreement.ID
		if err := tx.QueryRow(ctx, insertInstallment,
			agreement.ID,
			installments[i].Number,
			installments[i].AmountCents,
			installments[i].DueDate,
		).Scan(&installments[i].ID, &installments[i].CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *agreementRepository) GetByID(ctx context.Context, id string) (*domain.Agreement, error) {
	const query = `
        SELECT id, charge_id, total_cents, installment_count, status, start_date, created_by, created_at, updated_at
        FROM agreements WHERE id=$1`
	var agreement domain.Agreement
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&agreement.ID,
		&agreement.ChargeID,
		&agreement.TotalCents,
		&agreement.InstallmentCount,
		&agreement.Status,
		&agreement.StartDate,
		&agreement.CreatedBy,
		&agreement.CreatedAt,
		&agreement.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &agreement, nil
}

func (r *agreementRepository) List(ctx context.Context, limit, offset int) ([]domain.Agreement, error) {
	const query = `
        SELECT id, charge_id, total_cents, installment_count, status, start_date, created_by, created_at, updated_at
        FROM agreements ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.queryAgreements(ctx, query, limit, offset)
}

func (r *agreementRepository) ListByCharge(ctx context.Context, chargeID string) ([]domain.Agreement, error) {
	const query = `
        SELECT id, charge_id, total_cents, installment_count, status, start_date, created_by, created_at, updated_at
        FROM agreements WHERE charge_id=$1 ORDER BY created_at DESC`
	return r.queryAgreements(ctx, query, chargeID)
}

func (r *agreementRepository) queryAgreements(ctx context.Context, query string, args ...any) ([]domain.Agreement, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agreements := make([]domain.Agreement, 0)
	for rows.Next() {
		var agreement domain.Agreement
		if err := rows.Scan(
			&agreement.ID,
			&agreement.ChargeID,
			&agreement.TotalCents,
			&agreement.InstallmentCount,
			&agreement.Status,
			&agreement.StartDate,
			&agreement.CreatedBy,
			&agreement.CreatedAt,
			&agreement.UpdatedAt,
		); err != nil {
			return nil, err
		}
		agreements = append(agreements, agreement)
	}
	return agreements, rows.Err()
}

func (r *agreementRepository) ListInstallments(ctx context.Context, agreementID string) ([]domain.Installment, error) {
	const query = `
        SELECT id, agreement_id, number, amount_cents, due_date, paid_at, created_at
        FROM installments WHERE agreement_id=$1 ORDER BY number`

	rows, err := r.pool.Query(ctx, query, agreementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	installments := make([]domain.Installment, 0)
	for rows.Next() {
		var inst domain.Installment
		if err := rows.Scan(
			&inst.ID,
			&inst.AgreementID,
			&inst.Number,
			&inst.AmountCents,
			&inst.DueDate,
			&inst.PaidAt,
			&inst.CreatedAt,
		); err != nil {
			return nil, err
		}
		installments = append(installments, inst)
	}
	return installments, rows.Err()
}

func (r *agreementRepository) GetInstallment(ctx context.Context, agreementID string, number int) (*domain.Installment, error) {
	const query = `
        SELECT id, agreement_id, number, amount_cents, due_date, paid_at, created_at
        FROM installments WHERE agreement_id=$1 AND number=$2`
	var inst domain.Installment
	if err := r.pool.QueryRow(ctx, query, agreementID, number).Scan(
		&inst.ID,
		&inst.AgreementID,
		&inst.Number,
		&inst.AmountCents,
		&inst.DueDate,
		&inst.PaidAt,
		&inst.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *agreementRepository) MarkInstallmentPaid(ctx context.Context, installmentID string, paidAt time.Time) error {
	const query = `UPDATE installments SET paid_at=$1 WHERE id=$2 AND paid_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, paidAt, installmentID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *agreementRepository) SetStatus(ctx context.Context, agreementID string, status domain.AgreementStatus) error {
	const query = `UPDATE agreements SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, agreementID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListDueInstallments returns unpaid installments due inside [from, to],
// joined with client contact details for the reminder pipeline.
func (r *agreementRepository) ListDueInstallments(ctx context.Context, from, to time.Time) ([]DueInstallment, error) {
	const query = `
        SELECT i.id, i.agreement_id, i.number, i.amount_cents, i.due_date, i.paid_at, i.created_at,
               c.id, c.name, c.phone
        FROM installments i
        JOIN agreements a ON a.id = i.agreement_id
        JOIN charges ch ON ch.id = a.charge_id
        JOIN clients c ON c.id = ch.client_id
        WHERE i.paid_at IS NULL AND a.status='ACTIVE' AND i.due_date BETWEEN $1 AND $2
        ORDER BY i.due_date`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	due := make([]DueInstallment, 0)
	for rows.Next() {
		var item DueInstallment
		if err := rows.Scan(
			&item.Installment.ID,
			&item.Installment.AgreementID,
			&item.Installment.Number,
			&item.Installment.AmountCents,
			&item.Installment.DueDate,
			&item.Installment.PaidAt,
			&item.Installment.CreatedAt,
			&item.ClientID,
			&item.ClientName,
			&item.ClientPhone,
		); err != nil {
			return nil, err
		}
		due = append(due, item)
	}
	return due, rows.Err()
}
