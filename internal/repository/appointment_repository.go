package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recupera/collections-service/internal/domain"
)

// AppointmentRepository manages scheduled client contacts.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) error
	Update(ctx context.Context, appointment *domain.Appointment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	ListByDay(ctx context.Context, day time.Time, limit, offset int) ([]domain.Appointment, error)
	CountUpcoming(ctx context.Context, from time.Time) (int64, error)
}

type appointmentRepository struct {
	pool *pgxpool.Pool
}

// NewAppointmentRepository instantiates the repository.
func NewAppointmentRepository(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepository{pool: pool}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *domain.Appointment) error {
	const query = `
        INSERT INTO appointments (client_id, user_id, kind, status, scheduled_at, notes)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		appointment.ClientID,
		appointment.UserID,
		appointment.Kind,
		appointment.Status,
		appointment.ScheduledAt,
		appointment.Notes,
	).Scan(&appointment.ID, &appointment.CreatedAt, &appointment.UpdatedAt)
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *domain.Appointment) error {
	const query = `
        UPDATE appointments SET kind=$1, status=$2, scheduled_at=$3, notes=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		appointment.Kind,
		appointment.Status,
		appointment.ScheduledAt,
		appointment.Notes,
		appointment.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *appointmentRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	const query = `
        SELECT id, client_id, user_id, kind, status, scheduled_at, notes, created_at, updated_at
        FROM appointments WHERE id=$1`
	var appointment domain.Appointment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&appointment.ID,
		&appointment.ClientID,
		&appointment.UserID,
		&appointment.Kind,
		&appointment.Status,
		&appointment.ScheduledAt,
		&appointment.Notes,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// ListByDay returns appointments scheduled on the given calendar day. A zero
// day lists everything upcoming.
func (r *appointmentRepository) ListByDay(ctx context.Context, day time.Time, limit, offset int) ([]domain.Appointment, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var rows pgx.Rows
	var err error
	if day.IsZero() {
		const query = `
            SELECT id, client_id, user_id, kind, status, scheduled_at, notes, created_at, updated_at
            FROM appointments WHERE scheduled_at >= NOW() ORDER BY scheduled_at LIMIT $1 OFFSET $2`
		rows, err = r.pool.Query(ctx, query, limit, offset)
	} else {
		const query = `
            SELECT id, client_id, user_id, kind, status, scheduled_at, notes, created_at, updated_at
            FROM appointments
            WHERE scheduled_at >= $1 AND scheduled_at < $1 + INTERVAL '1 day'
            ORDER BY scheduled_at LIMIT $2 OFFSET $3`
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		rows, err = r.pool.Query(ctx, query, dayStart, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		var appointment domain.Appointment
		if err := rows.Scan(
			&appointment.ID,
			&appointment.ClientID,
			&appointment.UserID,
			&appointment.Kind,
			&appointment.Status,
			&appointment.ScheduledAt,
			&appointment.Notes,
			&appointment.CreatedAt,
			&appointment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		appointments = append(appointments, appointment)
	}
	return appointments, rows.Err()
}

func (r *appointmentRepository) CountUpcoming(ctx context.Context, from time.Time) (int64, error) {
	const query = `SELECT COUNT(*) FROM appointments WHERE status='SCHEDULED' AND scheduled_at >= $1`
	var count int64
	if err := r.pool.QueryRow(ctx, query, from).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
