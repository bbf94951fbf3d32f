package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recupera/collections-service/internal/domain"
)

// AuditFilter captures audit log query parameters.
type AuditFilter struct {
	ActorID *string
	Entity  *string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// AuditRepository appends and reads the audit log. Append is called on a
// best-effort path; callers swallow its errors.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	ListWithFilter(ctx context.Context, filter AuditFilter) ([]domain.AuditEntry, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository instantiates the repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	detail := entry.Detail
	if detail == nil {
		detail = map[string]any{}
	}
	payload, err := json.Marshal(detail)
	if err != nil {
		return err
	}

	const query = `
        INSERT INTO audit_log (actor_id, actor_email, action, entity, entity_id, detail)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.ActorID,
		entry.ActorEmail,
		entry.Action,
		entry.Entity,
		entry.EntityID,
		payload,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *auditRepository) ListWithFilter(ctx context.Context, filter AuditFilter) ([]domain.AuditEntry, error) {
	base := `SELECT id, actor_id, actor_email, action, entity, entity_id, detail, created_at FROM audit_log`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ActorID != nil {
		args = append(args, *filter.ActorID)
		clauses = append(clauses, fmt.Sprintf("actor_id=$%d", len(args)))
	}
	if filter.Entity != nil {
		args = append(args, *filter.Entity)
		clauses = append(clauses, fmt.Sprintf("entity=$%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
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

	entries := make([]domain.AuditEntry, 0)
	for rows.Next() {
		var entry domain.AuditEntry
		var detail []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.ActorID,
			&entry.ActorEmail,
			&entry.Action,
			&entry.Entity,
			&entry.EntityID,
			&detail,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &entry.Detail); err != nil {
				return nil, err
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
