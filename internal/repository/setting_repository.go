package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recupera/collections-service/internal/domain"
)

// SettingRepository manages the key/value configuration table.
type SettingRepository interface {
	Get(ctx context.Context, key string) (*domain.Setting, error)
	List(ctx context.Context) ([]domain.Setting, error)
	Upsert(ctx context.Context, setting *domain.Setting) error
}

type settingRepository struct {
	pool *pgxpool.Pool
}

// NewSettingRepository instantiates the repository.
func NewSettingRepository(pool *pgxpool.Pool) SettingRepository {
	return &settingRepository{pool: pool}
}

func (r *settingRepository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	const query = `SELECT key, value, COALESCE(updated_by::text, ''), updated_at FROM settings WHERE key=$1`
	var setting domain.Setting
	if err := r.pool.QueryRow(ctx, query, key).Scan(
		&setting.Key,
		&setting.Value,
		&setting.UpdatedBy,
		&setting.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepository) List(ctx context.Context) ([]domain.Setting, error) {
	const query = `SELECT key, value, COALESCE(updated_by::text, ''), updated_at FROM settings ORDER BY key`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make([]domain.Setting, 0)
	for rows.Next() {
		var setting domain.Setting
		if err := rows.Scan(&setting.Key, &setting.Value, &setting.UpdatedBy, &setting.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, setting)
	}
	return settings, rows.Err()
}

func (r *settingRepository) Upsert(ctx context.Context, setting *domain.Setting) error {
	const query = `
        INSERT INTO settings (key, value, updated_by, updated_at)
        VALUES ($1,$2,NULLIF($3,'')::uuid,NOW())
        ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_by=EXCLUDED.updated_by, updated_at=NOW()
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query, setting.Key, setting.Value, setting.UpdatedBy).Scan(&setting.UpdatedAt)
}
