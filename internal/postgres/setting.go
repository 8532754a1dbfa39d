package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bilasin/bilasin/internal/domain"
)

// SettingStore implements domain.SettingStore.
type SettingStore struct {
	pool *pgxpool.Pool
}

var _ domain.SettingStore = (*SettingStore)(nil)

// NewSettingStore creates a SettingStore backed by the given pool.
func NewSettingStore(pool *pgxpool.Pool) *SettingStore {
	return &SettingStore{pool: pool}
}

// Tenant returns a settings repository bound to one admin.
func (s *SettingStore) Tenant(adminID int64) domain.SettingRepository {
	return &settingRepo{pool: s.pool, adminID: adminID}
}

type settingRepo struct {
	pool    *pgxpool.Pool
	adminID int64
}

func (r *settingRepo) All(ctx context.Context) (map[string]string, error) {
	const op = "setting.all"

	rows, err := r.pool.Query(ctx,
		`SELECT key, value FROM settings WHERE admin_id = $1`, r.adminID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to query settings")
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, domain.Internal(err, op, "failed to scan setting")
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read settings")
	}
	return out, nil
}

func (r *settingRepo) Get(ctx context.Context, key, def string) (string, error) {
	var v string
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM settings WHERE admin_id = $1 AND key = $2`,
		r.adminID, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return "", domain.Internal(err, "setting.get", "failed to load setting")
	}
	return v, nil
}

func (r *settingRepo) Upsert(ctx context.Context, values map[string]string) error {
	const op = "setting.upsert"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Internal(err, op, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for k, v := range values {
		_, err := tx.Exec(ctx, `
			INSERT INTO settings (admin_id, key, value)
			VALUES ($1, $2, $3)
			ON CONFLICT (admin_id, key)
			DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
			r.adminID, k, v)
		if err != nil {
			return domain.Internal(err, op, "failed to upsert setting")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Internal(err, op, "failed to commit transaction")
	}
	return nil
}
