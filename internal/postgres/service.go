package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bilasin/bilasin/internal/domain"
)

// ServiceStore implements domain.ServiceStore.
type ServiceStore struct {
	pool *pgxpool.Pool
}

var _ domain.ServiceStore = (*ServiceStore)(nil)

// NewServiceStore creates a ServiceStore backed by the given pool.
func NewServiceStore(pool *pgxpool.Pool) *ServiceStore {
	return &ServiceStore{pool: pool}
}

// Tenant returns a catalog repository bound to one admin.
func (s *ServiceStore) Tenant(adminID int64) domain.ServiceRepository {
	return &serviceRepo{pool: s.pool, adminID: adminID}
}

type serviceRepo struct {
	pool    *pgxpool.Pool
	adminID int64
}

const serviceColumns = `id, admin_id, name, price, unit, is_active, created_at, updated_at`

func (r *serviceRepo) List(ctx context.Context) ([]domain.Service, error) {
	return r.query(ctx, "service.list",
		`SELECT `+serviceColumns+` FROM services WHERE admin_id = $1 ORDER BY created_at DESC`)
}

func (r *serviceRepo) ListActive(ctx context.Context) ([]domain.Service, error) {
	return r.query(ctx, "service.list_active",
		`SELECT `+serviceColumns+` FROM services WHERE admin_id = $1 AND is_active ORDER BY created_at ASC`)
}

func (r *serviceRepo) query(ctx context.Context, op, sql string) ([]domain.Service, error) {
	rows, err := r.pool.Query(ctx, sql, r.adminID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to query services")
	}
	defer rows.Close()

	var out []domain.Service
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.AdminID, &s.Name, &s.Price, &s.Unit,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, domain.Internal(err, op, "failed to scan service")
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read services")
	}
	return out, nil
}

func (r *serviceRepo) Create(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	out := *s
	out.AdminID = r.adminID

	err := r.pool.QueryRow(ctx, `
		INSERT INTO services (admin_id, name, price, unit, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		out.AdminID, out.Name, out.Price, out.Unit, out.IsActive,
	).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, domain.Internal(err, "service.create", "failed to insert service")
	}
	return &out, nil
}

func (r *serviceRepo) Update(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	out := *s
	out.AdminID = r.adminID

	err := r.pool.QueryRow(ctx, `
		UPDATE services
		SET name = $1, price = $2, unit = $3, is_active = $4, updated_at = now()
		WHERE id = $5 AND admin_id = $6
		RETURNING created_at, updated_at`,
		out.Name, out.Price, out.Unit, out.IsActive, out.ID, r.adminID,
	).Scan(&out.CreatedAt, &out.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("service.update", "service", strconv.FormatInt(s.ID, 10))
	}
	if err != nil {
		return nil, domain.Internal(err, "service.update", "failed to update service")
	}
	return &out, nil
}

func (r *serviceRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM services WHERE id = $1 AND admin_id = $2`, id, r.adminID)
	if err != nil {
		return domain.Internal(err, "service.delete", "failed to delete service")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("service.delete", "service", strconv.FormatInt(id, 10))
	}
	return nil
}

// UpsertByName updates the service with the given name, inserting it when
// absent. Name uniqueness is a seeding convention, not a schema constraint,
// so this is update-then-insert rather than ON CONFLICT.
func (r *serviceRepo) UpsertByName(ctx context.Context, s *domain.Service) error {
	const op = "service.upsert"

	tag, err := r.pool.Exec(ctx, `
		UPDATE services
		SET price = $1, unit = $2, is_active = $3, updated_at = now()
		WHERE admin_id = $4 AND name = $5`,
		s.Price, s.Unit, s.IsActive, r.adminID, s.Name)
	if err != nil {
		return domain.Internal(err, op, "failed to update service")
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO services (admin_id, name, price, unit, is_active)
		VALUES ($1, $2, $3, $4, $5)`,
		r.adminID, s.Name, s.Price, s.Unit, s.IsActive)
	if err != nil {
		return domain.Internal(err, op, "failed to insert service")
	}
	return nil
}
