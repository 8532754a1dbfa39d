package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bilasin/bilasin/internal/domain"
)

// AdminStore implements domain.AdminRepository.
type AdminStore struct {
	pool *pgxpool.Pool
}

var _ domain.AdminRepository = (*AdminStore)(nil)

// NewAdminStore creates an AdminStore backed by the given pool.
func NewAdminStore(pool *pgxpool.Pool) *AdminStore {
	return &AdminStore{pool: pool}
}

const adminColumns = `id, name, username, password_hash, created_at, updated_at`

func (s *AdminStore) Create(ctx context.Context, a *domain.Admin) (*domain.Admin, error) {
	const op = "admin.create"

	out := *a
	err := s.pool.QueryRow(ctx, `
		INSERT INTO admins (name, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		out.Name, out.Username, out.PasswordHash,
	).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return nil, domain.Conflict(op, "username is already taken")
	}
	if err != nil {
		return nil, domain.Internal(err, op, "failed to insert admin")
	}
	return &out, nil
}

func (s *AdminStore) GetByID(ctx context.Context, id int64) (*domain.Admin, error) {
	return s.get(ctx, "admin.get",
		`SELECT `+adminColumns+` FROM admins WHERE id = $1`, id,
		strconv.FormatInt(id, 10))
}

func (s *AdminStore) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	return s.get(ctx, "admin.get_by_username",
		`SELECT `+adminColumns+` FROM admins WHERE username = $1`, username, username)
}

func (s *AdminStore) get(ctx context.Context, op, sql string, arg any, ident string) (*domain.Admin, error) {
	var a domain.Admin
	err := s.pool.QueryRow(ctx, sql, arg).Scan(&a.ID, &a.Name, &a.Username,
		&a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound(op, "admin", ident)
	}
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load admin")
	}
	return &a, nil
}

func (s *AdminStore) InsertToken(ctx context.Context, adminID int64, digest string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO admin_tokens (admin_id, digest) VALUES ($1, $2)`,
		adminID, digest)
	if err != nil {
		return domain.Internal(err, "token.insert", "failed to store token")
	}
	return nil
}

// GetByTokenDigest resolves a token to its admin and bumps last_used_at.
// A single statement keeps the lookup and the touch atomic.
func (s *AdminStore) GetByTokenDigest(ctx context.Context, digest string) (*domain.Admin, error) {
	const op = "token.lookup"

	var a domain.Admin
	err := s.pool.QueryRow(ctx, `
		UPDATE admin_tokens t
		SET last_used_at = now()
		FROM admins a
		WHERE t.digest = $1 AND a.id = t.admin_id
		RETURNING a.id, a.name, a.username, a.password_hash, a.created_at, a.updated_at`,
		digest,
	).Scan(&a.ID, &a.Name, &a.Username, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound(op, "token", "presented token")
	}
	if err != nil {
		return nil, domain.Internal(err, op, "failed to resolve token")
	}
	return &a, nil
}

func (s *AdminStore) DeleteToken(ctx context.Context, digest string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM admin_tokens WHERE digest = $1`, digest)
	if err != nil {
		return domain.Internal(err, "token.delete", "failed to revoke token")
	}
	return nil
}
