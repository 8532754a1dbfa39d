package domain

import (
	"context"
	"time"
)

// Admin is a registered laundry-shop operator: the unit of data isolation.
// Deleting an admin cascades to their services, settings and orders at the
// database level.
type Admin struct {
	ID           int64
	Name         string
	Username     string
	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AdminRepository manages admin accounts and their bearer tokens.
// Tokens are stored as SHA-256 digests; the raw token never touches the
// database.
type AdminRepository interface {
	// Create inserts a new admin. Returns ECONFLICT if the username is taken.
	Create(ctx context.Context, a *Admin) (*Admin, error)

	// GetByID returns the admin, or ENOTFOUND.
	GetByID(ctx context.Context, id int64) (*Admin, error)

	// GetByUsername returns the admin, or ENOTFOUND.
	GetByUsername(ctx context.Context, username string) (*Admin, error)

	// InsertToken records a token digest for the admin.
	InsertToken(ctx context.Context, adminID int64, digest string) error

	// GetByTokenDigest resolves a presented token digest to its admin,
	// updating the token's last-used timestamp. Returns ENOTFOUND for
	// unknown or revoked tokens.
	GetByTokenDigest(ctx context.Context, digest string) (*Admin, error)

	// DeleteToken revokes one token by digest.
	DeleteToken(ctx context.Context, digest string) error
}
