package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ServiceUnit is the stable type tag the pricing engine keys on.
// Weight pricing looks for a kg service; display names carry no meaning.
type ServiceUnit string

const (
	UnitKg   ServiceUnit = "kg"
	UnitPcs  ServiceUnit = "pcs"
	UnitItem ServiceUnit = "item"
)

// Valid reports whether the unit is a known value.
func (u ServiceUnit) Valid() bool {
	return u == UnitKg || u == UnitPcs || u == UnitItem
}

// Service is a priced offering of one shop, e.g. per-kilogram wash.
type Service struct {
	ID       int64
	AdminID  int64
	Name     string
	Price    decimal.Decimal
	Unit     ServiceUnit
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ServiceRepository is a tenant-bound handle over one admin's catalog.
type ServiceRepository interface {
	// List returns all services of the admin, newest first, inactive included.
	List(ctx context.Context) ([]Service, error)

	// ListActive returns only active services, oldest first. This is the
	// catalog view the pricing engine consumes.
	ListActive(ctx context.Context) ([]Service, error)

	// Create inserts a service and returns it with its id assigned.
	Create(ctx context.Context, s *Service) (*Service, error)

	// Update persists name/price/unit/is_active. Returns ENOTFOUND if the
	// service does not exist or belongs to a different admin.
	Update(ctx context.Context, s *Service) (*Service, error)

	// Delete removes one service. Returns ENOTFOUND if no row matched.
	Delete(ctx context.Context, id int64) error

	// UpsertByName inserts or updates a service keyed by its name.
	// Used by seeding only.
	UpsertByName(ctx context.Context, s *Service) error
}

// ServiceStore hands out tenant-bound catalog repositories.
type ServiceStore interface {
	Tenant(adminID int64) ServiceRepository
}
