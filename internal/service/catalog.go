package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bilasin/bilasin/internal/domain"
)

// CatalogService provides business logic for the per-shop service catalog.
type CatalogService struct {
	services domain.ServiceStore
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(services domain.ServiceStore) *CatalogService {
	return &CatalogService{services: services}
}

// ServiceParams carries the writable fields of a catalog entry.
type ServiceParams struct {
	Name     string
	Price    decimal.Decimal
	Unit     domain.ServiceUnit
	IsActive bool
}

func (p ServiceParams) validate(op string) error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.Invalid(op, "service name is required")
	}
	if p.Price.IsNegative() {
		return domain.Invalid(op, "price must not be negative")
	}
	if !p.Unit.Valid() {
		return domain.Invalidf(op, "unknown unit %q", p.Unit)
	}
	return nil
}

// List returns the admin's full catalog, inactive entries included.
func (s *CatalogService) List(ctx context.Context, adminID int64) ([]domain.Service, error) {
	return s.services.Tenant(adminID).List(ctx)
}

// ListActive returns the shop's active offerings. This is the public view
// customers see when placing an order.
func (s *CatalogService) ListActive(ctx context.Context, adminID int64) ([]domain.Service, error) {
	return s.services.Tenant(adminID).ListActive(ctx)
}

// Create adds a catalog entry.
func (s *CatalogService) Create(ctx context.Context, adminID int64, p ServiceParams) (*domain.Service, error) {
	const op = "catalog.create"

	if err := p.validate(op); err != nil {
		return nil, err
	}

	return s.services.Tenant(adminID).Create(ctx, &domain.Service{
		AdminID:  adminID,
		Name:     strings.TrimSpace(p.Name),
		Price:    p.Price,
		Unit:     p.Unit,
		IsActive: p.IsActive,
	})
}

// Update overwrites a catalog entry's fields.
func (s *CatalogService) Update(ctx context.Context, adminID, id int64, p ServiceParams) (*domain.Service, error) {
	const op = "catalog.update"

	if err := p.validate(op); err != nil {
		return nil, err
	}

	return s.services.Tenant(adminID).Update(ctx, &domain.Service{
		ID:       id,
		AdminID:  adminID,
		Name:     strings.TrimSpace(p.Name),
		Price:    p.Price,
		Unit:     p.Unit,
		IsActive: p.IsActive,
	})
}

// Delete removes a catalog entry. Existing orders keep their stored totals;
// pricing only consults the catalog at recompute time.
func (s *CatalogService) Delete(ctx context.Context, adminID, id int64) error {
	return s.services.Tenant(adminID).Delete(ctx, id)
}
