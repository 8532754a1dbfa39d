// Package pricing computes order totals from the tenant's service catalog.
//
// Compute is pure: same inputs, same total, no side effects. Persistence and
// the decision of when to recompute live in the order service.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/bilasin/bilasin/internal/domain"
)

// DefaultKiloPrice applies when a shop has no active per-kg service yet.
// Matches the default catalog seeded for new shops.
var DefaultKiloPrice = decimal.NewFromInt(7000)

// Input carries everything Compute needs.
type Input struct {
	ServiceType domain.ServiceType

	// Weight in kilograms; nil if not recorded.
	Weight *decimal.Decimal

	// Items of a satuan order; nil if not recorded.
	Items []domain.OrderItem

	// Catalog is the tenant's active service list.
	Catalog []domain.Service

	// Stored is the total already on the order, if any. It is the fallback
	// when no measurement is present.
	Stored *decimal.Decimal
}

// Compute derives the order total.
//
// Kiloan orders: weight times the unit price of the tenant's kg service
// (DefaultKiloPrice when none exists). Satuan orders: sum of price times
// quantity per item, where a zero quantity counts as 1. When the relevant
// measurement is missing, the stored total is kept; with nothing stored the
// total is zero.
func Compute(in Input) decimal.Decimal {
	switch {
	case in.ServiceType == domain.ServiceTypeKiloan && in.Weight != nil:
		return in.Weight.Mul(kiloUnitPrice(in.Catalog))

	case in.ServiceType == domain.ServiceTypeSatuan && in.Items != nil:
		total := decimal.Zero
		for _, item := range in.Items {
			qty := item.Qty
			if qty == 0 {
				qty = 1
			}
			total = total.Add(item.Price.Mul(decimal.NewFromInt32(qty)))
		}
		return total
	}

	if in.Stored != nil {
		return *in.Stored
	}
	return decimal.Zero
}

// kiloUnitPrice returns the unit price of the first active kg service,
// in catalog order, or DefaultKiloPrice when the shop has none.
func kiloUnitPrice(catalog []domain.Service) decimal.Decimal {
	for _, s := range catalog {
		if s.Unit == domain.UnitKg && s.IsActive {
			return s.Price
		}
	}
	return DefaultKiloPrice
}
