package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ServiceType determines how an order is priced.
type ServiceType string

const (
	// ServiceTypeKiloan prices the order by measured weight.
	ServiceTypeKiloan ServiceType = "kiloan"

	// ServiceTypeSatuan prices the order by itemized pieces.
	ServiceTypeSatuan ServiceType = "satuan"
)

// Valid reports whether the service type is a known value.
func (t ServiceType) Valid() bool {
	return t == ServiceTypeKiloan || t == ServiceTypeSatuan
}

// OrderType distinguishes courier pickup from customer dropoff.
type OrderType string

const (
	OrderTypePickup  OrderType = "pickup"
	OrderTypeDropoff OrderType = "dropoff"
)

// Valid reports whether the order type is a known value.
func (t OrderType) Valid() bool {
	return t == OrderTypePickup || t == OrderTypeDropoff
}

// OrderStatus tracks an order through the laundry workflow.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPickedUp  OrderStatus = "picked_up"
	StatusWashing   OrderStatus = "washing"
	StatusIroning   OrderStatus = "ironing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCompleted OrderStatus = "completed"
)

// statusRank orders statuses along the workflow. Higher rank = further along.
var statusRank = map[OrderStatus]int{
	StatusPending:   0,
	StatusPickedUp:  1,
	StatusWashing:   2,
	StatusIroning:   3,
	StatusReady:     4,
	StatusDelivered: 5,
	StatusCompleted: 6,
}

// Valid reports whether the status is a known value.
func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether an order may move from one status to another.
// Forward moves are allowed, including skips (a shop without an ironing step
// goes washing -> ready). Backward moves are rejected. Re-setting the current
// status is allowed and treated as a no-op by callers.
func CanTransition(from, to OrderStatus) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank >= fromRank
}

// PaymentStatus is orthogonal to OrderStatus and may be toggled freely.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// Valid reports whether the payment status is a known value.
func (s PaymentStatus) Valid() bool {
	return s == PaymentUnpaid || s == PaymentPaid
}

// OrderItem is one line of an itemized (satuan) order.
// A zero Qty means the quantity was omitted and defaults to 1 when pricing.
type OrderItem struct {
	Name  string          `json:"name"`
	Qty   int32           `json:"qty"`
	Price decimal.Decimal `json:"price"`
}

// Order is the central entity: a single laundry job for one customer,
// owned by exactly one admin (tenant).
type Order struct {
	ID           int64
	AdminID      int64
	TrackingCode string

	CustomerName    string
	CustomerAddress string
	CustomerPhone   string

	ServiceType ServiceType
	OrderType   OrderType
	Status      OrderStatus

	// Weight is the measured weight in kilograms. Nil until recorded.
	// Meaningful only for kiloan orders.
	Weight *decimal.Decimal

	// Items are the recorded pieces. Nil until recorded.
	// Meaningful only for satuan orders.
	Items []OrderItem

	// TotalPrice is nil until the order has been priced.
	TotalPrice *decimal.Decimal

	PaymentStatus PaymentStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderFilter narrows admin order listings. Nil fields are not applied.
type OrderFilter struct {
	Status        *OrderStatus
	PaymentStatus *PaymentStatus
	OrderType     *OrderType

	// Search matches customer name or tracking code, case-insensitively.
	Search string

	Limit  int32
	Offset int32
}

// OrderStats is the admin dashboard summary for one tenant.
type OrderStats struct {
	TotalOrders     int64
	ActiveOrders    int64
	CompletedOrders int64
	TotalRevenue    decimal.Decimal
	PendingPickups  int64
}

// OrderRepository is a tenant-bound handle over one admin's orders.
// Every query it runs is scoped to that admin; cross-tenant access is
// structurally impossible through this interface.
type OrderRepository interface {
	// Create inserts the order, allocating its tracking code atomically
	// from the per-tenant-day sequence. now determines the day prefix and
	// must already be localized to the shop's timezone.
	Create(ctx context.Context, o *Order, now time.Time) (*Order, error)

	// Get returns the order by surrogate id, or ENOTFOUND if it does not
	// exist or belongs to a different admin.
	Get(ctx context.Context, id int64) (*Order, error)

	// List returns orders matching the filter, newest first.
	List(ctx context.Context, filter OrderFilter) ([]Order, error)

	// Save persists all mutable fields of the order in one statement.
	// Returns ENOTFOUND if the row is gone.
	Save(ctx context.Context, o *Order) error

	// Delete removes one order. Returns ENOTFOUND if no row matched.
	Delete(ctx context.Context, id int64) error

	// DeleteAll removes every order of the admin and returns the count.
	DeleteAll(ctx context.Context) (int64, error)

	// Stats aggregates the dashboard numbers.
	Stats(ctx context.Context) (*OrderStats, error)
}

// OrderStore hands out tenant-bound repositories and serves the one
// tenant-free lookup: tracking codes are unique system-wide, so customers
// track orders without knowing which shop id owns them.
type OrderStore interface {
	Tenant(adminID int64) OrderRepository
	FindByTrackingCode(ctx context.Context, code string) (*Order, error)
}
