// Package service implements the business logic between HTTP handlers and
// the repositories. Services validate input, enforce the order workflow and
// decide when totals are recomputed and notifications go out.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bilasin/bilasin/internal/domain"
	"github.com/bilasin/bilasin/internal/notify"
	"github.com/bilasin/bilasin/internal/pricing"
	"github.com/bilasin/bilasin/internal/tracking"
)

// maxPhoneLength matches the column width of customer_phone.
const maxPhoneLength = 20

// defaultListLimit and maxListLimit bound admin order listings.
const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Notifier queues an outbound message without blocking. Satisfied by
// notify.Dispatcher.
type Notifier interface {
	Enqueue(msg notify.Message) bool
}

// OrderService provides business logic for order operations.
type OrderService struct {
	orders   domain.OrderStore
	services domain.ServiceStore
	settings domain.SettingStore
	notifier Notifier
	logger   *slog.Logger

	// loc is the shop timezone; it decides which day a tracking code
	// belongs to.
	loc *time.Location
}

// NewOrderService creates a new OrderService instance.
func NewOrderService(
	orders domain.OrderStore,
	services domain.ServiceStore,
	settings domain.SettingStore,
	notifier Notifier,
	logger *slog.Logger,
	loc *time.Location,
) *OrderService {
	return &OrderService{
		orders:   orders,
		services: services,
		settings: settings,
		notifier: notifier,
		logger:   logger,
		loc:      loc,
	}
}

// CreateOrderParams is the customer-facing order intake.
type CreateOrderParams struct {
	AdminID         int64
	CustomerName    string
	CustomerAddress string
	CustomerPhone   string
	ServiceType     domain.ServiceType
	OrderType       domain.OrderType
}

// CreateOrder registers a new order for the given shop. The order starts
// pending and unpaid with no weight, items or total; those arrive later when
// the shop processes it.
func (s *OrderService) CreateOrder(ctx context.Context, p CreateOrderParams) (*domain.Order, error) {
	const op = "order.create"

	if strings.TrimSpace(p.CustomerName) == "" {
		return nil, domain.Invalid(op, "customer name is required")
	}
	if strings.TrimSpace(p.CustomerAddress) == "" {
		return nil, domain.Invalid(op, "customer address is required")
	}
	phone := strings.TrimSpace(p.CustomerPhone)
	if phone == "" {
		return nil, domain.Invalid(op, "customer phone is required")
	}
	if len(phone) > maxPhoneLength {
		return nil, domain.Invalidf(op, "customer phone must be at most %d characters", maxPhoneLength)
	}
	if !p.ServiceType.Valid() {
		return nil, domain.Invalidf(op, "unknown service type %q", p.ServiceType)
	}
	if !p.OrderType.Valid() {
		return nil, domain.Invalidf(op, "unknown order type %q", p.OrderType)
	}

	order := &domain.Order{
		AdminID:         p.AdminID,
		CustomerName:    strings.TrimSpace(p.CustomerName),
		CustomerAddress: strings.TrimSpace(p.CustomerAddress),
		CustomerPhone:   phone,
		ServiceType:     p.ServiceType,
		OrderType:       p.OrderType,
		Status:          domain.StatusPending,
		PaymentStatus:   domain.PaymentUnpaid,
	}

	created, err := s.orders.Tenant(p.AdminID).Create(ctx, order, time.Now().In(s.loc))
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		"tracking_code", created.TrackingCode,
		"admin_id", created.AdminID,
		"service_type", created.ServiceType,
	)

	return created, nil
}

// TrackOrder looks up an order by tracking code. Codes are unique across all
// shops, so no authentication or tenant id is needed.
func (s *OrderService) TrackOrder(ctx context.Context, code string) (*domain.Order, error) {
	const op = "order.track"

	code = strings.TrimSpace(code)
	if !tracking.IsValid(code) {
		return nil, domain.NotFound(op, "order", code)
	}

	return s.orders.FindByTrackingCode(ctx, code)
}

// ListOrders returns the admin's orders matching the filter, newest first.
func (s *OrderService) ListOrders(ctx context.Context, adminID int64, filter domain.OrderFilter) ([]domain.Order, error) {
	const op = "order.list"

	if filter.Status != nil && !filter.Status.Valid() {
		return nil, domain.Invalidf(op, "unknown status %q", *filter.Status)
	}
	if filter.PaymentStatus != nil && !filter.PaymentStatus.Valid() {
		return nil, domain.Invalidf(op, "unknown payment status %q", *filter.PaymentStatus)
	}
	if filter.OrderType != nil && !filter.OrderType.Valid() {
		return nil, domain.Invalidf(op, "unknown order type %q", *filter.OrderType)
	}

	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return s.orders.Tenant(adminID).List(ctx, filter)
}

// GetOrder returns one of the admin's orders by id.
func (s *OrderService) GetOrder(ctx context.Context, adminID, id int64) (*domain.Order, error) {
	return s.orders.Tenant(adminID).Get(ctx, id)
}

// UpdateOrderParams carries a partial order update. Nil fields are left
// untouched. A non-nil Items slice replaces the recorded items wholesale.
type UpdateOrderParams struct {
	Status        *domain.OrderStatus
	Weight        *decimal.Decimal
	Items         []domain.OrderItem
	TotalPrice    *decimal.Decimal
	PaymentStatus *domain.PaymentStatus
}

// UpdateOrder applies a partial update to one order. All fields are validated
// before anything is mutated, so a rejected update leaves the order exactly
// as it was.
//
// The total is recomputed from the catalog when weight or items change
// without an explicit total in the same request; an explicit total is stored
// verbatim. Moving the order into completed enqueues a WhatsApp notification
// once; delivery problems never fail the update.
func (s *OrderService) UpdateOrder(ctx context.Context, adminID, id int64, p UpdateOrderParams) (*domain.Order, error) {
	const op = "order.update"

	repo := s.orders.Tenant(adminID)
	order, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Validate everything up front; nothing is applied until all fields pass.
	if p.Status != nil {
		if !p.Status.Valid() {
			return nil, domain.Invalidf(op, "unknown status %q", *p.Status)
		}
		if !domain.CanTransition(order.Status, *p.Status) {
			return nil, domain.Invalidf(op, "cannot change status from %q to %q", order.Status, *p.Status)
		}
	}
	if p.Weight != nil && p.Weight.IsNegative() {
		return nil, domain.Invalid(op, "weight must not be negative")
	}
	for _, item := range p.Items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, domain.Invalid(op, "item name is required")
		}
		if item.Qty < 0 {
			return nil, domain.Invalidf(op, "item %q quantity must not be negative", item.Name)
		}
		if item.Price.IsNegative() {
			return nil, domain.Invalidf(op, "item %q price must not be negative", item.Name)
		}
	}
	if p.TotalPrice != nil && p.TotalPrice.IsNegative() {
		return nil, domain.Invalid(op, "total price must not be negative")
	}
	if p.PaymentStatus != nil && !p.PaymentStatus.Valid() {
		return nil, domain.Invalidf(op, "unknown payment status %q", *p.PaymentStatus)
	}

	completed := p.Status != nil &&
		*p.Status == domain.StatusCompleted &&
		order.Status != domain.StatusCompleted

	if p.Status != nil {
		order.Status = *p.Status
	}
	if p.Weight != nil {
		w := *p.Weight
		order.Weight = &w
	}
	if p.Items != nil {
		order.Items = p.Items
	}
	if p.PaymentStatus != nil {
		order.PaymentStatus = *p.PaymentStatus
	}

	switch {
	case p.TotalPrice != nil:
		t := *p.TotalPrice
		order.TotalPrice = &t
	case p.Weight != nil || p.Items != nil:
		catalog, err := s.services.Tenant(adminID).ListActive(ctx)
		if err != nil {
			return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to load service catalog")
		}
		total := pricing.Compute(pricing.Input{
			ServiceType: order.ServiceType,
			Weight:      order.Weight,
			Items:       order.Items,
			Catalog:     catalog,
			Stored:      order.TotalPrice,
		})
		order.TotalPrice = &total
	}

	if err := repo.Save(ctx, order); err != nil {
		return nil, err
	}

	if completed {
		s.notifyCompletion(ctx, adminID, order)
	}

	return order, nil
}

// DeleteOrder removes one of the admin's orders.
func (s *OrderService) DeleteOrder(ctx context.Context, adminID, id int64) error {
	return s.orders.Tenant(adminID).Delete(ctx, id)
}

// ResetOrders deletes every order of the admin and returns how many were
// removed. Tracking counters are kept, so codes keep counting up within the
// same day rather than reissuing old values.
func (s *OrderService) ResetOrders(ctx context.Context, adminID int64) (int64, error) {
	count, err := s.orders.Tenant(adminID).DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	s.logger.Info("orders reset", "admin_id", adminID, "deleted", count)
	return count, nil
}

// Stats aggregates the admin's dashboard numbers.
func (s *OrderService) Stats(ctx context.Context, adminID int64) (*domain.OrderStats, error) {
	return s.orders.Tenant(adminID).Stats(ctx)
}

// notifyCompletion enqueues the completion WhatsApp message. A shop without
// a gateway token has opted out, so that case is skipped without noise.
func (s *OrderService) notifyCompletion(ctx context.Context, adminID int64, order *domain.Order) {
	settings := s.settings.Tenant(adminID)

	token, err := settings.Get(ctx, domain.SettingFonnteToken, "")
	if err != nil {
		s.logger.Error("failed to load gateway token, skipping notification",
			"tracking_code", order.TrackingCode,
			"error", err,
		)
		return
	}
	if token == "" {
		s.logger.Debug("no gateway token configured, skipping notification",
			"admin_id", adminID,
			"tracking_code", order.TrackingCode,
		)
		return
	}

	laundryName, err := settings.Get(ctx, domain.SettingLaundryName, "Laundry")
	if err != nil {
		s.logger.Error("failed to load laundry name, skipping notification",
			"tracking_code", order.TrackingCode,
			"error", err,
		)
		return
	}

	s.notifier.Enqueue(notify.Message{
		Phone:        notify.NormalizePhone(order.CustomerPhone),
		Text:         notify.CompletionMessage(order, laundryName),
		APIToken:     token,
		TrackingCode: order.TrackingCode,
	})
}
