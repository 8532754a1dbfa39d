package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bilasin/bilasin/internal/domain"
	"github.com/bilasin/bilasin/internal/tracking"
)

// OrderStore implements domain.OrderStore.
type OrderStore struct {
	pool *pgxpool.Pool
}

// Compile-time check to ensure OrderStore implements domain.OrderStore.
var _ domain.OrderStore = (*OrderStore)(nil)

// NewOrderStore creates an OrderStore backed by the given pool.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

// Tenant returns a repository bound to one admin.
func (s *OrderStore) Tenant(adminID int64) domain.OrderRepository {
	return &orderRepo{pool: s.pool, adminID: adminID}
}

const orderColumns = `id, admin_id, tracking_code, customer_name, customer_address,
	customer_phone, service_type, order_type, status, weight, items, total_price,
	payment_status, created_at, updated_at`

// FindByTrackingCode looks an order up across all tenants. Tracking codes
// are globally unique, so this is the customer-facing tracking path.
func (s *OrderStore) FindByTrackingCode(ctx context.Context, code string) (*domain.Order, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE tracking_code = $1`, code)

	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("order.track", "order", code)
	}
	if err != nil {
		return nil, domain.Internal(err, "order.track", "failed to load order")
	}
	return o, nil
}

type orderRepo struct {
	pool    *pgxpool.Pool
	adminID int64
}

// Create allocates the next tracking code for the admin's day and inserts
// the order, both inside one transaction. The counter upsert is atomic under
// PostgreSQL, so two concurrent creations for the same tenant-day get
// distinct sequence numbers; the unique index on tracking_code backstops it.
func (r *orderRepo) Create(ctx context.Context, o *domain.Order, now time.Time) (*domain.Order, error) {
	const op = "order.create"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	prefix := tracking.Prefix(now)
	var seq int64
	err = tx.QueryRow(ctx, `
		INSERT INTO order_counters (admin_id, prefix, seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (admin_id, prefix)
		DO UPDATE SET seq = order_counters.seq + 1
		RETURNING seq`,
		r.adminID, prefix,
	).Scan(&seq)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to allocate tracking sequence")
	}

	out := *o
	out.AdminID = r.adminID
	out.TrackingCode = tracking.Format(prefix, seq)

	items, err := marshalItems(out.Items)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to encode items")
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (admin_id, tracking_code, customer_name, customer_address,
			customer_phone, service_type, order_type, status, weight, items,
			total_price, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`,
		out.AdminID, out.TrackingCode, out.CustomerName, out.CustomerAddress,
		out.CustomerPhone, out.ServiceType, out.OrderType, out.Status, out.Weight,
		items, out.TotalPrice, out.PaymentStatus,
	).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to insert order")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Internal(err, op, "failed to commit transaction")
	}
	return &out, nil
}

func (r *orderRepo) Get(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND admin_id = $2`,
		id, r.adminID)

	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("order.get", "order", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return nil, domain.Internal(err, "order.get", "failed to load order")
	}
	return o, nil
}

func (r *orderRepo) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	const op = "order.list"

	where := []string{"admin_id = $1"}
	args := []any{r.adminID}

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Status != nil {
		where = append(where, "status = "+arg(*filter.Status))
	}
	if filter.PaymentStatus != nil {
		where = append(where, "payment_status = "+arg(*filter.PaymentStatus))
	}
	if filter.OrderType != nil {
		where = append(where, "order_type = "+arg(*filter.OrderType))
	}
	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		where = append(where, "(customer_name ILIKE "+p+" OR tracking_code ILIKE "+p+")")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC LIMIT ` + arg(limit) + ` OFFSET ` + arg(filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to query orders")
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to scan order")
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read orders")
	}
	return out, nil
}

// Save writes every mutable field in one statement so an update is all or
// nothing. The tracking code is immutable and deliberately absent here.
func (r *orderRepo) Save(ctx context.Context, o *domain.Order) error {
	const op = "order.save"

	items, err := marshalItems(o.Items)
	if err != nil {
		return domain.Internal(err, op, "failed to encode items")
	}

	err = r.pool.QueryRow(ctx, `
		UPDATE orders
		SET status = $1, weight = $2, items = $3, total_price = $4,
			payment_status = $5, updated_at = now()
		WHERE id = $6 AND admin_id = $7
		RETURNING updated_at`,
		o.Status, o.Weight, items, o.TotalPrice, o.PaymentStatus, o.ID, r.adminID,
	).Scan(&o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFound(op, "order", strconv.FormatInt(o.ID, 10))
	}
	if err != nil {
		return domain.Internal(err, op, "failed to update order")
	}
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM orders WHERE id = $1 AND admin_id = $2`, id, r.adminID)
	if err != nil {
		return domain.Internal(err, "order.delete", "failed to delete order")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("order.delete", "order", strconv.FormatInt(id, 10))
	}
	return nil
}

// DeleteAll purges the admin's orders. Counters are left untouched so a
// reset never reissues a tracking code within the same day.
func (r *orderRepo) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE admin_id = $1`, r.adminID)
	if err != nil {
		return 0, domain.Internal(err, "order.reset", "failed to delete orders")
	}
	return tag.RowsAffected(), nil
}

func (r *orderRepo) Stats(ctx context.Context) (*domain.OrderStats, error) {
	var stats domain.OrderStats
	err := r.pool.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE status IN ('pending', 'picked_up', 'washing', 'ironing')),
			count(*) FILTER (WHERE status = 'completed'),
			COALESCE(sum(total_price) FILTER (WHERE payment_status = 'paid'), 0),
			count(*) FILTER (WHERE status = 'pending' AND order_type = 'pickup')
		FROM orders
		WHERE admin_id = $1`,
		r.adminID,
	).Scan(&stats.TotalOrders, &stats.ActiveOrders, &stats.CompletedOrders,
		&stats.TotalRevenue, &stats.PendingPickups)
	if err != nil {
		return nil, domain.Internal(err, "order.stats", "failed to aggregate stats")
	}
	return &stats, nil
}

// scanOrder reads one order row in orderColumns order.
func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o     domain.Order
		items []byte
	)
	err := row.Scan(&o.ID, &o.AdminID, &o.TrackingCode, &o.CustomerName,
		&o.CustomerAddress, &o.CustomerPhone, &o.ServiceType, &o.OrderType,
		&o.Status, &o.Weight, &items, &o.TotalPrice, &o.PaymentStatus,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if items != nil {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("malformed items JSON for order %d: %w", o.ID, err)
		}
	}
	return &o, nil
}

// marshalItems encodes items as JSONB, mapping nil to SQL NULL so "not yet
// recorded" and "recorded as empty" stay distinguishable.
func marshalItems(items []domain.OrderItem) ([]byte, error) {
	if items == nil {
		return nil, nil
	}
	return json.Marshal(items)
}
