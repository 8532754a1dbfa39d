package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bilasin/bilasin/internal/domain"
	"github.com/bilasin/bilasin/internal/notify"
	"github.com/bilasin/bilasin/internal/tracking"
)

// In-memory stores mirroring the postgres implementations closely enough to
// exercise the services without a database.

type memOrderStore struct {
	mu     sync.Mutex
	nextID int64
	seq    map[string]int64 // "adminID/prefix" -> last issued sequence
	orders map[int64]*domain.Order
}

func newMemOrderStore() *memOrderStore {
	return &memOrderStore{
		seq:    make(map[string]int64),
		orders: make(map[int64]*domain.Order),
	}
}

func (s *memOrderStore) Tenant(adminID int64) domain.OrderRepository {
	return &memOrderRepo{store: s, adminID: adminID}
}

func (s *memOrderStore) FindByTrackingCode(ctx context.Context, code string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.TrackingCode == code {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.NotFound("order.track", "order", code)
}

type memOrderRepo struct {
	store   *memOrderStore
	adminID int64
}

func (r *memOrderRepo) Create(ctx context.Context, o *domain.Order, now time.Time) (*domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	prefix := tracking.Prefix(now)
	key := fmt.Sprintf("%d/%s", r.adminID, prefix)
	r.store.seq[key]++

	r.store.nextID++
	cp := *o
	cp.ID = r.store.nextID
	cp.AdminID = r.adminID
	cp.TrackingCode = tracking.Format(prefix, r.store.seq[key])
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.store.orders[cp.ID] = &cp

	out := cp
	return &out, nil
}

func (r *memOrderRepo) Get(ctx context.Context, id int64) (*domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o, ok := r.store.orders[id]
	if !ok || o.AdminID != r.adminID {
		return nil, domain.NotFound("order.get", "order", strconv.FormatInt(id, 10))
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []domain.Order
	for _, o := range r.store.orders {
		if o.AdminID != r.adminID {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		if filter.PaymentStatus != nil && o.PaymentStatus != *filter.PaymentStatus {
			continue
		}
		if filter.OrderType != nil && o.OrderType != *filter.OrderType {
			continue
		}
		if filter.Search != "" {
			q := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(o.CustomerName), q) &&
				!strings.Contains(strings.ToLower(o.TrackingCode), q) {
				continue
			}
		}
		out = append(out, *o)
	}

	// Newest first by id; insertion order tracks creation time here.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].ID > out[i].ID {
				out[i], out[j] = out[j], out[i]
			}
		}
	}

	start := int(filter.Offset)
	if start > len(out) {
		start = len(out)
	}
	end := len(out)
	if filter.Limit > 0 && start+int(filter.Limit) < end {
		end = start + int(filter.Limit)
	}
	return out[start:end], nil
}

func (r *memOrderRepo) Save(ctx context.Context, o *domain.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.orders[o.ID]
	if !ok || existing.AdminID != r.adminID {
		return domain.NotFound("order.save", "order", strconv.FormatInt(o.ID, 10))
	}
	cp := *o
	cp.UpdatedAt = time.Now()
	r.store.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o, ok := r.store.orders[id]
	if !ok || o.AdminID != r.adminID {
		return domain.NotFound("order.delete", "order", strconv.FormatInt(id, 10))
	}
	delete(r.store.orders, id)
	return nil
}

func (r *memOrderRepo) DeleteAll(ctx context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var count int64
	for id, o := range r.store.orders {
		if o.AdminID == r.adminID {
			delete(r.store.orders, id)
			count++
		}
	}
	return count, nil
}

func (r *memOrderRepo) Stats(ctx context.Context) (*domain.OrderStats, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stats := &domain.OrderStats{TotalRevenue: decimal.Zero}
	for _, o := range r.store.orders {
		if o.AdminID != r.adminID {
			continue
		}
		stats.TotalOrders++
		switch o.Status {
		case domain.StatusPending, domain.StatusPickedUp, domain.StatusWashing, domain.StatusIroning:
			stats.ActiveOrders++
		case domain.StatusCompleted:
			stats.CompletedOrders++
		}
		if o.PaymentStatus == domain.PaymentPaid && o.TotalPrice != nil {
			stats.TotalRevenue = stats.TotalRevenue.Add(*o.TotalPrice)
		}
		if o.Status == domain.StatusPending && o.OrderType == domain.OrderTypePickup {
			stats.PendingPickups++
		}
	}
	return stats, nil
}

type memServiceStore struct {
	mu       sync.Mutex
	nextID   int64
	services []domain.Service
}

func newMemServiceStore() *memServiceStore {
	return &memServiceStore{}
}

func (s *memServiceStore) Tenant(adminID int64) domain.ServiceRepository {
	return &memServiceRepo{store: s, adminID: adminID}
}

type memServiceRepo struct {
	store   *memServiceStore
	adminID int64
}

func (r *memServiceRepo) List(ctx context.Context) ([]domain.Service, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []domain.Service
	for i := len(r.store.services) - 1; i >= 0; i-- {
		if r.store.services[i].AdminID == r.adminID {
			out = append(out, r.store.services[i])
		}
	}
	return out, nil
}

func (r *memServiceRepo) ListActive(ctx context.Context) ([]domain.Service, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []domain.Service
	for _, svc := range r.store.services {
		if svc.AdminID == r.adminID && svc.IsActive {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (r *memServiceRepo) Create(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextID++
	cp := *s
	cp.ID = r.store.nextID
	cp.AdminID = r.adminID
	r.store.services = append(r.store.services, cp)

	out := cp
	return &out, nil
}

func (r *memServiceRepo) Update(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.services {
		if r.store.services[i].ID == s.ID && r.store.services[i].AdminID == r.adminID {
			cp := *s
			cp.AdminID = r.adminID
			r.store.services[i] = cp
			out := cp
			return &out, nil
		}
	}
	return nil, domain.NotFound("service.update", "service", strconv.FormatInt(s.ID, 10))
}

func (r *memServiceRepo) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.services {
		if r.store.services[i].ID == id && r.store.services[i].AdminID == r.adminID {
			r.store.services = append(r.store.services[:i], r.store.services[i+1:]...)
			return nil
		}
	}
	return domain.NotFound("service.delete", "service", strconv.FormatInt(id, 10))
}

func (r *memServiceRepo) UpsertByName(ctx context.Context, s *domain.Service) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.services {
		if r.store.services[i].AdminID == r.adminID && r.store.services[i].Name == s.Name {
			cp := *s
			cp.ID = r.store.services[i].ID
			cp.AdminID = r.adminID
			r.store.services[i] = cp
			return nil
		}
	}
	r.store.nextID++
	cp := *s
	cp.ID = r.store.nextID
	cp.AdminID = r.adminID
	r.store.services = append(r.store.services, cp)
	return nil
}

type memSettingStore struct {
	mu     sync.Mutex
	values map[int64]map[string]string
}

func newMemSettingStore() *memSettingStore {
	return &memSettingStore{values: make(map[int64]map[string]string)}
}

func (s *memSettingStore) Tenant(adminID int64) domain.SettingRepository {
	return &memSettingRepo{store: s, adminID: adminID}
}

func (s *memSettingStore) set(adminID int64, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values[adminID] == nil {
		s.values[adminID] = make(map[string]string)
	}
	s.values[adminID][key] = value
}

type memSettingRepo struct {
	store   *memSettingStore
	adminID int64
}

func (r *memSettingRepo) All(ctx context.Context) (map[string]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make(map[string]string, len(r.store.values[r.adminID]))
	for k, v := range r.store.values[r.adminID] {
		out[k] = v
	}
	return out, nil
}

func (r *memSettingRepo) Get(ctx context.Context, key, def string) (string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if v, ok := r.store.values[r.adminID][key]; ok {
		return v, nil
	}
	return def, nil
}

func (r *memSettingRepo) Upsert(ctx context.Context, values map[string]string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.values[r.adminID] == nil {
		r.store.values[r.adminID] = make(map[string]string)
	}
	for k, v := range values {
		r.store.values[r.adminID][k] = v
	}
	return nil
}

type memAdminRepo struct {
	mu     sync.Mutex
	nextID int64
	admins map[int64]*domain.Admin
	tokens map[string]int64 // digest -> admin id
}

func newMemAdminRepo() *memAdminRepo {
	return &memAdminRepo{
		admins: make(map[int64]*domain.Admin),
		tokens: make(map[string]int64),
	}
}

func (r *memAdminRepo) Create(ctx context.Context, a *domain.Admin) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.admins {
		if existing.Username == a.Username {
			return nil, domain.Conflict("admin.create", "username is already taken")
		}
	}
	r.nextID++
	cp := *a
	cp.ID = r.nextID
	r.admins[cp.ID] = &cp

	out := cp
	return &out, nil
}

func (r *memAdminRepo) GetByID(ctx context.Context, id int64) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.admins[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, domain.NotFound("admin.get", "admin", strconv.FormatInt(id, 10))
}

func (r *memAdminRepo) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.admins {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.NotFound("admin.get_by_username", "admin", username)
}

func (r *memAdminRepo) InsertToken(ctx context.Context, adminID int64, digest string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[digest] = adminID
	return nil
}

func (r *memAdminRepo) GetByTokenDigest(ctx context.Context, digest string) (*domain.Admin, error) {
	r.mu.Lock()
	adminID, ok := r.tokens[digest]
	r.mu.Unlock()
	if !ok {
		return nil, domain.NotFound("token.lookup", "token", "presented token")
	}
	return r.GetByID(ctx, adminID)
}

func (r *memAdminRepo) DeleteToken(ctx context.Context, digest string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, digest)
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (n *fakeNotifier) Enqueue(msg notify.Message) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return true
}

func (n *fakeNotifier) sent() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Message(nil), n.messages...)
}
