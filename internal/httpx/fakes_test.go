package httpx

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bilasin/bilasin/internal/domain"
	"github.com/bilasin/bilasin/internal/notify"
	"github.com/bilasin/bilasin/internal/tracking"
)

// A single in-memory backend implementing every store interface the router
// needs. Coarse locking is fine at test scale.
type memBackend struct {
	mu sync.Mutex

	nextID   int64
	orders   map[int64]*domain.Order
	seq      map[string]int64
	services map[int64]*domain.Service
	settings map[int64]map[string]string
	admins   map[int64]*domain.Admin
	tokens   map[string]int64

	sent []notify.Message
}

func newMemBackend() *memBackend {
	return &memBackend{
		orders:   make(map[int64]*domain.Order),
		seq:      make(map[string]int64),
		services: make(map[int64]*domain.Service),
		settings: make(map[int64]map[string]string),
		admins:   make(map[int64]*domain.Admin),
		tokens:   make(map[string]int64),
	}
}

func (b *memBackend) id() int64 {
	b.nextID++
	return b.nextID
}

func (b *memBackend) Enqueue(msg notify.Message) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, msg)
	return true
}

// domain.OrderStore

type memOrders struct{ *memBackend }

func (b *memBackend) orderStore() domain.OrderStore { return memOrders{b} }

func (s memOrders) Tenant(adminID int64) domain.OrderRepository {
	return memOrderRepo{memBackend: s.memBackend, adminID: adminID}
}

func (s memOrders) FindByTrackingCode(ctx context.Context, code string) (*domain.Order, error) {
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
	*memBackend
	adminID int64
}

func (r memOrderRepo) Create(ctx context.Context, o *domain.Order, now time.Time) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefix := tracking.Prefix(now)
	key := strconv.FormatInt(r.adminID, 10) + "/" + prefix
	r.seq[key]++

	cp := *o
	cp.ID = r.id()
	cp.AdminID = r.adminID
	cp.TrackingCode = tracking.Format(prefix, r.seq[key])
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.orders[cp.ID] = &cp

	out := cp
	return &out, nil
}

func (r memOrderRepo) Get(ctx context.Context, id int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok || o.AdminID != r.adminID {
		return nil, domain.NotFound("order.get", "order", strconv.FormatInt(id, 10))
	}
	cp := *o
	return &cp, nil
}

func (r memOrderRepo) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Order
	for _, o := range r.orders {
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
	return out, nil
}

func (r memOrderRepo) Save(ctx context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.orders[o.ID]
	if !ok || existing.AdminID != r.adminID {
		return domain.NotFound("order.save", "order", strconv.FormatInt(o.ID, 10))
	}
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r memOrderRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok || o.AdminID != r.adminID {
		return domain.NotFound("order.delete", "order", strconv.FormatInt(id, 10))
	}
	delete(r.orders, id)
	return nil
}

func (r memOrderRepo) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for id, o := range r.orders {
		if o.AdminID == r.adminID {
			delete(r.orders, id)
			count++
		}
	}
	return count, nil
}

func (r memOrderRepo) Stats(ctx context.Context) (*domain.OrderStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &domain.OrderStats{TotalRevenue: decimal.Zero}
	for _, o := range r.orders {
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

// domain.ServiceStore

type memServices struct{ *memBackend }

func (b *memBackend) serviceStore() domain.ServiceStore { return memServices{b} }

func (s memServices) Tenant(adminID int64) domain.ServiceRepository {
	return memServiceRepo{memBackend: s.memBackend, adminID: adminID}
}

type memServiceRepo struct {
	*memBackend
	adminID int64
}

func (r memServiceRepo) all() []domain.Service {
	var out []domain.Service
	for _, s := range r.services {
		if s.AdminID == r.adminID {
			out = append(out, *s)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].ID < out[i].ID {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

func (r memServiceRepo) List(ctx context.Context) ([]domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.all(), nil
}

func (r memServiceRepo) ListActive(ctx context.Context) ([]domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Service
	for _, s := range r.all() {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r memServiceRepo) Create(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *s
	cp.ID = r.id()
	cp.AdminID = r.adminID
	r.services[cp.ID] = &cp

	out := cp
	return &out, nil
}

func (r memServiceRepo) Update(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.services[s.ID]
	if !ok || existing.AdminID != r.adminID {
		return nil, domain.NotFound("service.update", "service", strconv.FormatInt(s.ID, 10))
	}
	cp := *s
	cp.AdminID = r.adminID
	r.services[s.ID] = &cp

	out := cp
	return &out, nil
}

func (r memServiceRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.services[id]
	if !ok || existing.AdminID != r.adminID {
		return domain.NotFound("service.delete", "service", strconv.FormatInt(id, 10))
	}
	delete(r.services, id)
	return nil
}

func (r memServiceRepo) UpsertByName(ctx context.Context, s *domain.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.services {
		if existing.AdminID == r.adminID && existing.Name == s.Name {
			cp := *s
			cp.ID = existing.ID
			cp.AdminID = r.adminID
			r.services[cp.ID] = &cp
			return nil
		}
	}
	cp := *s
	cp.ID = r.id()
	cp.AdminID = r.adminID
	r.services[cp.ID] = &cp
	return nil
}

// domain.SettingStore

type memSettings struct{ *memBackend }

func (b *memBackend) settingStore() domain.SettingStore { return memSettings{b} }

func (s memSettings) Tenant(adminID int64) domain.SettingRepository {
	return memSettingRepo{memBackend: s.memBackend, adminID: adminID}
}

type memSettingRepo struct {
	*memBackend
	adminID int64
}

func (r memSettingRepo) All(ctx context.Context) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]string, len(r.settings[r.adminID]))
	for k, v := range r.settings[r.adminID] {
		out[k] = v
	}
	return out, nil
}

func (r memSettingRepo) Get(ctx context.Context, key, def string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.settings[r.adminID][key]; ok {
		return v, nil
	}
	return def, nil
}

func (r memSettingRepo) Upsert(ctx context.Context, values map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.settings[r.adminID] == nil {
		r.settings[r.adminID] = make(map[string]string)
	}
	for k, v := range values {
		r.settings[r.adminID][k] = v
	}
	return nil
}

// domain.AdminRepository

type memAdmins struct{ *memBackend }

func (b *memBackend) adminRepo() domain.AdminRepository { return memAdmins{b} }

func (s memAdmins) Create(ctx context.Context, a *domain.Admin) (*domain.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.admins {
		if existing.Username == a.Username {
			return nil, domain.Conflict("admin.create", "username is already taken")
		}
	}
	cp := *a
	cp.ID = s.id()
	s.admins[cp.ID] = &cp

	out := cp
	return &out, nil
}

func (s memAdmins) GetByID(ctx context.Context, id int64) (*domain.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.admins[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, domain.NotFound("admin.get", "admin", strconv.FormatInt(id, 10))
}

func (s memAdmins) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.admins {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.NotFound("admin.get_by_username", "admin", username)
}

func (s memAdmins) InsertToken(ctx context.Context, adminID int64, digest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[digest] = adminID
	return nil
}

func (s memAdmins) GetByTokenDigest(ctx context.Context, digest string) (*domain.Admin, error) {
	s.mu.Lock()
	adminID, ok := s.tokens[digest]
	s.mu.Unlock()
	if !ok {
		return nil, domain.NotFound("token.lookup", "token", "presented token")
	}
	return s.GetByID(ctx, adminID)
}

func (s memAdmins) DeleteToken(ctx context.Context, digest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, digest)
	return nil
}
