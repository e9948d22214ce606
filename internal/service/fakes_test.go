package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront-service/internal/catalog"
	"storefront-service/internal/checkout"
	"storefront-service/internal/entity"
)

// memStore is an in-memory stand-in for the MySQL repository.
type memStore struct {
	mu        sync.Mutex
	products  map[string]entity.ProductStock
	orders    []entity.Order
	stats     *entity.Stats
	feedbacks []entity.Feedback
	seq       int

	completeErr error
	listCalls   int
	ensureCalls int
}

func newMemStore(stock map[string]int) *memStore {
	m := &memStore{products: map[string]entity.ProductStock{}}
	for name, n := range stock {
		def, _ := catalog.Lookup(name)
		m.products[name] = entity.ProductStock{Name: name, Price: def.Price, Stock: n}
	}
	return m
}

func (m *memStore) ListProducts(context.Context) ([]entity.ProductStock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	out := make([]entity.ProductStock, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetProduct(_ context.Context, name string) (*entity.ProductStock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, entity.ErrProductNotFound)
	}
	return &p, nil
}

func (m *memStore) UpdateProductStock(_ context.Context, name string, stock int) (*entity.ProductStock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[name]
	if !ok {
		return nil, entity.ErrProductNotFound
	}
	p.Stock = stock
	m.products[name] = p
	return &p, nil
}

func (m *memStore) CompleteOrder(_ context.Context, o *entity.Order) (*entity.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.completeErr != nil {
		return nil, m.completeErr
	}
	p, ok := m.products[o.ProductName]
	if !ok {
		return nil, entity.ErrProductNotFound
	}
	if p.Stock < o.Quantity {
		return nil, entity.ErrInsufficientStock
	}
	for _, existing := range m.orders {
		if existing.OrderID == o.OrderID {
			return nil, entity.ErrDuplicateOrder
		}
	}
	o.ID = int64(len(m.orders) + 1)
	o.CreatedAt = time.Now()
	m.orders = append(m.orders, *o)
	p.Stock -= o.Quantity
	m.products[o.ProductName] = p
	if m.stats == nil {
		m.stats = initialStats()
	}
	m.stats.TotalOrders++
	m.stats.TotalProfit = catalog.Round(m.stats.TotalProfit + o.Total)
	return &entity.Completion{Order: *o, Stock: p.Stock, Stats: *m.stats}, nil
}

func (m *memStore) GetLatestStats(context.Context) (*entity.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stats == nil {
		return nil, nil
	}
	s := *m.stats
	return &s, nil
}

func initialStats() *entity.Stats {
	return &entity.Stats{
		ID:          entity.InitialStatsID,
		TotalOrders: entity.InitialTotalOrders,
		TotalProfit: entity.InitialTotalProfit,
		CreatedAt:   time.Now(),
	}
}

func (m *memStore) EnsureStats(context.Context) (*entity.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureCalls++
	if m.stats == nil {
		m.stats = initialStats()
	}
	s := *m.stats
	return &s, nil
}

func (m *memStore) UpdateStats(_ context.Context, id string, orders int64, profit float64) (*entity.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stats == nil || m.stats.ID != id {
		return nil, entity.ErrStatsNotFound
	}
	m.stats.TotalOrders = orders
	m.stats.TotalProfit = profit
	s := *m.stats
	return &s, nil
}

func (m *memStore) IncrementStats(_ context.Context, orders int64, profit float64) (*entity.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stats == nil {
		return nil, nil
	}
	m.stats.TotalOrders += orders
	m.stats.TotalProfit += profit
	s := *m.stats
	return &s, nil
}

func (m *memStore) ListFeedback(context.Context) ([]entity.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Feedback, 0, len(m.feedbacks))
	for i := len(m.feedbacks) - 1; i >= 0; i-- {
		out = append(out, m.feedbacks[i])
	}
	return out, nil
}

func (m *memStore) InsertFeedback(_ context.Context, f *entity.Feedback) (*entity.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	f.CreatedAt = time.Unix(int64(m.seq), 0)
	m.feedbacks = append(m.feedbacks, *f)
	return f, nil
}

type memCache struct {
	rows        []entity.ProductStock
	invalidated int
}

func (c *memCache) Get(context.Context) ([]entity.ProductStock, bool, error) {
	return c.rows, c.rows != nil, nil
}

func (c *memCache) Set(_ context.Context, rows []entity.ProductStock) error {
	c.rows = rows
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.rows = nil
	c.invalidated++
	return nil
}

type memSessions struct {
	m        map[string]checkout.Session
	conflict bool
}

func newMemSessions() *memSessions { return &memSessions{m: map[string]checkout.Session{}} }

func (s *memSessions) Save(_ context.Context, sess *checkout.Session) error {
	s.m[sess.ID] = *sess
	return nil
}

func (s *memSessions) Get(_ context.Context, id string) (*checkout.Session, error) {
	sess, ok := s.m[id]
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *memSessions) Update(_ context.Context, id string, fn func(*checkout.Session) error) (*checkout.Session, error) {
	if s.conflict {
		return nil, checkout.ErrInvalidTransition
	}
	sess, ok := s.m[id]
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	if err := fn(&sess); err != nil {
		return nil, err
	}
	s.m[id] = sess
	return &sess, nil
}

func (s *memSessions) Delete(_ context.Context, id string) error {
	delete(s.m, id)
	return nil
}

type memGuard struct {
	seen map[string]bool
}

func (g *memGuard) Reserve(_ context.Context, id string) (bool, error) {
	if g.seen[id] {
		return false, nil
	}
	g.seen[id] = true
	return true, nil
}

type recordingPublisher struct {
	events []entity.OrderEvent
	err    error
}

func (p *recordingPublisher) PublishOrderCompleted(_ context.Context, ev entity.OrderEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}
