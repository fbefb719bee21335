package usecase

import (
	"context"
	"ecommerce-backend/internal/domain"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory stand-ins for the Postgres repositories.

type memProducts struct {
	mu    sync.Mutex
	items map[string]domain.Product
	calls int
}

func newMemProducts(products ...domain.Product) *memProducts {
	m := &memProducts{items: map[string]domain.Product{}}
	for _, p := range products {
		m.items[p.ID] = p
	}
	return m
}

func (m *memProducts) Create(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.NewString()
	m.items[p.ID] = *p
	return nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m *memProducts) List(_ context.Context, _ domain.ProductFilter) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Product, 0, len(m.items))
	for _, p := range m.items {
		out = append(out, p)
	}
	return out, nil
}

func (m *memProducts) Update(_ context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	m.items[id] = p
	return &p, nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memProducts) GetPrices(_ context.Context, ids []string) (map[string]decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	out := map[string]decimal.Decimal{}
	for _, id := range ids {
		if p, ok := m.items[id]; ok {
			out[id] = p.Price
		}
	}
	return out, nil
}

type memCoupons struct {
	mu     sync.Mutex
	byCode map[string]*domain.Coupon
}

func newMemCoupons(coupons ...domain.Coupon) *memCoupons {
	m := &memCoupons{byCode: map[string]*domain.Coupon{}}
	for _, c := range coupons {
		c := c
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		m.byCode[c.Code] = &c
	}
	return m
}

func (m *memCoupons) get(code string) domain.Coupon {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.byCode[code]
}

func (m *memCoupons) Create(_ context.Context, c *domain.Coupon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uuid.NewString()
	cp := *c
	m.byCode[c.Code] = &cp
	return nil
}

func (m *memCoupons) GetActiveByCode(_ context.Context, code string) (*domain.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byCode[code]
	if !ok || !c.IsActive {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCoupons) byID(id string) (*domain.Coupon, bool) {
	for _, c := range m.byCode {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

func (m *memCoupons) GetByID(_ context.Context, id string) (*domain.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCoupons) List(_ context.Context) ([]domain.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Coupon, 0, len(m.byCode))
	for _, c := range m.byCode {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memCoupons) Update(_ context.Context, id string, u domain.CouponUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID(id)
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.byCode, c.Code)
	c.Code = u.Code
	c.DiscountValue = u.DiscountValue
	c.MinPurchase = u.MinPurchase
	c.ExpiryDate = u.ExpiryDate
	c.IsActive = u.IsActive
	m.byCode[c.Code] = c
	return nil
}

func (m *memCoupons) SetActive(_ context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID(id)
	if !ok {
		return domain.ErrNotFound
	}
	c.IsActive = active
	return nil
}

func (m *memCoupons) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID(id)
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.byCode, c.Code)
	return nil
}

func (m *memCoupons) Exists(_ context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byCode[code]
	return ok, nil
}

func (m *memCoupons) Redeem(_ context.Context, code, email string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byCode[code]
	if !ok || !c.IsActive || now.After(c.ExpiryDate) || c.UsedCount >= c.UsageLimit {
		return false, nil
	}
	c.UsedCount++
	if email != "" && !slices.Contains(c.UsedBy, email) {
		c.UsedBy = append(c.UsedBy, email)
	}
	return true, nil
}

type memCarts struct {
	mu    sync.Mutex
	lines map[string]domain.CartLine
}

func newMemCarts() *memCarts {
	return &memCarts{lines: map[string]domain.CartLine{}}
}

func (m *memCarts) Add(_ context.Context, line *domain.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	line.ID = uuid.NewString()
	m.lines[line.ID] = *line
	return nil
}

func (m *memCarts) ListByEmail(_ context.Context, email string) ([]domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.CartLine{}
	for _, l := range m.lines {
		if l.Email == email {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memCarts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lines[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.lines, id)
	return nil
}

func (m *memCarts) DeleteClaimed(_ context.Context, email string, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range ids {
		if l, ok := m.lines[id]; ok && l.Email == email {
			delete(m.lines, id)
			n++
		}
	}
	return n, nil
}

type memOrders struct {
	mu     sync.Mutex
	orders map[string]domain.Order
}

func newMemOrders() *memOrders {
	return &memOrders{orders: map[string]domain.Order{}}
}

func (m *memOrders) Create(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = uuid.NewString()
	m.orders[o.ID] = *o
	return nil
}

func (m *memOrders) GetByID(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (m *memOrders) List(_ context.Context, f domain.OrderFilter) ([]domain.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Order{}
	for _, o := range m.orders {
		if (f.Email == "" || o.Email == f.Email) && (f.DeliveryStatus == "" || o.DeliveryStatus == f.DeliveryStatus) {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memOrders) UpdateDeliveryStatus(_ context.Context, id, status string, deliveredAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.DeliveryStatus = status
	o.DeliveredAt = deliveredAt
	m.orders[id] = o
	return nil
}

// inlineTx runs fn directly; rollback is the store's concern.
type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeGateway struct {
	mu       sync.Mutex
	calls    int
	amount   int64
	metadata map[string]string
	err      error
}

func (g *fakeGateway) CreateIntent(_ context.Context, amountMinor int64, currency string, metadata map[string]string) (*domain.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.amount = amountMinor
	g.metadata = metadata
	if g.err != nil {
		return nil, g.err
	}
	return &domain.PaymentIntent{ID: "pi_test", ClientSecret: "pi_test_secret", Amount: amountMinor, Currency: currency}, nil
}

var (
	fixedNow   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	testPolicy = ShippingPolicy{
		LocalDistrict: "Dhaka",
		LocalFee:      decimal.NewFromInt(80),
		OutsideFee:    decimal.NewFromInt(150),
	}
)

func newTestEngine(products *memProducts, coupons *memCoupons) *PricingEngine {
	return NewPricingEngine(products, coupons, testPolicy, 50, WithClock(func() time.Time { return fixedNow }))
}

func product(price string) domain.Product {
	return domain.Product{ID: uuid.NewString(), Name: "item", Price: decimal.RequireFromString(price)}
}

func coupon(code string, kind domain.DiscountType, value, minPurchase string, limit int) domain.Coupon {
	return domain.Coupon{
		Code:          code,
		DiscountType:  kind,
		DiscountValue: decimal.RequireFromString(value),
		MinPurchase:   decimal.RequireFromString(minPurchase),
		UsageLimit:    limit,
		ExpiryDate:    fixedNow.Add(24 * time.Hour),
		IsActive:      true,
		UsedBy:        []string{},
	}
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]domain.User{}}
}

func (m *memUsers) Upsert(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.users[u.Email]; ok {
		u.ID = existing.ID
		u.Role = existing.Role
	} else {
		u.ID = uuid.NewString()
	}
	m.users[u.Email] = *u
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) List(_ context.Context, limit, offset int) ([]domain.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.User{}
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (m *memUsers) UpdateRole(_ context.Context, id, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, u := range m.users {
		if u.ID == id {
			u.Role = role
			m.users[email] = u
			return nil
		}
	}
	return domain.ErrNotFound
}

type countingStats struct {
	calls int
	stats domain.DashboardStats
}

func (s *countingStats) Dashboard(context.Context) (*domain.DashboardStats, error) {
	s.calls++
	out := s.stats
	return &out, nil
}
