package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/danieln3m0/POSLas4as/internal/dto"
	"github.com/danieln3m0/POSLas4as/internal/model"
	"github.com/danieln3m0/POSLas4as/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── In-memory repositories ────────────────────────────────────────────────────
// Stubs hand out copies so a failed operation never leaks into stored state,
// the same way a rolled back transaction would.

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	saves    int
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func cloneProduct(p *model.Product) *model.Product {
	c := *p
	c.StockItems = append([]model.StockItem(nil), p.StockItems...)
	c.PullEvents()
	return &c
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, model.NotFound("product", id)
	}
	return cloneProduct(p), nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku model.SKU) (*model.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return cloneProduct(p), nil
		}
	}
	return nil, model.NotFound("product", sku)
}

func (r *stubProductRepo) ExistsBySKU(_ context.Context, sku model.SKU) (bool, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductRepo) ExistsByBarcode(_ context.Context, barcode string) (bool, error) {
	for _, p := range r.products {
		if p.Barcode != nil && *p.Barcode == barcode {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductRepo) ListActive(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.Active {
			out = append(out, *cloneProduct(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubProductRepo) ListWithExpiringStock(ctx context.Context, before time.Time) ([]model.Product, error) {
	all, _ := r.ListActive(ctx)
	var out []model.Product
	for _, p := range all {
		var items []model.StockItem
		for _, si := range p.StockItems {
			if si.ExpirationDate != nil && si.ExpirationDate.Before(before) && !si.Quantity.IsZero() {
				items = append(items, si)
			}
		}
		if len(items) > 0 {
			p.StockItems = items
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) FindByIDForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *stubProductRepo) Save(_ context.Context, _ *gorm.DB, p *model.Product) error {
	r.saves++
	r.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

type stubLocationRepo struct {
	locations map[uuid.UUID]*model.Location
}

func newStubLocationRepo() *stubLocationRepo {
	return &stubLocationRepo{locations: make(map[uuid.UUID]*model.Location)}
}

func (r *stubLocationRepo) Create(_ context.Context, l *model.Location) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.locations[l.ID] = l
	return nil
}

func (r *stubLocationRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Location, error) {
	l, ok := r.locations[id]
	if !ok {
		return nil, model.NotFound("location", id)
	}
	return l, nil
}

func (r *stubLocationRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, l := range r.locations {
		if l.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubLocationRepo) List(_ context.Context) ([]model.Location, error) {
	var out []model.Location
	for _, l := range r.locations {
		out = append(out, *l)
	}
	return out, nil
}

var _ repository.LocationRepository = (*stubLocationRepo)(nil)

type stubMovementRepo struct {
	movements []model.StockMovement
}

func (r *stubMovementRepo) CreateTx(_ context.Context, _ *gorm.DB, m *model.StockMovement) error {
	m.ID = uuid.New()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, f repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if f.ProductID != nil && m.ProductID != *f.ProductID {
			continue
		}
		if f.LocationID != nil && m.LocationID != *f.LocationID {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
	// taken holds sale numbers that exist outside this stub
	taken map[string]bool
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale), taken: make(map[string]bool)}
}

func cloneSale(s *model.Sale) *model.Sale {
	c := *s
	c.Items = append([]model.SaleItem(nil), s.Items...)
	c.Payments = append([]model.Payment(nil), s.Payments...)
	c.PullEvents()
	return &c
}

func (r *stubSaleRepo) Save(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	r.sales[s.ID] = cloneSale(s)
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, model.NotFound("sale", id)
	}
	return cloneSale(s), nil
}

func (r *stubSaleRepo) FindByIDForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	return r.FindByID(ctx, id)
}

func (r *stubSaleRepo) FindBySaleNumber(_ context.Context, number string) (*model.Sale, error) {
	for _, s := range r.sales {
		if s.SaleNumber == number {
			return cloneSale(s), nil
		}
	}
	return nil, model.NotFound("sale", number)
}

func (r *stubSaleRepo) ExistsBySaleNumber(_ context.Context, _ *gorm.DB, number string) (bool, error) {
	if r.taken[number] {
		return true, nil
	}
	for _, s := range r.sales {
		if s.SaleNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubSaleRepo) List(_ context.Context, f dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if f.Status != "" && string(s.Status) != f.Status {
			continue
		}
		out = append(out, *cloneSale(s))
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

type stubUserRepo struct{ users map[uuid.UUID]*model.User }

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, model.NotFound("user", id)
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, model.NotFound("user", username)
}

type stubCustomerRepo struct{ customers map[uuid.UUID]*model.Customer }

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, model.NotFound("customer", id)
	}
	return c, nil
}

// ── Publisher / locker ────────────────────────────────────────────────────────

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...model.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type stubLocker struct {
	err      error
	locked   int
	released int
}

func (l *stubLocker) Lock(_ context.Context, _ uuid.UUID) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.locked++
	return func() { l.released++ }, nil
}
