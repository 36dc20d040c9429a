package repository

import (
	"context"
	"time"

	"github.com/danieln3m0/POSLas4as/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the data access contract for products and their
// stock items. Services depend on this interface, not on the concrete GORM
// implementation, enabling clean unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, sku model.SKU) (*model.Product, error)
	ExistsBySKU(ctx context.Context, sku model.SKU) (bool, error)
	ExistsByBarcode(ctx context.Context, barcode string) (bool, error)
	ListActive(ctx context.Context) ([]model.Product, error)
	// ListWithExpiringStock returns active products preloaded only with the
	// stock items that expire before the given date.
	ListWithExpiringStock(ctx context.Context, before time.Time) ([]model.Product, error)

	// Used inside transactions — callers must pass the tx instance
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	Save(ctx context.Context, tx *gorm.DB, p *model.Product) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return translate(r.db.WithContext(ctx).Create(p).Error, "product", p.SKU)
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := withStock(r.db.WithContext(ctx)).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "product", id)
	}
	return &p, nil
}

func (r *productRepo) FindBySKU(ctx context.Context, sku model.SKU) (*model.Product, error) {
	var p model.Product
	err := withStock(r.db.WithContext(ctx)).Where("sku = ?", sku).First(&p).Error
	if err != nil {
		return nil, translate(err, "product", sku)
	}
	return &p, nil
}

func (r *productRepo) ExistsBySKU(ctx context.Context, sku model.SKU) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("sku = ?", sku).Count(&n).Error
	return n > 0, err
}

func (r *productRepo) ExistsByBarcode(ctx context.Context, barcode string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("barcode = ?", barcode).Count(&n).Error
	return n > 0, err
}

func (r *productRepo) ListActive(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := withStock(r.db.WithContext(ctx)).Where("active = true").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) ListWithExpiringStock(ctx context.Context, before time.Time) ([]model.Product, error) {
	var products []model.Product
	expiring := "expiration_date IS NOT NULL AND expiration_date < ? AND quantity > 0"
	err := r.db.WithContext(ctx).
		Where("active = true").
		Where("EXISTS (SELECT 1 FROM stock_items si WHERE si.product_id = products.id AND "+
			"si.expiration_date IS NOT NULL AND si.expiration_date < ? AND si.quantity > 0)", before).
		Preload("StockItems", expiring, before).
		Preload("StockItems.Location").
		Order("name ASC").
		Find(&products).Error
	return products, err
}

// FindByIDForUpdate takes a row lock on the product (SELECT ... FOR UPDATE)
// so concurrent stock writers queue behind the current transaction.
func (r *productRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := conn(r.db, tx).WithContext(ctx).
		Preload("StockItems").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "product", id)
	}
	return &p, nil
}

// Save persists the product and upserts its stock items. It expects the
// product as returned by FindByIDForUpdate, without preloaded locations.
func (r *productRepo) Save(ctx context.Context, tx *gorm.DB, p *model.Product) error {
	return conn(r.db, tx).WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(p).Error
}

func withStock(q *gorm.DB) *gorm.DB {
	return q.Preload("StockItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Preload("StockItems.Location")
}
