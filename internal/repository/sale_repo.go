package repository

import (
	"context"
	"time"

	"github.com/danieln3m0/POSLas4as/internal/dto"
	"github.com/danieln3m0/POSLas4as/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository interface {
	// Save upserts the whole aggregate: the sale row, its items and payments.
	// Items and payments no longer present on the aggregate are deleted.
	Save(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	// FindByIDForUpdate locks the sale row until tx ends.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	FindBySaleNumber(ctx context.Context, number string) (*model.Sale, error)
	ExistsBySaleNumber(ctx context.Context, tx *gorm.DB, number string) (bool, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Save(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	db := conn(r.db, tx).WithContext(ctx)

	itemIDs := make([]uuid.UUID, 0, len(s.Items))
	for _, it := range s.Items {
		itemIDs = append(itemIDs, it.ID)
	}
	orphans := db.Where("sale_id = ?", s.ID)
	if len(itemIDs) > 0 {
		orphans = orphans.Where("id NOT IN ?", itemIDs)
	}
	if err := orphans.Delete(&model.SaleItem{}).Error; err != nil {
		return err
	}

	err := db.Session(&gorm.Session{FullSaveAssociations: true}).
		Omit("Customer", "Cashier").
		Save(s).Error
	return translate(err, "sale", s.SaleNumber)
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.withChildren(r.db.WithContext(ctx)).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "sale", id)
	}
	return &s, nil
}

func (r *saleRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.withChildren(conn(r.db, tx).WithContext(ctx)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&s, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "sale", id)
	}
	return &s, nil
}

func (r *saleRepo) FindBySaleNumber(ctx context.Context, number string) (*model.Sale, error) {
	var s model.Sale
	err := r.withChildren(r.db.WithContext(ctx)).Where("sale_number = ?", number).First(&s).Error
	if err != nil {
		return nil, translate(err, "sale", number)
	}
	return &s, nil
}

func (r *saleRepo) ExistsBySaleNumber(ctx context.Context, tx *gorm.DB, number string) (bool, error) {
	var n int64
	err := conn(r.db, tx).WithContext(ctx).Model(&model.Sale{}).Where("sale_number = ?", number).Count(&n).Error
	return n > 0, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CashierID != "" {
		q = q.Where("cashier_id = ?", filter.CashierID)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if from, err := time.Parse(time.DateOnly, filter.From); err == nil {
		q = q.Where("sale_date >= ?", from)
	}
	if to, err := time.Parse(time.DateOnly, filter.To); err == nil {
		q = q.Where("sale_date < ?", to.AddDate(0, 0, 1))
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := pageOffset(filter.Page, filter.Limit)
	err := r.withChildren(q).
		Order("sale_date DESC").
		Offset(offset).Limit(limit).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) withChildren(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}
