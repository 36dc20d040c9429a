package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// StockItem is the quantity of one product held at one location, with optional
// batch tracking data. Quantity never goes below zero.
type StockItem struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ProductID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_location"`
	LocationID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_location;index"`
	Quantity       Quantity   `gorm:"type:integer;not null;default:0;check:quantity >= 0"`
	BatchNumber    *string    `gorm:"type:varchar(100)"`
	LotNumber      *string    `gorm:"type:varchar(100)"`
	ExpirationDate *time.Time `gorm:"type:date;index"`
	Notes          *string    `gorm:"type:varchar(500)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Location *Location `gorm:"foreignKey:LocationID"`
}

// StockMetadata holds the optional batch fields of a stock operation.
// Nil fields are left untouched.
type StockMetadata struct {
	BatchNumber    *string
	LotNumber      *string
	ExpirationDate *time.Time
	Notes          *string
}

func newStockItem(productID, locationID uuid.UUID, qty Quantity, meta StockMetadata) *StockItem {
	si := &StockItem{
		ID:         uuid.New(),
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   qty,
	}
	si.applyMetadata(meta)
	return si
}

func (si *StockItem) Add(q Quantity) {
	si.Quantity = si.Quantity.Add(q)
}

// Subtract fails with ErrInsufficientQuantity and leaves the quantity unchanged
// when q exceeds what is on hand.
func (si *StockItem) Subtract(q Quantity) error {
	next, err := si.Quantity.Sub(q)
	if err != nil {
		return err
	}
	si.Quantity = next
	return nil
}

func (si *StockItem) applyMetadata(meta StockMetadata) {
	if meta.BatchNumber != nil {
		si.BatchNumber = meta.BatchNumber
	}
	if meta.LotNumber != nil {
		si.LotNumber = meta.LotNumber
	}
	if meta.ExpirationDate != nil {
		d := truncateDay(*meta.ExpirationDate)
		si.ExpirationDate = &d
	}
	if meta.Notes != nil {
		si.Notes = meta.Notes
	}
}

// HasExpired reports whether the expiration date is before today.
func (si *StockItem) HasExpired(today time.Time) bool {
	if si.ExpirationDate == nil {
		return false
	}
	return truncateDay(*si.ExpirationDate).Before(truncateDay(today))
}

// IsExpiringSoon reports whether the item expires within days but has not yet expired.
func (si *StockItem) IsExpiringSoon(days int, today time.Time) bool {
	if si.ExpirationDate == nil || si.HasExpired(today) {
		return false
	}
	threshold := truncateDay(today).AddDate(0, 0, days)
	return truncateDay(*si.ExpirationDate).Before(threshold)
}

// DaysUntilExpiration is negative once expired and math.MaxInt without a date.
func (si *StockItem) DaysUntilExpiration(today time.Time) int {
	if si.ExpirationDate == nil {
		return math.MaxInt
	}
	return int(truncateDay(*si.ExpirationDate).Sub(truncateDay(today)).Hours() / 24)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
