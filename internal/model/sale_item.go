package model

import (
	"github.com/google/uuid"
)

// SaleItem is a line of a sale. Product data is captured at sale time and
// never re-read from the catalogue.
type SaleItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SaleID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Position    int       `gorm:"not null"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU         SKU       `gorm:"type:varchar(50);not null"`
	ProductName string    `gorm:"not null"`
	Quantity    Quantity  `gorm:"not null"`
	UnitPrice   Money     `gorm:"type:decimal(12,2);not null"`
	Discount    Discount  `gorm:"embedded;embeddedPrefix:discount_"`
	Subtotal    Money     `gorm:"type:decimal(12,2);not null"`
}

// NewSaleItem snapshots product at unitPrice. A zero quantity is rejected.
func NewSaleItem(product *Product, qty Quantity, unitPrice Money, discount Discount) (*SaleItem, error) {
	if qty.IsZero() {
		return nil, ErrInvalidQuantity
	}
	item := &SaleItem{
		ID:          uuid.New(),
		ProductID:   product.ID,
		SKU:         product.SKU,
		ProductName: product.Name,
		Quantity:    qty,
		UnitPrice:   unitPrice,
		Discount:    discount,
	}
	item.recalculate()
	return item, nil
}

// BaseAmount is unitPrice × quantity before discount.
func (it *SaleItem) BaseAmount() Money {
	base, _ := it.UnitPrice.MulQuantity(it.Quantity.Int())
	return base
}

func (it *SaleItem) DiscountAmount() Money {
	return it.Discount.Calculate(it.BaseAmount())
}

func (it *SaleItem) setQuantity(qty Quantity) error {
	if qty.IsZero() {
		return ErrInvalidQuantity
	}
	it.Quantity = qty
	it.recalculate()
	return nil
}

func (it *SaleItem) setDiscount(d Discount) {
	it.Discount = d
	it.recalculate()
}

func (it *SaleItem) recalculate() {
	it.Subtotal = it.BaseAmount().SubFloor(it.DiscountAmount())
}
