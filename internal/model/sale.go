package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus: "PENDING" | "COMPLETED" | "CANCELLED" | "REFUNDED"
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "PENDING"
	SaleStatusCompleted SaleStatus = "COMPLETED"
	SaleStatusCancelled SaleStatus = "CANCELLED"
	SaleStatusRefunded  SaleStatus = "REFUNDED"
)

func ParseSaleStatus(s string) (SaleStatus, error) {
	st := SaleStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case SaleStatusPending, SaleStatusCompleted, SaleStatusCancelled, SaleStatusRefunded:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown sale status %q", ErrValidation, s)
}

// IGVRate is the sales tax applied to the net amount of every sale.
var IGVRate = decimal.RequireFromString("0.18")

var clock = time.Now

// Sale is the aggregate root of a point-of-sale transaction. Every money
// field is derived from Items and Payments and is recomputed from scratch on
// each mutation.
type Sale struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SaleNumber string     `gorm:"type:varchar(30);uniqueIndex;not null"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	CashierID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	SaleDate   time.Time  `gorm:"not null;index"`
	Status     SaleStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`

	Subtotal      Money `gorm:"type:decimal(12,2);not null"`
	TotalDiscount Money `gorm:"type:decimal(12,2);not null"`
	TaxAmount     Money `gorm:"type:decimal(12,2);not null"`
	Total         Money `gorm:"type:decimal(12,2);not null"`
	TotalPaid     Money `gorm:"type:decimal(12,2);not null"`
	ChangeAmount  Money `gorm:"type:decimal(12,2);not null"`

	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Items    []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Payments []Payment  `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Customer *Customer  `gorm:"foreignKey:CustomerID"`
	Cashier  *User      `gorm:"foreignKey:CashierID"`

	events []DomainEvent `gorm:"-"`
}

// NewSale opens a PENDING sale with zeroed totals.
func NewSale(number string, cashierID uuid.UUID, customerID *uuid.UUID, saleDate time.Time) *Sale {
	return &Sale{
		ID:         uuid.New(),
		SaleNumber: number,
		CustomerID: customerID,
		CashierID:  cashierID,
		SaleDate:   saleDate,
		Status:     SaleStatusPending,
	}
}

func (s *Sale) CanAddItems() bool    { return s.Status == SaleStatusPending }
func (s *Sale) CanAddPayments() bool { return s.Status == SaleStatusPending && !s.IsFullyPaid() }
func (s *Sale) IsFullyPaid() bool    { return s.TotalPaid.GreaterThanOrEqual(s.Total) }

// NetAmount is subtotal minus discounts, the taxable base.
func (s *Sale) NetAmount() Money { return s.Subtotal.SubFloor(s.TotalDiscount) }

func (s *Sale) PendingAmount() Money { return s.Total.SubFloor(s.TotalPaid) }

// TotalItems counts units, not lines.
func (s *Sale) TotalItems() int {
	n := 0
	for i := range s.Items {
		n += s.Items[i].Quantity.Int()
	}
	return n
}

func (s *Sale) Item(itemID uuid.UUID) (SaleItem, bool) {
	if it := s.item(itemID); it != nil {
		return *it, true
	}
	return SaleItem{}, false
}

func (s *Sale) item(itemID uuid.UUID) *SaleItem {
	for i := range s.Items {
		if s.Items[i].ID == itemID {
			return &s.Items[i]
		}
	}
	return nil
}

func (s *Sale) AddItem(item *SaleItem) error {
	if !s.CanAddItems() {
		return ErrIllegalState
	}
	item.SaleID = s.ID
	item.Position = s.nextItemPosition()
	s.Items = append(s.Items, *item)
	s.itemsChanged()
	return nil
}

func (s *Sale) RemoveItem(itemID uuid.UUID) error {
	if !s.CanAddItems() {
		return ErrIllegalState
	}
	for i := range s.Items {
		if s.Items[i].ID == itemID {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			s.itemsChanged()
			return nil
		}
	}
	return NotFound("sale item", itemID)
}

func (s *Sale) UpdateItemQuantity(itemID uuid.UUID, qty Quantity) error {
	if !s.CanAddItems() {
		return ErrIllegalState
	}
	it := s.item(itemID)
	if it == nil {
		return NotFound("sale item", itemID)
	}
	if err := it.setQuantity(qty); err != nil {
		return err
	}
	s.itemsChanged()
	return nil
}

func (s *Sale) UpdateItemDiscount(itemID uuid.UUID, d Discount) error {
	if !s.CanAddItems() {
		return ErrIllegalState
	}
	it := s.item(itemID)
	if it == nil {
		return NotFound("sale item", itemID)
	}
	it.setDiscount(d)
	s.itemsChanged()
	return nil
}

// AddPayment appends p and completes the sale once it is fully paid. A sale
// without items cannot take payments. A pending sale whose total is 0.00 is
// already covered and is closed by any payment, including a zero one.
func (s *Sale) AddPayment(p *Payment) error {
	if len(s.Items) == 0 {
		return ErrIllegalState
	}
	zeroTotal := s.Status == SaleStatusPending && s.Total.IsZero()
	if !s.CanAddPayments() && !zeroTotal {
		return ErrIllegalState
	}
	if p.Amount.IsZero() && !zeroTotal {
		return ErrInvalidAmount
	}
	p.SaleID = s.ID
	p.Position = len(s.Payments) + 1
	s.Payments = append(s.Payments, *p)
	s.recalculatePayments()
	s.completeIfPaid()
	return nil
}

// Cancel fails once the sale was completed or refunded. Cancelling an
// already cancelled sale is a no-op.
func (s *Sale) Cancel() error {
	switch s.Status {
	case SaleStatusCancelled:
		return nil
	case SaleStatusCompleted, SaleStatusRefunded:
		return ErrIllegalState
	}
	s.Status = SaleStatusCancelled
	s.record(SaleCancelled{SaleID: s.ID, SaleNumber: s.SaleNumber, OccurredAt: clock().UTC()})
	return nil
}

func (s *Sale) Refund() error {
	if s.Status != SaleStatusCompleted {
		return ErrIllegalState
	}
	s.Status = SaleStatusRefunded
	s.record(SaleRefunded{SaleID: s.ID, SaleNumber: s.SaleNumber, Total: s.Total, OccurredAt: clock().UTC()})
	return nil
}

func (s *Sale) itemsChanged() {
	s.recalculateTotals()
	s.recalculatePayments()
	// Removing or discounting a line after a partial payment can leave the sale paid.
	if len(s.Payments) > 0 {
		s.completeIfPaid()
	}
}

func (s *Sale) recalculateTotals() {
	subtotal := make([]Money, 0, len(s.Items))
	discount := make([]Money, 0, len(s.Items))
	for i := range s.Items {
		subtotal = append(subtotal, s.Items[i].BaseAmount())
		discount = append(discount, s.Items[i].DiscountAmount())
	}
	s.Subtotal = SumMoney(subtotal...)
	s.TotalDiscount = SumMoney(discount...)
	net := s.NetAmount()
	s.TaxAmount = net.MulRate(IGVRate)
	s.Total = net.Add(s.TaxAmount)
}

func (s *Sale) recalculatePayments() {
	paid := make([]Money, 0, len(s.Payments))
	for i := range s.Payments {
		paid = append(paid, s.Payments[i].Amount)
	}
	s.TotalPaid = SumMoney(paid...)
	s.ChangeAmount = s.TotalPaid.SubFloor(s.Total)
}

func (s *Sale) completeIfPaid() {
	if s.Status != SaleStatusPending || !s.IsFullyPaid() {
		return
	}
	s.Status = SaleStatusCompleted
	lines := make([]SaleLine, 0, len(s.Items))
	for i := range s.Items {
		lines = append(lines, SaleLine{
			ProductID: s.Items[i].ProductID,
			SKU:       s.Items[i].SKU.String(),
			Quantity:  s.Items[i].Quantity.Int(),
		})
	}
	s.record(SaleCompleted{
		SaleID:     s.ID,
		SaleNumber: s.SaleNumber,
		Total:      s.Total,
		Lines:      lines,
		OccurredAt: clock().UTC(),
	})
}

func (s *Sale) nextItemPosition() int {
	pos := 0
	for i := range s.Items {
		if s.Items[i].Position > pos {
			pos = s.Items[i].Position
		}
	}
	return pos + 1
}

func (s *Sale) record(e DomainEvent) { s.events = append(s.events, e) }

// PullEvents returns the pending events and clears them.
func (s *Sale) PullEvents() []DomainEvent {
	events := s.events
	s.events = nil
	return events
}
