package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StockOperation: "ADD" | "SUBTRACT" | "SET"
type StockOperation string

const (
	StockAdd      StockOperation = "ADD"
	StockSubtract StockOperation = "SUBTRACT"
	StockSet      StockOperation = "SET"
)

func ParseStockOperation(s string) (StockOperation, error) {
	op := StockOperation(strings.ToUpper(strings.TrimSpace(s)))
	switch op {
	case StockAdd, StockSubtract, StockSet:
		return op, nil
	}
	return "", ErrInvalidOperation
}

// Product is the inventory aggregate root. It owns its StockItems; every
// stock change goes through ApplyStock.
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU          SKU       `gorm:"type:varchar(50);uniqueIndex;not null"`
	Barcode      *string   `gorm:"type:varchar(100);uniqueIndex"`
	Name         string    `gorm:"index;not null"`
	Description  *string
	SalePrice    Money `gorm:"type:decimal(12,2);not null"`
	UnitMeasure  string `gorm:"not null;default:'unit'"`
	MinimumStock int    `gorm:"not null;default:0"`
	MaximumStock *int
	ReorderPoint int `gorm:"not null;default:0"`
	LeadTimeDays *int
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	StockItems []StockItem `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	events []DomainEvent `gorm:"-"`
}

// Registered records the creation of a new catalogue product.
func (p *Product) Registered(now time.Time) {
	p.record(ProductCreated{
		ProductID:  p.ID,
		SKU:        p.SKU.String(),
		Name:       p.Name,
		SalePrice:  p.SalePrice,
		OccurredAt: now,
	})
}

// TotalStock sums the quantities held at every location.
func (p *Product) TotalStock() int {
	total := 0
	for i := range p.StockItems {
		total += p.StockItems[i].Quantity.Int()
	}
	return total
}

func (p *Product) IsLowStock() bool   { return p.TotalStock() <= p.MinimumStock }
func (p *Product) NeedsReorder() bool { return p.TotalStock() <= p.ReorderPoint }
func (p *Product) IsOutOfStock() bool { return p.TotalStock() == 0 }

// StockAt returns the quantity held at locationID, zero when there is no entry.
func (p *Product) StockAt(locationID uuid.UUID) int {
	if si := p.stockItem(locationID); si != nil {
		return si.Quantity.Int()
	}
	return 0
}

// StockItemAt returns a copy of the entry for locationID.
func (p *Product) StockItemAt(locationID uuid.UUID) (StockItem, bool) {
	if si := p.stockItem(locationID); si != nil {
		return *si, true
	}
	return StockItem{}, false
}

func (p *Product) stockItem(locationID uuid.UUID) *StockItem {
	for i := range p.StockItems {
		if p.StockItems[i].LocationID == locationID {
			return &p.StockItems[i]
		}
	}
	return nil
}

// ReorderQuantity suggests reorderPoint*2 (capped at MaximumStock) minus the
// stock on hand. A negative result means nothing needs ordering.
func (p *Product) ReorderQuantity() int {
	suggested := p.ReorderPoint * 2
	if p.MaximumStock != nil && suggested > *p.MaximumStock {
		suggested = *p.MaximumStock
	}
	return suggested - p.TotalStock()
}

// ApplyStock mutates the entry at loc and returns the movement to record.
//
// ADD and SET create the entry when it does not exist; SUBTRACT against a
// missing entry fails with ErrInsufficientQuantity. SET keeps the entry's
// identity and only overwrites the metadata fields that are supplied.
func (p *Product) ApplyStock(loc *Location, op StockOperation, qty Quantity, meta StockMetadata, now time.Time) (*StockMovement, error) {
	mov, err := p.applyStock(loc, op, qty, meta, now)
	if err != nil {
		return nil, err
	}
	p.checkLowStock(loc, now)
	return mov, nil
}

// Transfer moves qty from one location to another. The low stock check runs
// once, after both legs.
func (p *Product) Transfer(from, to *Location, qty Quantity, now time.Time) (out, in *StockMovement, err error) {
	if available := p.StockAt(from.ID); available < qty.Int() {
		return nil, nil, fmt.Errorf("%w: %s has %d of %s, %d requested",
			ErrInsufficientStock, from.Name, available, p.SKU, qty.Int())
	}
	if out, err = p.applyStock(from, StockSubtract, qty, StockMetadata{}, now); err != nil {
		return nil, nil, err
	}
	if in, err = p.applyStock(to, StockAdd, qty, StockMetadata{}, now); err != nil {
		return nil, nil, err
	}
	p.checkLowStock(from, now)
	return out, in, nil
}

func (p *Product) applyStock(loc *Location, op StockOperation, qty Quantity, meta StockMetadata, now time.Time) (*StockMovement, error) {
	si := p.stockItem(loc.ID)
	if si == nil {
		if op == StockSubtract {
			return nil, fmt.Errorf("%w: no stock of %s at %s", ErrInsufficientQuantity, p.SKU, loc.Name)
		}
		p.StockItems = append(p.StockItems, *newStockItem(p.ID, loc.ID, Quantity{}, StockMetadata{}))
		si = &p.StockItems[len(p.StockItems)-1]
	}

	previous := si.Quantity.Int()
	switch op {
	case StockAdd:
		si.Add(qty)
		si.applyMetadata(meta)
	case StockSubtract:
		if err := si.Subtract(qty); err != nil {
			return nil, err
		}
		if meta.Notes != nil {
			si.Notes = meta.Notes
		}
	case StockSet:
		si.Quantity = qty
		si.applyMetadata(meta)
	default:
		return nil, ErrInvalidOperation
	}
	current := si.Quantity.Int()

	p.record(StockUpdated{
		ProductID:     p.ID,
		SKU:           p.SKU.String(),
		Name:          p.Name,
		NewStock:      current,
		PreviousStock: previous,
		LocationName:  loc.Name,
		OccurredAt:    now,
	})

	mov := &StockMovement{
		ProductID:        p.ID,
		LocationID:       loc.ID,
		Operation:        op,
		Quantity:         current - previous,
		PreviousQuantity: previous,
		NewQuantity:      current,
		CreatedAt:        now,
	}
	if meta.Notes != nil {
		mov.Reason = *meta.Notes
	}
	return mov, nil
}

func (p *Product) checkLowStock(loc *Location, now time.Time) {
	if !p.IsLowStock() {
		return
	}
	p.record(LowStockAlert{
		ProductID:    p.ID,
		SKU:          p.SKU.String(),
		Name:         p.Name,
		CurrentStock: p.TotalStock(),
		MinimumStock: p.MinimumStock,
		LocationName: loc.Name,
		OccurredAt:   now,
	})
}

func (p *Product) record(e DomainEvent) { p.events = append(p.events, e) }

// PullEvents returns the pending events and clears them.
func (p *Product) PullEvents() []DomainEvent {
	events := p.events
	p.events = nil
	return events
}
