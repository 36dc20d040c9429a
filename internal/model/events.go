package model

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a notification recorded by an aggregate during a mutation.
// Aggregates only collect events; the service publishes them after commit.
// AggregateID names the product or sale the event belongs to.
type DomainEvent interface {
	EventType() string
	AggregateID() uuid.UUID
}

const (
	EventProductCreated = "catalog.product_created"
	EventStockUpdated   = "inventory.stock_updated"
	EventLowStockAlert  = "inventory.low_stock_alert"
	EventSaleCompleted  = "sales.sale_completed"
	EventSaleCancelled  = "sales.sale_cancelled"
	EventSaleRefunded   = "sales.sale_refunded"
)

type ProductCreated struct {
	ProductID  uuid.UUID `json:"product_id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	SalePrice  Money     `json:"sale_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (ProductCreated) EventType() string       { return EventProductCreated }
func (e ProductCreated) AggregateID() uuid.UUID { return e.ProductID }

type StockUpdated struct {
	ProductID     uuid.UUID `json:"product_id"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	NewStock      int       `json:"new_stock"`
	PreviousStock int       `json:"previous_stock"`
	LocationName  string    `json:"location_name"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func (StockUpdated) EventType() string        { return EventStockUpdated }
func (e StockUpdated) AggregateID() uuid.UUID { return e.ProductID }

// LowStockAlert is raised when a product's total stock is at or below its minimum.
type LowStockAlert struct {
	ProductID    uuid.UUID `json:"product_id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	CurrentStock int       `json:"current_stock"`
	MinimumStock int       `json:"minimum_stock"`
	LocationName string    `json:"location_name"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (LowStockAlert) EventType() string        { return EventLowStockAlert }
func (e LowStockAlert) AggregateID() uuid.UUID { return e.ProductID }

type SaleLine struct {
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
	Quantity  int       `json:"quantity"`
}

// SaleCompleted carries the sold lines so a downstream consumer can decide
// whether to move stock. The sale itself never touches inventory.
type SaleCompleted struct {
	SaleID     uuid.UUID  `json:"sale_id"`
	SaleNumber string     `json:"sale_number"`
	Total      Money      `json:"total"`
	Lines      []SaleLine `json:"lines"`
	OccurredAt time.Time  `json:"occurred_at"`
}

func (SaleCompleted) EventType() string        { return EventSaleCompleted }
func (e SaleCompleted) AggregateID() uuid.UUID { return e.SaleID }

type SaleCancelled struct {
	SaleID     uuid.UUID `json:"sale_id"`
	SaleNumber string    `json:"sale_number"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (SaleCancelled) EventType() string        { return EventSaleCancelled }
func (e SaleCancelled) AggregateID() uuid.UUID { return e.SaleID }

type SaleRefunded struct {
	SaleID     uuid.UUID `json:"sale_id"`
	SaleNumber string    `json:"sale_number"`
	Total      Money     `json:"total"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (SaleRefunded) EventType() string        { return EventSaleRefunded }
func (e SaleRefunded) AggregateID() uuid.UUID { return e.SaleID }
