package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	SKU          string          `json:"sku"           validate:"required,min=3,max=50"`
	Barcode      *string         `json:"barcode"       validate:"omitempty,min=8,max=18"`
	Name         string          `json:"name"          validate:"required,min=2,max=120"`
	Description  *string         `json:"description"   validate:"omitempty,max=500"`
	SalePrice    decimal.Decimal `json:"sale_price"    validate:"min=0"`
	UnitMeasure  string          `json:"unit_measure"`
	MinimumStock int             `json:"minimum_stock" validate:"min=0"`
	MaximumStock *int            `json:"maximum_stock" validate:"omitempty,min=0"`
	ReorderPoint int             `json:"reorder_point" validate:"min=0"`
	LeadTimeDays *int            `json:"lead_time_days" validate:"omitempty,min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID           string              `json:"id"`
	SKU          string              `json:"sku"`
	Barcode      *string             `json:"barcode"`
	Name         string              `json:"name"`
	Description  *string             `json:"description"`
	SalePrice    string              `json:"sale_price"`
	UnitMeasure  string              `json:"unit_measure"`
	MinimumStock int                 `json:"minimum_stock"`
	MaximumStock *int                `json:"maximum_stock"`
	ReorderPoint int                 `json:"reorder_point"`
	LeadTimeDays *int                `json:"lead_time_days"`
	TotalStock   int                 `json:"total_stock"`
	LowStock     bool                `json:"low_stock"`
	NeedsReorder bool                `json:"needs_reorder"`
	Active       bool                `json:"active"`
	Stock        []StockItemResponse `json:"stock"`
}

type ReorderResponse struct {
	ProductID         string `json:"product_id"`
	SKU               string `json:"sku"`
	TotalStock        int    `json:"total_stock"`
	ReorderPoint      int    `json:"reorder_point"`
	NeedsReorder      bool   `json:"needs_reorder"`
	SuggestedQuantity int    `json:"suggested_quantity"`
}
