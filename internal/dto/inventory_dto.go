package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type UpdateStockRequest struct {
	ProductID  string `json:"product_id"  validate:"required,uuid"`
	LocationID string `json:"location_id" validate:"required,uuid"`
	Operation  string `json:"operation"   validate:"required,oneof=ADD SUBTRACT SET"`
	Quantity   int    `json:"quantity"    validate:"min=0"`
	// Optional batch data; omitted fields keep their current value
	BatchNumber    *string `json:"batch_number"    validate:"omitempty,max=100"`
	LotNumber      *string `json:"lot_number"      validate:"omitempty,max=100"`
	ExpirationDate *string `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
	Notes          *string `json:"notes"           validate:"omitempty,max=500"`
}

type TransferStockRequest struct {
	ProductID      string  `json:"product_id"       validate:"required,uuid"`
	FromLocationID string  `json:"from_location_id" validate:"required,uuid"`
	ToLocationID   string  `json:"to_location_id"   validate:"required,uuid,nefield=FromLocationID"`
	Quantity       int     `json:"quantity"         validate:"required,min=1"`
	Notes          *string `json:"notes"            validate:"omitempty,max=500"`
}

type MovementFilter struct {
	ProductID  string `form:"product_id"  validate:"omitempty,uuid"`
	LocationID string `form:"location_id" validate:"omitempty,uuid"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateLocationRequest struct {
	Name        string  `json:"name"        validate:"required,min=2,max=100"`
	Type        string  `json:"type"        validate:"required,oneof=WAREHOUSE STORE DISTRIBUTION"`
	Address     *string `json:"address"     validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type StockItemResponse struct {
	ID                  string  `json:"id"`
	LocationID          string  `json:"location_id"`
	LocationName        string  `json:"location_name"`
	Quantity            int     `json:"quantity"`
	BatchNumber         *string `json:"batch_number"`
	LotNumber           *string `json:"lot_number"`
	ExpirationDate      *string `json:"expiration_date"`
	DaysUntilExpiration *int    `json:"days_until_expiration,omitempty"`
	Notes               *string `json:"notes"`
}

type StockUpdateResponse struct {
	ProductID     string            `json:"product_id"`
	SKU           string            `json:"sku"`
	PreviousStock int               `json:"previous_stock"`
	NewStock      int               `json:"new_stock"`
	TotalStock    int               `json:"total_stock"`
	LowStock      bool              `json:"low_stock"`
	Item          StockItemResponse `json:"item"`
}

type TransferStockResponse struct {
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	FromQuantity int    `json:"from_quantity"`
	ToQuantity   int    `json:"to_quantity"`
	ReferenceID  string `json:"reference_id"`
}

// StockAlertResponse lists a product at or below a stock threshold.
type StockAlertResponse struct {
	ProductID         string `json:"product_id"`
	SKU               string `json:"sku"`
	Name              string `json:"name"`
	TotalStock        int    `json:"total_stock"`
	MinimumStock      int    `json:"minimum_stock"`
	ReorderPoint      int    `json:"reorder_point"`
	SuggestedQuantity int    `json:"suggested_quantity"`
}

type ExpiringStockResponse struct {
	ProductID           string `json:"product_id"`
	SKU                 string `json:"sku"`
	Name                string `json:"name"`
	LocationName        string `json:"location_name"`
	Quantity            int    `json:"quantity"`
	ExpirationDate      string `json:"expiration_date"`
	DaysUntilExpiration int    `json:"days_until_expiration"`
}

type MovementResponse struct {
	ID               string  `json:"id"`
	ProductID        string  `json:"product_id"`
	LocationID       string  `json:"location_id"`
	Operation        string  `json:"operation"`
	Quantity         int     `json:"quantity"`
	PreviousQuantity int     `json:"previous_quantity"`
	NewQuantity      int     `json:"new_quantity"`
	Reason           string  `json:"reason"`
	ReferenceID      *string `json:"reference_id"`
	CreatedAt        string  `json:"created_at"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type LocationResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
	Active      bool    `json:"active"`
}
