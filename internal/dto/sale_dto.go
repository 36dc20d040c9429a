package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Status     string `form:"status"      validate:"omitempty,oneof=PENDING COMPLETED CANCELLED REFUNDED"`
	CashierID  string `form:"cashier_id"  validate:"omitempty,uuid"`
	CustomerID string `form:"customer_id" validate:"omitempty,uuid"`
	From       string `form:"from"` // YYYY-MM-DD, inclusive
	To         string `form:"to"`   // YYYY-MM-DD, inclusive
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// DiscountRequest: type is PERCENTAGE or FIXED_AMOUNT; value is the
// percentage (0-100) or the amount.
type DiscountRequest struct {
	Type  string          `json:"type"  validate:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	Value decimal.Decimal `json:"value" validate:"min=0"`
}

type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
	// UnitPrice defaults to the product's sale price when omitted
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Discount  *DiscountRequest `json:"discount"`
}

type CreateSaleRequest struct {
	// CashierID defaults to the authenticated user
	CashierID  *string           `json:"cashier_id"  validate:"omitempty,uuid"`
	CustomerID *string           `json:"customer_id" validate:"omitempty,uuid"`
	Items      []SaleItemRequest `json:"items"       validate:"required,min=1,dive"`
	Notes      *string           `json:"notes"       validate:"omitempty,max=500"`
}

// UpdateSaleItemRequest changes the quantity and/or discount of a line.
type UpdateSaleItemRequest struct {
	Quantity *int             `json:"quantity" validate:"omitempty,min=1"`
	Discount *DiscountRequest `json:"discount"`
}

type PaymentRequest struct {
	Method          string          `json:"method"           validate:"required,oneof=CASH CREDIT_CARD DEBIT_CARD DIGITAL_PAYMENT BANK_TRANSFER CHECK"`
	Amount          decimal.Decimal `json:"amount"           validate:"min=0"`
	ReferenceNumber *string         `json:"reference_number" validate:"omitempty,max=100"`
	Notes           *string         `json:"notes"            validate:"omitempty,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ID             string `json:"id"`
	ProductID      string `json:"product_id"`
	SKU            string `json:"sku"`
	ProductName    string `json:"product_name"`
	Quantity       int    `json:"quantity"`
	UnitPrice      string `json:"unit_price"`
	DiscountType   string `json:"discount_type"`
	DiscountValue  string `json:"discount_value"`
	DiscountAmount string `json:"discount_amount"`
	Subtotal       string `json:"subtotal"`
}

type PaymentResponse struct {
	ID              string  `json:"id"`
	Method          string  `json:"method"`
	Amount          string  `json:"amount"`
	ReferenceNumber *string `json:"reference_number"`
	Notes           *string `json:"notes"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	SaleNumber    string             `json:"sale_number"`
	CashierID     string             `json:"cashier_id"`
	CustomerID    *string            `json:"customer_id"`
	SaleDate      string             `json:"sale_date"`
	Status        string             `json:"status"`
	Items         []SaleItemResponse `json:"items"`
	Payments      []PaymentResponse  `json:"payments"`
	Subtotal      string             `json:"subtotal"`
	TotalDiscount string             `json:"total_discount"`
	TaxAmount     string             `json:"tax_amount"`
	Total         string             `json:"total"`
	TotalPaid     string             `json:"total_paid"`
	ChangeAmount  string             `json:"change_amount"`
	PendingAmount string             `json:"pending_amount"`
	TotalItems    int                `json:"total_items"`
	Notes         *string            `json:"notes"`
}
