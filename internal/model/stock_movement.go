package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement records every change applied to a stock item.
// Quantity is signed: positive = inbound, negative = outbound.
type StockMovement struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID        uuid.UUID      `gorm:"type:uuid;not null;index"`
	LocationID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	Operation        StockOperation `gorm:"type:varchar(20);not null"`
	Quantity         int            `gorm:"not null"`
	PreviousQuantity int            `gorm:"not null"`
	NewQuantity      int            `gorm:"not null"`
	Reason           string
	// ReferenceID links the movements of one transfer together
	ReferenceID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time

	Product  *Product  `gorm:"foreignKey:ProductID"`
	Location *Location `gorm:"foreignKey:LocationID"`
}

// TableName overrides GORM's default pluralization.
func (StockMovement) TableName() string { return "stock_movements" }
