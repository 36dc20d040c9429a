package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a back-office account. Only cashiers and above can own a sale.
// Role: "cashier" | "supervisor" | "admin"
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username  string    `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	Email     *string
	Role      string `gorm:"type:varchar(20);not null"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
