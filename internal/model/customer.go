package model

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentNumber string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	FirstName      string    `gorm:"not null"`
	LastName       string    `gorm:"not null"`
	Email          *string
	Phone          *string
	Active         bool `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (c *Customer) FullName() string { return c.FirstName + " " + c.LastName }
