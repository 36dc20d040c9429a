package model

import (
	"time"

	"github.com/google/uuid"
)

// LocationType: "WAREHOUSE" | "STORE" | "DISTRIBUTION"
type LocationType string

const (
	LocationWarehouse    LocationType = "WAREHOUSE"
	LocationStore        LocationType = "STORE"
	LocationDistribution LocationType = "DISTRIBUTION"
)

func (t LocationType) IsValid() bool {
	switch t {
	case LocationWarehouse, LocationStore, LocationDistribution:
		return true
	}
	return false
}

// Location is a place where stock is held.
type Location struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string       `gorm:"uniqueIndex;not null"`
	Type        LocationType `gorm:"type:varchar(20);not null"`
	Address     *string
	Description *string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
