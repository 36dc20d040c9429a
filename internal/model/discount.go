package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountType: "PERCENTAGE" | "FIXED_AMOUNT"
type DiscountType string

const (
	DiscountPercentage  DiscountType = "PERCENTAGE"
	DiscountFixedAmount DiscountType = "FIXED_AMOUNT"
)

var hundred = decimal.NewFromInt(100)

// Discount is either a percentage in [0,100] or a fixed amount. It is stored
// embedded in its owning line item.
type Discount struct {
	Type       DiscountType    `gorm:"type:varchar(20);not null;default:'PERCENTAGE'" json:"type"`
	Percentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"percentage"`
	Amount     Money           `gorm:"type:decimal(12,2);not null;default:0" json:"amount"`
}

// NewPercentageDiscount accepts at most two decimal places ("12.34").
func NewPercentageDiscount(pct decimal.Decimal) (Discount, error) {
	if pct.IsNegative() || pct.GreaterThan(hundred) || !pct.Equal(pct.Round(2)) {
		return Discount{}, ErrInvalidDiscount
	}
	return Discount{Type: DiscountPercentage, Percentage: pct}, nil
}

func NewFixedDiscount(amount Money) Discount {
	return Discount{Type: DiscountFixedAmount, Percentage: decimal.Zero, Amount: amount}
}

// NoDiscount is a 0% discount.
func NoDiscount() Discount {
	return Discount{Type: DiscountPercentage, Percentage: decimal.Zero}
}

// ParseDiscount builds a discount from transport input. An empty type means
// no discount.
func ParseDiscount(kind string, value decimal.Decimal) (Discount, error) {
	switch DiscountType(strings.ToUpper(strings.TrimSpace(kind))) {
	case "":
		return NoDiscount(), nil
	case DiscountPercentage:
		return NewPercentageDiscount(value)
	case DiscountFixedAmount:
		amount, err := NewMoney(value)
		if err != nil {
			return Discount{}, ErrInvalidDiscount
		}
		return NewFixedDiscount(amount), nil
	default:
		return Discount{}, ErrInvalidDiscount
	}
}

// Calculate returns the discount for base. It never exceeds base.
func (d Discount) Calculate(base Money) Money {
	if d.Type == DiscountFixedAmount {
		return d.Amount.Min(base)
	}
	return base.MulRate(d.Percentage.Div(hundred)).Min(base)
}

func (d Discount) IsPercentage() bool  { return d.Type != DiscountFixedAmount }
func (d Discount) IsFixedAmount() bool { return d.Type == DiscountFixedAmount }

// IsNone reports whether the discount can never reduce an amount.
func (d Discount) IsNone() bool {
	if d.IsFixedAmount() {
		return d.Amount.IsZero()
	}
	return d.Percentage.IsZero()
}
