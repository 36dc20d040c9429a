package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places every Money value carries.
const MoneyScale = 2

// Money is a non-negative monetary amount rounded half-up to two decimals.
// The zero value is 0.00. Arithmetic always returns a new value.
type Money struct {
	amount decimal.Decimal
}

// NewMoney rounds d to two decimals and rejects negative amounts.
func NewMoney(d decimal.Decimal) (Money, error) {
	// decimal.Round rounds half away from zero, which is half-up for non-negative values.
	r := d.Round(MoneyScale)
	if r.IsNegative() {
		return Money{}, ErrInvalidAmount
	}
	return Money{amount: r}, nil
}

// ParseMoney parses a decimal string such as "10.005".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return NewMoney(d)
}

// MustMoney is ParseMoney for literals known to be valid.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MoneyFromInt builds a whole-unit amount.
func MoneyFromInt(units int64) (Money, error) {
	return NewMoney(decimal.NewFromInt(units))
}

func ZeroMoney() Money { return Money{} }

func (m Money) Decimal() decimal.Decimal { return m.amount }

func (m Money) Add(o Money) Money {
	return Money{amount: m.amount.Add(o.amount).Round(MoneyScale)}
}

// Sub fails with ErrInvalidAmount when o is greater than m.
func (m Money) Sub(o Money) (Money, error) {
	return NewMoney(m.amount.Sub(o.amount))
}

// SubFloor returns m-o, or zero when o >= m.
func (m Money) SubFloor(o Money) Money {
	if o.amount.GreaterThanOrEqual(m.amount) {
		return Money{}
	}
	return Money{amount: m.amount.Sub(o.amount).Round(MoneyScale)}
}

// MulQuantity multiplies by a non-negative item count.
func (m Money) MulQuantity(q int) (Money, error) {
	if q < 0 {
		return Money{}, ErrInvalidQuantity
	}
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(q))).Round(MoneyScale)}, nil
}

// MulRate multiplies by a decimal rate, rounding the result half-up.
func (m Money) MulRate(rate decimal.Decimal) Money {
	r := m.amount.Mul(rate).Round(MoneyScale)
	if r.IsNegative() {
		return Money{}
	}
	return Money{amount: r}
}

func (m Money) Min(o Money) Money {
	if o.amount.LessThan(m.amount) {
		return o
	}
	return m
}

func (m Money) IsZero() bool                    { return m.amount.IsZero() }
func (m Money) Equal(o Money) bool              { return m.amount.Equal(o.amount) }
func (m Money) LessThan(o Money) bool           { return m.amount.LessThan(o.amount) }
func (m Money) GreaterThan(o Money) bool        { return m.amount.GreaterThan(o.amount) }
func (m Money) GreaterThanOrEqual(o Money) bool { return m.amount.GreaterThanOrEqual(o.amount) }

// String always renders two decimals ("59.00").
func (m Money) String() string { return m.amount.StringFixed(MoneyScale) }

// MarshalJSON encodes the amount as a decimal string, never a float.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts both "12.50" and 12.50.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*m = Money{}
		return nil
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value stores the amount as NUMERIC.
func (m Money) Value() (driver.Value, error) {
	return m.amount.Value()
}

func (m *Money) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	parsed, err := NewMoney(d)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// SumMoney adds all amounts.
func SumMoney(values ...Money) Money {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v.amount)
	}
	return Money{amount: total.Round(MoneyScale)}
}

func (Money) GormDataType() string { return "decimal(12,2)" }
