package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

// Quantity is a non-negative unit count. Subtraction never clamps: taking more
// than is available is an ErrInsufficientQuantity.
type Quantity struct {
	value int
}

func NewQuantity(v int) (Quantity, error) {
	if v < 0 {
		return Quantity{}, ErrInvalidQuantity
	}
	return Quantity{value: v}, nil
}

// MustQuantity is NewQuantity for literals known to be valid.
func MustQuantity(v int) Quantity {
	q, err := NewQuantity(v)
	if err != nil {
		panic(err)
	}
	return q
}

func (q Quantity) Int() int { return q.value }

func (q Quantity) Add(o Quantity) Quantity {
	return Quantity{value: q.value + o.value}
}

func (q Quantity) Sub(o Quantity) (Quantity, error) {
	if o.value > q.value {
		return q, fmt.Errorf("%w: have %d, need %d", ErrInsufficientQuantity, q.value, o.value)
	}
	return Quantity{value: q.value - o.value}, nil
}

func (q Quantity) IsZero() bool               { return q.value == 0 }
func (q Quantity) LessThan(o Quantity) bool    { return q.value < o.value }
func (q Quantity) GreaterThan(o Quantity) bool { return q.value > o.value }
func (q Quantity) String() string              { return strconv.Itoa(q.value) }

func (q Quantity) MarshalJSON() ([]byte, error) { return json.Marshal(q.value) }

func (q *Quantity) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidQuantity, string(data))
	}
	parsed, err := NewQuantity(v)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

func (q Quantity) Value() (driver.Value, error) { return int64(q.value), nil }

func (q *Quantity) Scan(value any) error {
	var v int64
	switch t := value.(type) {
	case int64:
		v = t
	case int32:
		v = int64(t)
	case int:
		v = int64(t)
	case []byte:
		n, err := strconv.ParseInt(string(t), 10, 64)
		if err != nil {
			return err
		}
		v = n
	case nil:
		v = 0
	default:
		return fmt.Errorf("quantity: unsupported scan type %T", value)
	}
	parsed, err := NewQuantity(int(v))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

func (Quantity) GormDataType() string { return "integer" }
