package model

import (
	"errors"
	"fmt"
)

// Error categories. Every domain error wraps exactly one of these so the
// outer layers can classify failures with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrState        = errors.New("illegal state")
	ErrNotFound     = errors.New("not found")
	ErrInsufficient = errors.New("insufficient")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrInvalidAmount        = fmt.Errorf("%w: amount must be a non-negative decimal", ErrValidation)
	ErrInvalidQuantity      = fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	ErrInvalidDiscount      = fmt.Errorf("%w: invalid discount", ErrValidation)
	ErrInvalidSKU           = fmt.Errorf("%w: sku must be 3-50 chars of A-Z, 0-9 or '-'", ErrValidation)
	ErrInvalidPaymentMethod = fmt.Errorf("%w: unknown payment method", ErrValidation)
	ErrInvalidOperation     = fmt.Errorf("%w: stock operation must be ADD, SUBTRACT or SET", ErrValidation)

	ErrIllegalState = fmt.Errorf("%w: operation not allowed in current sale status", ErrState)

	ErrInsufficientQuantity = fmt.Errorf("%w: quantity would become negative", ErrInsufficient)
	ErrInsufficientStock    = fmt.Errorf("%w: not enough stock at source location", ErrInsufficient)
)

// NotFound returns an ErrNotFound carrying the entity kind and identifier.
func NotFound(entity string, id any) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, entity, id)
}

// Conflict returns an ErrConflict describing the duplicated field.
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}
