package model

import (
	"regexp"
	"strings"
)

var skuPattern = regexp.MustCompile(`^[A-Z0-9-]{3,50}$`)

// SKU is a validated stock keeping unit code.
type SKU string

func NewSKU(raw string) (SKU, error) {
	v := strings.TrimSpace(raw)
	if !skuPattern.MatchString(v) {
		return "", ErrInvalidSKU
	}
	return SKU(v), nil
}

func (s SKU) String() string { return string(s) }
