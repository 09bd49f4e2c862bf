package domain

import (
	"fmt"
	"strings"
)

type Currency string

const (
	USD Currency = "USD"
	CLP Currency = "CLP"
)

// Valid reports whether c is one of the supported codes.
func (c Currency) Valid() bool {
	return c == USD || c == CLP
}

// ParseCurrency accepts the two supported codes, case-insensitively.
func ParseCurrency(code string) (Currency, error) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "USD":
		return USD, nil
	case "CLP":
		return CLP, nil
	default:
		return "", fmt.Errorf("%w: unknown currency %q (use USD or CLP)", ErrInvalidInput, code)
	}
}
