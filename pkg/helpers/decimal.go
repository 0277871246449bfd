package helpers

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Bounds for amounts read from requests and stores. Comparing or printing a
// decimal with an extreme exponent allocates 10^exp, so such input is refused
// before any arithmetic.
const (
	MinDecimalExponent = -8
	MaxDecimalExponent = 18
	MaxDecimalDigits   = 30
)

var ErrDecimalRange = errors.New("number out of range")

// ParseDecimal parses s and rejects values outside the supported range.
func ParseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	if !DecimalInRange(d) {
		return decimal.Zero, ErrDecimalRange
	}
	return d, nil
}

// DecimalInRange reports whether d has a bounded exponent and coefficient.
func DecimalInRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= MinDecimalExponent && exp <= MaxDecimalExponent && d.NumDigits() <= MaxDecimalDigits
}
