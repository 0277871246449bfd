package application

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
)

// MaxInterestPeriods bounds the projection loop.
const MaxInterestPeriods = 1200

var hundred = decimal.NewFromInt(100)

// ProjectBalance computes the previewed balance for the given mode, rounded
// to two places.
func ProjectBalance(mode entity.InterestMode, balance, rate decimal.Decimal, periods int) (decimal.Decimal, error) {
	if periods <= 0 || periods > MaxInterestPeriods {
		return decimal.Zero, fmt.Errorf("%w: periods must be between 1 and %d", entity.ErrValidation, MaxInterestPeriods)
	}
	switch mode {
	case entity.InterestLiteral, "":
		// The rate itself is compounded against the unchanged balance.
		accrued := rate
		for i := 0; i < periods; i++ {
			accrued = accrued.Mul(balance).Div(hundred)
		}
		return balance.Add(accrued).Round(2), nil
	case entity.InterestCompound:
		factor := decimal.NewFromInt(1).Add(rate.Div(hundred))
		out := balance
		for i := 0; i < periods; i++ {
			out = out.Mul(factor).Round(16)
		}
		return out.Round(2), nil
	}
	return decimal.Zero, fmt.Errorf("%w: unknown interest mode %q", entity.ErrValidation, mode)
}

// ParseInterestMode falls back to the literal formula for empty input.
func ParseInterestMode(s string) (entity.InterestMode, error) {
	switch entity.InterestMode(s) {
	case "", entity.InterestLiteral:
		return entity.InterestLiteral, nil
	case entity.InterestCompound:
		return entity.InterestCompound, nil
	}
	return "", fmt.Errorf("%w: unknown interest mode %q", entity.ErrValidation, s)
}
