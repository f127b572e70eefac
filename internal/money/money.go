// Package money provides exact decimal helpers for all monetary arithmetic.
// Amounts are shopspring decimals end to end; truncation (never rounding) is
// applied wherever a value crosses a precision boundary, so totals never
// silently round up.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fintrack/finance-tracker-backend/internal/apperrors"
)

// AggregateScale is the fractional precision persisted aggregates are
// truncated to.
const AggregateScale int32 = 30

// Truncate cuts value to scale fractional digits by truncation toward zero.
// Negative values truncate symmetrically: Truncate(-1.019, 2) = -1.01.
// Returns ErrInvalidAmount when scale is negative.
func Truncate(value decimal.Decimal, scale int32) (decimal.Decimal, error) {
	if scale < 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: negative scale %d", apperrors.ErrInvalidAmount, scale)
	}
	return value.Truncate(scale), nil
}

// TruncateAggregate truncates to the standard aggregate precision. The scale
// is a non-negative constant, so no error case exists.
func TruncateAggregate(value decimal.Decimal) decimal.Decimal {
	return value.Truncate(AggregateScale)
}

// DivAggregate divides a by b exactly and truncates the quotient to the
// aggregate precision. The quotient is computed with QuoRem, so the cut is
// exact truncation toward zero. Returns ErrDivisionUndefined when b is zero.
func DivAggregate(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Decimal{}, apperrors.ErrDivisionUndefined
	}
	q, _ := a.QuoRem(b, AggregateScale)
	return q, nil
}

// ParseAmount parses a decimal string, rejecting unparseable input with
// ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidAmount, s)
	}
	return d, nil
}
