package validation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common validation errors
var (
	ErrInvalidUUID      = fmt.Errorf("invalid UUID format")
	ErrInvalidDateRange = fmt.Errorf("invalid date range")
	ErrEmptySlice       = fmt.Errorf("slice cannot be empty")
)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}

// ValidateUUIDs validates a slice of UUIDs
func ValidateUUIDs(ids []string) error {
	if len(ids) == 0 {
		return ErrEmptySlice
	}
	for _, id := range ids {
		if err := ValidateUUID(id); err != nil {
			return err
		}
	}
	return nil
}

// checkDate records a field error when the value is not a YYYY-MM-DD date.
func checkDate(errors map[string]string, field, value string) {
	if value == "" {
		errors[field] = field + " is required"
		return
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		errors[field] = err.Error()
	}
}

// checkAmount records a field error when the value is not a decimal string.
func checkAmount(errors map[string]string, field, value string) {
	if value == "" {
		errors[field] = field + " is required"
		return
	}
	if _, err := decimal.NewFromString(value); err != nil {
		errors[field] = fmt.Sprintf("invalid decimal: %s", value)
	}
}

// checkPositiveAmount records a field error when the value is not a strictly
// positive decimal string.
func checkPositiveAmount(errors map[string]string, field, value string) {
	if value == "" {
		errors[field] = field + " is required"
		return
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		errors[field] = fmt.Sprintf("invalid decimal: %s", value)
		return
	}
	if !d.IsPositive() {
		errors[field] = field + " must be positive"
	}
}
