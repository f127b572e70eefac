package validation

import (
	"strings"

	"github.com/fintrack/finance-tracker-backend/internal/api/request"
)

// ValidateCreateDCAStrategy validates a strategy creation request.
//
// Required fields:
//   - name: Must be non-empty
//   - targetCurrency: Must be non-empty
//   - paymentCurrency: Must be non-empty
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateDCAStrategy(req request.CreateDCAStrategyRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	}
	if strings.TrimSpace(req.TargetCurrency) == "" {
		errors["targetCurrency"] = "targetCurrency is required"
	}
	if strings.TrimSpace(req.PaymentCurrency) == "" {
		errors["paymentCurrency"] = "paymentCurrency is required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateDCAStrategy validates a strategy update request.
// All fields are optional, but if provided, they must be non-empty.
func ValidateUpdateDCAStrategy(req request.UpdateDCAStrategyRequest) error {
	errors := make(map[string]string)

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		errors["name"] = "name is required"
	}
	if req.TargetCurrency != nil && strings.TrimSpace(*req.TargetCurrency) == "" {
		errors["targetCurrency"] = "targetCurrency is required"
	}
	if req.PaymentCurrency != nil && strings.TrimSpace(*req.PaymentCurrency) == "" {
		errors["paymentCurrency"] = "paymentCurrency is required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateCreateDCAEntry validates an entry creation request.
//
// Required fields:
//   - date: Must be in YYYY-MM-DD format
//   - amountPaid: Must be a decimal string
//   - amountReceived: Must be a strictly positive decimal string
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateDCAEntry(req request.CreateDCAEntryRequest) error {
	errors := make(map[string]string)

	checkDate(errors, "date", req.Date)
	checkAmount(errors, "amountPaid", req.AmountPaid)
	checkPositiveAmount(errors, "amountReceived", req.AmountReceived)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateDCAEntry validates an entry update request.
// All fields are optional, but if provided, they must meet the same constraints as create.
func ValidateUpdateDCAEntry(req request.UpdateDCAEntryRequest) error {
	errors := make(map[string]string)

	if req.Date != nil {
		checkDate(errors, "date", *req.Date)
	}
	if req.AmountPaid != nil {
		checkAmount(errors, "amountPaid", *req.AmountPaid)
	}
	if req.AmountReceived != nil {
		checkPositiveAmount(errors, "amountReceived", *req.AmountReceived)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
