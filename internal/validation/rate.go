package validation

import (
	"strings"

	"github.com/fintrack/finance-tracker-backend/internal/api/request"
)

// ValidateSetExchangeRate validates a rate upsert request.
//
// Required fields:
//   - fromCurrency: Must be non-empty
//   - toCurrency: Must be non-empty and differ from fromCurrency
//   - rate: Must be a strictly positive decimal string
//   - date: Must be in YYYY-MM-DD format
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateSetExchangeRate(req request.SetExchangeRateRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.FromCurrency) == "" {
		errors["fromCurrency"] = "fromCurrency is required"
	}
	if strings.TrimSpace(req.ToCurrency) == "" {
		errors["toCurrency"] = "toCurrency is required"
	} else if req.ToCurrency == req.FromCurrency {
		errors["toCurrency"] = "toCurrency must differ from fromCurrency"
	}

	checkPositiveAmount(errors, "rate", req.Rate)
	checkDate(errors, "date", req.Date)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateSetProviderToken validates a provider token request.
func ValidateSetProviderToken(req request.SetProviderTokenRequest) error {
	if strings.TrimSpace(req.Token) == "" {
		return &Error{Fields: map[string]string{"token": "token is required"}}
	}
	return nil
}
