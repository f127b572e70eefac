package validation

import (
	"fmt"
	"strings"

	"github.com/fintrack/finance-tracker-backend/internal/api/request"
)

// ValidTransactionType contains the allowed transaction type values.
var ValidTransactionType = map[string]bool{
	"income": true, "expense": true,
}

// ValidateCreateTransaction validates a transaction creation request.
// Checks all required fields and validates their formats and constraints.
//
// Required fields:
//   - accountId: Must be a valid UUID
//   - type: Must be one of: income, expense
//   - description: Must be non-empty
//   - amount: Must be a decimal string
//   - date: Must be in YYYY-MM-DD format
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	if err := ValidateUUID(req.AccountID); err != nil {
		return err
	}

	errors := make(map[string]string)

	if strings.TrimSpace(req.Type) == "" {
		errors["type"] = "type is required"
	} else if !ValidTransactionType[req.Type] {
		errors["type"] = fmt.Sprintf("invalid type: %s", req.Type)
	}

	if strings.TrimSpace(req.Description) == "" {
		errors["description"] = "description is required"
	}

	checkAmount(errors, "amount", req.Amount)
	checkDate(errors, "date", req.Date)
	if req.ReferenceMonth != "" {
		checkDate(errors, "referenceMonth", req.ReferenceMonth)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateTransaction validates a transaction update request.
// All fields are optional, but if provided, they must meet the same constraints as create.
func ValidateUpdateTransaction(req request.UpdateTransactionRequest) error {
	if req.AccountID != nil {
		if err := ValidateUUID(*req.AccountID); err != nil {
			return err
		}
	}

	errors := make(map[string]string)

	if req.Type != nil && !ValidTransactionType[*req.Type] {
		errors["type"] = fmt.Sprintf("invalid type: %s", *req.Type)
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
		errors["description"] = "description is required"
	}
	if req.Amount != nil {
		checkAmount(errors, "amount", *req.Amount)
	}
	if req.Date != nil {
		checkDate(errors, "date", *req.Date)
	}
	if req.ReferenceMonth != nil {
		checkDate(errors, "referenceMonth", *req.ReferenceMonth)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
