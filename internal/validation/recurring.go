package validation

import (
	"fmt"
	"strings"

	"github.com/fintrack/finance-tracker-backend/internal/api/request"
)

// ValidateCreateRecurringTransaction validates a recurring template creation request.
//
// Required fields:
//   - accountId: Must be a valid UUID
//   - type: Must be one of: income, expense
//   - description: Must be non-empty
//   - amount: Must be a decimal string
//   - startDate: Must be in YYYY-MM-DD format
//   - recurrenceUnit: Must be one of: day, week, month, year
//   - recurrenceInterval: Must be at least 1
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateRecurringTransaction(req request.CreateRecurringTransactionRequest) error {
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
	checkDate(errors, "startDate", req.StartDate)
	if req.EndDate != nil {
		checkDate(errors, "endDate", *req.EndDate)
	}
	if req.ReferenceDate != nil {
		checkDate(errors, "referenceDate", *req.ReferenceDate)
	}

	if !ValidRecurrenceUnit[req.RecurrenceUnit] {
		errors["recurrenceUnit"] = fmt.Sprintf("invalid recurrence unit: %s", req.RecurrenceUnit)
	}
	if req.RecurrenceInterval < 1 {
		errors["recurrenceInterval"] = "recurrenceInterval must be at least 1"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateRecurringTransaction validates a recurring template update request.
// All fields are optional, but if provided, they must meet the same constraints as create.
func ValidateUpdateRecurringTransaction(req request.UpdateRecurringTransactionRequest) error {
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
	if req.StartDate != nil {
		checkDate(errors, "startDate", *req.StartDate)
	}
	if req.EndDate != nil {
		checkDate(errors, "endDate", *req.EndDate)
	}
	if req.ReferenceDate != nil {
		checkDate(errors, "referenceDate", *req.ReferenceDate)
	}
	if req.RecurrenceUnit != nil && !ValidRecurrenceUnit[*req.RecurrenceUnit] {
		errors["recurrenceUnit"] = fmt.Sprintf("invalid recurrence unit: %s", *req.RecurrenceUnit)
	}
	if req.RecurrenceInterval != nil && *req.RecurrenceInterval < 1 {
		errors["recurrenceInterval"] = "recurrenceInterval must be at least 1"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
