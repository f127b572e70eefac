package validation

import (
	"fmt"
	"strings"

	"github.com/fintrack/finance-tracker-backend/internal/api/request"
)

// ValidRecurrenceUnit contains the allowed recurrence unit values.
var ValidRecurrenceUnit = map[string]bool{
	"day": true, "week": true, "month": true, "year": true,
}

// ValidateCreateInstallmentPlan validates an installment plan creation request.
//
// Required fields:
//   - accountId: Must be a valid UUID
//   - type: Must be one of: income, expense
//   - description: Must be non-empty
//   - installmentAmount: Must be a decimal string
//   - numberOfInstallments: Must be at least 1
//   - startDate: Must be in YYYY-MM-DD format
//   - recurrenceUnit: Must be one of: day, week, month, year
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateInstallmentPlan(req request.CreateInstallmentPlanRequest) error {
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

	checkAmount(errors, "installmentAmount", req.InstallmentAmount)

	if req.NumberOfInstallments < 1 {
		errors["numberOfInstallments"] = "numberOfInstallments must be at least 1"
	}

	checkDate(errors, "startDate", req.StartDate)
	if req.ReferenceDate != nil {
		checkDate(errors, "referenceDate", *req.ReferenceDate)
	}

	if !ValidRecurrenceUnit[req.RecurrenceUnit] {
		errors["recurrenceUnit"] = fmt.Sprintf("invalid recurrence unit: %s", req.RecurrenceUnit)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateInstallmentPlan validates an installment plan update request.
// All fields are optional, but if provided, they must meet the same constraints as create.
func ValidateUpdateInstallmentPlan(req request.UpdateInstallmentPlanRequest) error {
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
	if req.InstallmentAmount != nil {
		checkAmount(errors, "installmentAmount", *req.InstallmentAmount)
	}
	if req.NumberOfInstallments != nil && *req.NumberOfInstallments < 1 {
		errors["numberOfInstallments"] = "numberOfInstallments must be at least 1"
	}
	if req.StartDate != nil {
		checkDate(errors, "startDate", *req.StartDate)
	}
	if req.ReferenceDate != nil {
		checkDate(errors, "referenceDate", *req.ReferenceDate)
	}
	if req.RecurrenceUnit != nil && !ValidRecurrenceUnit[*req.RecurrenceUnit] {
		errors["recurrenceUnit"] = fmt.Sprintf("invalid recurrence unit: %s", *req.RecurrenceUnit)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
