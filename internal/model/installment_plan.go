package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentPlan is a fixed-count schedule of equal-amount ledger entries,
// e.g. a purchase paid in N parts. Creating a plan materializes all of its
// entries up front; editing it reconciles the not-yet-settled tail.
//
// InstallmentCursor marks how many installments were considered settled at
// the time of the last reconciliation. Entries with index < cursor are never
// rewritten, whatever changes on the plan.
type InstallmentPlan struct {
	ID                   string          `json:"id"`
	AccountID            string          `json:"accountId"`
	Type                 TransactionType `json:"type"`
	Description          string          `json:"description"`
	InstallmentAmount    decimal.Decimal `json:"installmentAmount"`
	NumberOfInstallments int             `json:"numberOfInstallments"`
	InstallmentCursor    int             `json:"installmentCursor"`
	StartDate            time.Time       `json:"startDate"`
	ReferenceDate        time.Time       `json:"referenceDate,omitempty"` // optional bucket override for the first installment
	EndDate              time.Time       `json:"endDate"`                 // derived: start advanced by (n-1) steps
	RecurrenceUnit       RecurrenceUnit  `json:"recurrenceUnit"`
	CategoryID           string          `json:"categoryId,omitempty"`
	TagIDs               []string        `json:"tagIds,omitempty"`
	EntityIDs            []string        `json:"entityIds,omitempty"`
	Notes                string          `json:"notes,omitempty"`
	Owner                string          `json:"owner,omitempty"`
	CreatedAt            time.Time       `json:"createdAt,omitempty"`
}
