package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringTransaction is an open-ended, periodically repeating ledger-entry
// template. Generation is forward-only: LastGeneratedDate is monotonically
// non-decreasing and always equals the date of the most recently materialized
// entry, or is nil if none has been generated yet.
type RecurringTransaction struct {
	ID                 string          `json:"id"`
	IsPaused           bool            `json:"isPaused"`
	AccountID          string          `json:"accountId"`
	Type               TransactionType `json:"type"`
	Amount             decimal.Decimal `json:"amount"`
	Description        string          `json:"description"`
	CategoryID         string          `json:"categoryId,omitempty"`
	TagIDs             []string        `json:"tagIds,omitempty"`
	EntityIDs          []string        `json:"entityIds,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	ReferenceDate      time.Time       `json:"referenceDate,omitempty"` // optional bucket override for the first occurrence
	StartDate          time.Time       `json:"startDate"`
	EndDate            *time.Time      `json:"endDate,omitempty"`
	RecurrenceUnit     RecurrenceUnit  `json:"recurrenceUnit"`
	RecurrenceInterval int             `json:"recurrenceInterval"`

	LastGeneratedDate           *time.Time `json:"lastGeneratedDate,omitempty"`
	LastGeneratedReferenceMonth *time.Time `json:"lastGeneratedReferenceMonth,omitempty"`

	Owner     string    `json:"owner,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
