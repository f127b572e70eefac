package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a ledger entry increases or decreases an account.
type TransactionType string

// Allowed transaction types.
const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is a supported transaction type.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// SourceKind discriminates how a ledger entry came into existence.
type SourceKind string

// Allowed source kinds.
const (
	SourceUser        SourceKind = "user"
	SourceInstallment SourceKind = "installment"
	SourceRecurring   SourceKind = "recurring"
)

// TransactionSource is a tagged variant describing the origin of a ledger entry.
// Kind selects which of the associated fields are meaningful; consumers switch
// on Kind exhaustively rather than probing nullable foreign keys.
type TransactionSource struct {
	Kind SourceKind `json:"kind"`

	// Set when Kind == SourceInstallment.
	InstallmentPlanID string `json:"installmentPlanId,omitempty"`
	InstallmentIndex  int    `json:"installmentIndex,omitempty"`

	// Set when Kind == SourceRecurring.
	RecurringTransactionID string `json:"recurringTransactionId,omitempty"`
}

// UserSource returns the source for an entry created directly by a user.
func UserSource() TransactionSource {
	return TransactionSource{Kind: SourceUser}
}

// InstallmentSource returns the source for an entry materialized from an
// installment plan. The index is the entry's position in the plan, 0-based.
func InstallmentSource(planID string, index int) TransactionSource {
	return TransactionSource{Kind: SourceInstallment, InstallmentPlanID: planID, InstallmentIndex: index}
}

// RecurringSource returns the source for an entry materialized from a
// recurring transaction template.
func RecurringSource(templateID string) TransactionSource {
	return TransactionSource{Kind: SourceRecurring, RecurringTransactionID: templateID}
}

// Transaction is a single dated ledger entry (income or expense) affecting an
// account balance. Generated entries carry a non-user Source; soft-deleted
// entries are excluded from default queries but retained for audit.
type Transaction struct {
	ID             string            `json:"id"`
	AccountID      string            `json:"accountId"`
	Type           TransactionType   `json:"type"`
	Description    string            `json:"description"`
	Amount         decimal.Decimal   `json:"amount"`
	Date           time.Time         `json:"date"`
	ReferenceMonth time.Time         `json:"referenceMonth"` // first-of-month bucket
	CategoryID     string            `json:"categoryId,omitempty"`
	TagIDs         []string          `json:"tagIds,omitempty"`
	EntityIDs      []string          `json:"entityIds,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	Source         TransactionSource `json:"source"`
	Owner          string            `json:"owner,omitempty"`
	Deleted        bool              `json:"deleted"`
	DeletedAt      *time.Time        `json:"deletedAt,omitempty"`
	CreatedAt      time.Time         `json:"createdAt,omitempty"`
}

// FirstOfMonth truncates d to the first day of its month, midnight UTC.
func FirstOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}
