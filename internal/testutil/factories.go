package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/finance-tracker-backend/internal/model"
)

// TransactionBuilder provides a fluent interface for creating test ledger
// entries.
//
// Example usage:
//
//	// Simple creation with defaults
//	entry := testutil.NewTransaction(accountID).Build(t, db)
//
//	// Customized entry
//	entry := testutil.NewTransaction(accountID).
//	    WithAmount("25.50").
//	    WithDate(someDate).
//	    Build(t, db)
type TransactionBuilder struct {
	ID             string
	AccountID      string
	Type           string
	Description    string
	Amount         decimal.Decimal
	Date           time.Time
	ReferenceMonth time.Time
	Source         model.TransactionSource
}

// NewTransaction creates a TransactionBuilder with sensible defaults.
func NewTransaction(accountID string) *TransactionBuilder {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	return &TransactionBuilder{
		ID:             MakeID(),
		AccountID:      accountID,
		Type:           "expense",
		Description:    "Test entry",
		Amount:         decimal.RequireFromString("10.00"),
		Date:           date,
		ReferenceMonth: model.FirstOfMonth(date),
		Source:         model.UserSource(),
	}
}

// WithID sets a custom ID.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.ID = id
	return b
}

// WithType sets the entry type.
func (b *TransactionBuilder) WithType(entryType string) *TransactionBuilder {
	b.Type = entryType
	return b
}

// WithAmount sets the amount from a decimal string.
func (b *TransactionBuilder) WithAmount(amount string) *TransactionBuilder {
	b.Amount = decimal.RequireFromString(amount)
	return b
}

// WithDate sets the entry date and derives the reference month from it.
func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	b.Date = date
	b.ReferenceMonth = model.FirstOfMonth(date)
	return b
}

// WithSource marks the entry as generated by a plan or template.
func (b *TransactionBuilder) WithSource(source model.TransactionSource) *TransactionBuilder {
	b.Source = source
	return b
}

// Build creates the ledger entry in the database.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	var planID, recurringID any
	var index any
	if b.Source.Kind == model.SourceInstallment {
		planID = b.Source.InstallmentPlanID
		index = b.Source.InstallmentIndex
	}
	if b.Source.Kind == model.SourceRecurring {
		recurringID = b.Source.RecurringTransactionID
	}

	query := `
		INSERT INTO "transaction" (id, account_id, type, description, amount, date, reference_month,
			source_kind, installment_plan_id, installment_index, recurring_transaction_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.AccountID, b.Type, b.Description, b.Amount.String(),
		b.Date.Format("2006-01-02"), b.ReferenceMonth.Format("2006-01-02"),
		string(b.Source.Kind), planID, index, recurringID)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return model.Transaction{
		ID:             b.ID,
		AccountID:      b.AccountID,
		Type:           model.TransactionType(b.Type),
		Description:    b.Description,
		Amount:         b.Amount,
		Date:           b.Date,
		ReferenceMonth: b.ReferenceMonth,
		Source:         b.Source,
		CreatedAt:      time.Now(),
	}
}

// InstallmentPlanBuilder provides a fluent interface for creating test plans.
// Build inserts only the plan row; entries come from the installment service.
type InstallmentPlanBuilder struct {
	ID                   string
	AccountID            string
	Type                 string
	Description          string
	InstallmentAmount    decimal.Decimal
	NumberOfInstallments int
	InstallmentCursor    int
	StartDate            time.Time
	EndDate              time.Time
	RecurrenceUnit       string
}

// NewInstallmentPlan creates an InstallmentPlanBuilder with sensible defaults:
// six monthly installments of 50.00 starting 2025-01-15.
func NewInstallmentPlan(accountID string) *InstallmentPlanBuilder {
	return &InstallmentPlanBuilder{
		ID:                   MakeID(),
		AccountID:            accountID,
		Type:                 "expense",
		Description:          "Test plan",
		InstallmentAmount:    decimal.RequireFromString("50.00"),
		NumberOfInstallments: 6,
		StartDate:            time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		EndDate:              time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		RecurrenceUnit:       "month",
	}
}

// WithCursor sets the settled cursor.
func (b *InstallmentPlanBuilder) WithCursor(cursor int) *InstallmentPlanBuilder {
	b.InstallmentCursor = cursor
	return b
}

// WithCount sets the number of installments.
func (b *InstallmentPlanBuilder) WithCount(count int) *InstallmentPlanBuilder {
	b.NumberOfInstallments = count
	return b
}

// WithStartDate sets the start date.
func (b *InstallmentPlanBuilder) WithStartDate(date time.Time) *InstallmentPlanBuilder {
	b.StartDate = date
	return b
}

// Build creates the plan row in the database.
func (b *InstallmentPlanBuilder) Build(t *testing.T, db *sql.DB) model.InstallmentPlan {
	t.Helper()

	query := `
		INSERT INTO installment_plan (id, account_id, type, description, installment_amount,
			number_of_installments, installment_cursor, start_date, end_date, recurrence_unit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.AccountID, b.Type, b.Description, b.InstallmentAmount.String(),
		b.NumberOfInstallments, b.InstallmentCursor, b.StartDate.Format("2006-01-02"),
		b.EndDate.Format("2006-01-02"), b.RecurrenceUnit)
	if err != nil {
		t.Fatalf("Failed to create test installment plan: %v", err)
	}

	return model.InstallmentPlan{
		ID:                   b.ID,
		AccountID:            b.AccountID,
		Type:                 model.TransactionType(b.Type),
		Description:          b.Description,
		InstallmentAmount:    b.InstallmentAmount,
		NumberOfInstallments: b.NumberOfInstallments,
		InstallmentCursor:    b.InstallmentCursor,
		StartDate:            b.StartDate,
		EndDate:              b.EndDate,
		RecurrenceUnit:       model.RecurrenceUnit(b.RecurrenceUnit),
	}
}

// DCAStrategyBuilder provides a fluent interface for creating test strategies.
type DCAStrategyBuilder struct {
	ID              string
	Name            string
	TargetCurrency  string
	PaymentCurrency string
}

// NewDCAStrategy creates a DCAStrategyBuilder with sensible defaults.
func NewDCAStrategy() *DCAStrategyBuilder {
	return &DCAStrategyBuilder{
		ID:              MakeID(),
		Name:            "Test Strategy",
		TargetCurrency:  "BTC",
		PaymentCurrency: "EUR",
	}
}

// WithCurrencies sets the target and payment currencies.
func (b *DCAStrategyBuilder) WithCurrencies(target, payment string) *DCAStrategyBuilder {
	b.TargetCurrency = target
	b.PaymentCurrency = payment
	return b
}

// Build creates the strategy in the database.
func (b *DCAStrategyBuilder) Build(t *testing.T, db *sql.DB) model.DCAStrategy {
	t.Helper()

	query := `
		INSERT INTO dca_strategy (id, name, target_currency, payment_currency)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.TargetCurrency, b.PaymentCurrency)
	if err != nil {
		t.Fatalf("Failed to create test dca strategy: %v", err)
	}

	return model.DCAStrategy{
		ID:              b.ID,
		Name:            b.Name,
		TargetCurrency:  b.TargetCurrency,
		PaymentCurrency: b.PaymentCurrency,
	}
}

// DCAEntryBuilder provides a fluent interface for creating test entries.
type DCAEntryBuilder struct {
	ID             string
	StrategyID     string
	Date           time.Time
	AmountPaid     decimal.Decimal
	AmountReceived decimal.Decimal
}

// NewDCAEntry creates a DCAEntryBuilder with sensible defaults.
func NewDCAEntry(strategyID string) *DCAEntryBuilder {
	return &DCAEntryBuilder{
		ID:             MakeID(),
		StrategyID:     strategyID,
		Date:           time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		AmountPaid:     decimal.RequireFromString("100"),
		AmountReceived: decimal.RequireFromString("1"),
	}
}

// WithDate sets the entry date.
func (b *DCAEntryBuilder) WithDate(date time.Time) *DCAEntryBuilder {
	b.Date = date
	return b
}

// WithAmounts sets paid and received from decimal strings.
func (b *DCAEntryBuilder) WithAmounts(paid, received string) *DCAEntryBuilder {
	b.AmountPaid = decimal.RequireFromString(paid)
	b.AmountReceived = decimal.RequireFromString(received)
	return b
}

// Build creates the entry in the database.
func (b *DCAEntryBuilder) Build(t *testing.T, db *sql.DB) model.DCAEntry {
	t.Helper()

	query := `
		INSERT INTO dca_entry (id, strategy_id, date, amount_paid, amount_received)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.StrategyID, b.Date.Format("2006-01-02"),
		b.AmountPaid.String(), b.AmountReceived.String())
	if err != nil {
		t.Fatalf("Failed to create test dca entry: %v", err)
	}

	return model.DCAEntry{
		ID:             b.ID,
		StrategyID:     b.StrategyID,
		Date:           b.Date,
		AmountPaid:     b.AmountPaid,
		AmountReceived: b.AmountReceived,
	}
}

// CreateExchangeRate stores a rate row for a pair and date.
//
// Example usage:
//
//	testutil.CreateExchangeRate(t, db, "EUR", "BTC", "400", date)
func CreateExchangeRate(t *testing.T, db *sql.DB, from, to, rate string, date time.Time) {
	t.Helper()

	query := `
		INSERT INTO exchange_rate (id, from_currency, to_currency, rate, date)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, MakeID(), from, to,
		decimal.RequireFromString(rate).String(), date.Format("2006-01-02"))
	if err != nil {
		t.Fatalf("Failed to create test exchange rate: %v", err)
	}
}
