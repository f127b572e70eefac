package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrTransactionNotFound indicates that a ledger entry with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInstallmentPlanNotFound indicates that an installment plan with the given ID does not exist.
	ErrInstallmentPlanNotFound = errors.New("installment plan not found")

	// ErrRecurringTransactionNotFound indicates that a recurring transaction template does not exist.
	ErrRecurringTransactionNotFound = errors.New("recurring transaction not found")

	// ErrStrategyNotFound indicates that a DCA strategy with the given ID does not exist.
	ErrStrategyNotFound = errors.New("dca strategy not found")

	// ErrStrategyEntryNotFound indicates that a DCA entry with the given ID does not exist.
	ErrStrategyEntryNotFound = errors.New("dca entry not found")

	// ErrExchangeRateNotFound indicates no record for a specific currency pair and date combination.
	ErrExchangeRateNotFound = errors.New("exchange rate for currency/date not found")

	// ErrSettingNotFound indicates a system setting key has not been configured.
	ErrSettingNotFound = errors.New("setting not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidAmount indicates a decimal operation received an unparseable
	// value or a negative truncation scale.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidSchedule indicates an invalid recurrence definition
	// (interval below one, or an unknown recurrence unit).
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrMissingExchangeRate indicates the resolver has no rate for the
	// requested pair. Valuation callers treat this as a null valuation,
	// never as a fatal error.
	ErrMissingExchangeRate = errors.New("no exchange rate available")

	// ErrDivisionUndefined indicates a DCA entry with zero or negative amount
	// received, which would make the entry price undefined. Rejected at
	// creation, never silently coerced.
	ErrDivisionUndefined = errors.New("amount received must be greater than zero")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrSettledImmutable indicates an attempt to modify a generated entry
	// that falls inside the settled window of its plan.
	ErrSettledImmutable = errors.New("settled entry cannot be modified")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// Transaction operation errors
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToCreateTransaction    = errors.New("failed to create transaction")
	ErrFailedToUpdateTransaction    = errors.New("failed to update transaction")
	ErrFailedToDeleteTransaction    = errors.New("failed to delete transaction")

	// Installment plan operation errors
	ErrFailedToRetrievePlans = errors.New("failed to retrieve installment plans")
	ErrFailedToCreatePlan    = errors.New("failed to create installment plan")
	ErrFailedToReconcilePlan = errors.New("failed to reconcile installment plan")
	ErrFailedToDeletePlan    = errors.New("failed to delete installment plan")

	// Recurring transaction operation errors
	ErrFailedToRetrieveTemplates = errors.New("failed to retrieve recurring transactions")
	ErrFailedToCreateTemplate    = errors.New("failed to create recurring transaction")
	ErrFailedToUpdateTemplate    = errors.New("failed to update recurring transaction")
	ErrFailedToGenerateUpcoming  = errors.New("failed to generate upcoming transactions")

	// DCA operation errors
	ErrFailedToRetrieveStrategies = errors.New("failed to retrieve dca strategies")
	ErrFailedToCreateStrategy     = errors.New("failed to create dca strategy")
	ErrFailedToComputeAggregates  = errors.New("failed to compute dca aggregates")

	// Rate operation errors
	ErrFailedToRetrieveExchangeRate = errors.New("failed to retrieve exchange rate")
	ErrFailedToUpdateExchangeRate   = errors.New("failed to update exchange rate")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a generated entry references a plan that doesn't exist).
	ErrDataInconsistency = errors.New("data inconsistency detected")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)
