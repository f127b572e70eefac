package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fintrack/finance-tracker-backend/internal/repository"
	"github.com/fintrack/finance-tracker-backend/internal/service"
)

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db)
}

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	transactionRepo := repository.NewTransactionRepository(db)
	installmentRepo := repository.NewInstallmentRepository(db)

	return service.NewTransactionService(
		db,
		transactionRepo,
		installmentRepo,
	)
}

func NewTestInstallmentService(t *testing.T, db *sql.DB) *service.InstallmentService {
	t.Helper()

	installmentRepo := repository.NewInstallmentRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	return service.NewInstallmentService(
		db,
		installmentRepo,
		transactionRepo,
	)
}

func NewTestRecurringService(t *testing.T, db *sql.DB) *service.RecurringService {
	t.Helper()

	recurringRepo := repository.NewRecurringRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	return service.NewRecurringService(
		db,
		recurringRepo,
		transactionRepo,
	)
}

func NewTestRateService(t *testing.T, db *sql.DB) *service.RateService {
	t.Helper()

	rateRepo := repository.NewRateRepository(db)

	return service.NewRateService(rateRepo)
}

func NewTestDCAService(t *testing.T, db *sql.DB) *service.DCAService {
	t.Helper()

	dcaRepo := repository.NewDCARepository(db)

	return service.NewDCAService(db, dcaRepo, NewTestRateService(t, db))
}

// MakeID generates a UUID string for test fixtures.
func MakeID() string {
	return uuid.New().String()
}

// Date builds a UTC date at midnight, the canonical form for ledger dates.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
