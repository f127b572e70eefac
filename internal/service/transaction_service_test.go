package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fintrack/finance-tracker-backend/internal/apperrors"
	"github.com/fintrack/finance-tracker-backend/internal/model"
	"github.com/fintrack/finance-tracker-backend/internal/service"
	"github.com/fintrack/finance-tracker-backend/internal/testutil"
)

// TestTransactionService_Create tests ledger entry creation.
//
// WHY: The reference month drives budget bucketing downstream; a wrong
// default silently misfiles every manually entered transaction.
func TestTransactionService_Create(t *testing.T) {
	t.Run("reference month defaults to the first of the entry's month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		created, err := svc.Create(context.Background(), "alice", service.NewTransactionInput{
			AccountID:   testutil.MakeID(),
			Type:        model.TypeExpense,
			Description: "Groceries",
			Amount:      decimal.RequireFromString("42.50"),
			Date:        testutil.Date(2025, 3, 17),
		})
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}
		if !created.ReferenceMonth.Equal(testutil.Date(2025, 3, 1)) {
			t.Errorf("Expected reference month 2025-03-01, got %s", created.ReferenceMonth.Format("2006-01-02"))
		}
		if created.Source.Kind != model.SourceUser {
			t.Errorf("Expected user source, got %s", created.Source.Kind)
		}
	})

	t.Run("explicit reference month is truncated to the first of its month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		created, err := svc.Create(context.Background(), "alice", service.NewTransactionInput{
			AccountID:      testutil.MakeID(),
			Type:           model.TypeIncome,
			Description:    "Salary",
			Amount:         decimal.RequireFromString("2500.00"),
			Date:           testutil.Date(2025, 3, 28),
			ReferenceMonth: testutil.Date(2025, 4, 28),
		})
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}
		if !created.ReferenceMonth.Equal(testutil.Date(2025, 4, 1)) {
			t.Errorf("Expected reference month 2025-04-01, got %s", created.ReferenceMonth.Format("2006-01-02"))
		}
	})
}

// TestTransactionService_SettledGuard tests immutability of settled
// installment entries.
//
// WHY: Entries below a plan's cursor reflect money that already moved;
// editing or hard-deleting them would desync the ledger from reality.
func TestTransactionService_SettledGuard(t *testing.T) {
	t.Run("rejects update of an entry below the plan cursor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		accountID := testutil.MakeID()
		plan := testutil.NewInstallmentPlan(accountID).WithCursor(2).Build(t, db)
		entry := testutil.NewTransaction(accountID).
			WithSource(model.InstallmentSource(plan.ID, 0)).
			Build(t, db)

		entry.Description = "Edited"
		_, err := svc.Update(context.Background(), &entry)
		if !errors.Is(err, apperrors.ErrSettledImmutable) {
			t.Errorf("Expected ErrSettledImmutable, got %v", err)
		}
	})

	t.Run("rejects hard delete of a settled entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		accountID := testutil.MakeID()
		plan := testutil.NewInstallmentPlan(accountID).WithCursor(1).Build(t, db)
		entry := testutil.NewTransaction(accountID).
			WithSource(model.InstallmentSource(plan.ID, 0)).
			Build(t, db)

		err := svc.HardDelete(context.Background(), entry.ID)
		if !errors.Is(err, apperrors.ErrSettledImmutable) {
			t.Errorf("Expected ErrSettledImmutable, got %v", err)
		}
	})

	t.Run("allows update of an entry at or above the cursor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		accountID := testutil.MakeID()
		plan := testutil.NewInstallmentPlan(accountID).WithCursor(2).Build(t, db)
		entry := testutil.NewTransaction(accountID).
			WithSource(model.InstallmentSource(plan.ID, 2)).
			Build(t, db)

		entry.Description = "Edited"
		updated, err := svc.Update(context.Background(), &entry)
		if err != nil {
			t.Fatalf("Update() returned unexpected error: %v", err)
		}
		if updated.Description != "Edited" {
			t.Errorf("Expected updated description, got %q", updated.Description)
		}
	})

	t.Run("user entries are never settled", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		entry := testutil.NewTransaction(testutil.MakeID()).Build(t, db)

		entry.Description = "Edited"
		if _, err := svc.Update(context.Background(), &entry); err != nil {
			t.Fatalf("Update() returned unexpected error: %v", err)
		}
	})
}

// TestTransactionService_Delete tests the two delete modes.
//
// WHY: Soft delete must keep the row recoverable and excluded from default
// listings; settled entries may still be soft-deleted (hiding is not
// mutation).
func TestTransactionService_Delete(t *testing.T) {
	t.Run("soft delete hides the entry from default listings", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		entry := testutil.NewTransaction(testutil.MakeID()).Build(t, db)

		if err := svc.SoftDelete(context.Background(), entry.ID); err != nil {
			t.Fatalf("SoftDelete() returned unexpected error: %v", err)
		}

		got, err := svc.Get(entry.ID)
		if err != nil {
			t.Fatalf("Get() returned unexpected error: %v", err)
		}
		if !got.Deleted || got.DeletedAt == nil {
			t.Error("Expected entry to be marked deleted with a timestamp")
		}
	})

	t.Run("soft delete is allowed for settled installment entries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		accountID := testutil.MakeID()
		plan := testutil.NewInstallmentPlan(accountID).WithCursor(3).Build(t, db)
		entry := testutil.NewTransaction(accountID).
			WithSource(model.InstallmentSource(plan.ID, 1)).
			Build(t, db)

		if err := svc.SoftDelete(context.Background(), entry.ID); err != nil {
			t.Fatalf("SoftDelete() returned unexpected error: %v", err)
		}
	})

	t.Run("hard delete removes an unsettled entry permanently", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		entry := testutil.NewTransaction(testutil.MakeID()).Build(t, db)

		if err := svc.HardDelete(context.Background(), entry.ID); err != nil {
			t.Fatalf("HardDelete() returned unexpected error: %v", err)
		}
		if _, err := svc.Get(entry.ID); !errors.Is(err, apperrors.ErrTransactionNotFound) {
			t.Errorf("Expected ErrTransactionNotFound after hard delete, got %v", err)
		}
	})
}
