package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/finance-tracker-backend/internal/model"
	"github.com/fintrack/finance-tracker-backend/internal/service"
	"github.com/fintrack/finance-tracker-backend/internal/testutil"
)

func newPlanInput(start time.Time, count int) service.NewInstallmentPlanInput {
	return service.NewInstallmentPlanInput{
		AccountID:            testutil.MakeID(),
		Type:                 model.TypeExpense,
		Description:          "Laptop",
		InstallmentAmount:    decimal.RequireFromString("50.00"),
		NumberOfInstallments: count,
		StartDate:            start,
		RecurrenceUnit:       model.RecurrenceMonth,
	}
}

// TestInstallmentService_Create tests plan creation and full entry
// materialization.
//
// WHY: A plan and its complete entry set must appear atomically, with each
// entry's date derived as an offset from the start date so month-end starts
// keep their day-of-month wherever the target month allows it.
func TestInstallmentService_Create(t *testing.T) {
	t.Run("materializes all entries with sequential indices", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInstallmentService(t, db)

		plan, err := svc.Create(context.Background(), "", newPlanInput(testutil.Date(2025, 1, 15), 6))
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}

		entries, err := svc.Entries(plan.ID)
		if err != nil {
			t.Fatalf("Entries() returned unexpected error: %v", err)
		}
		if len(entries) != 6 {
			t.Fatalf("Expected 6 entries, got %d", len(entries))
		}

		for i, entry := range entries {
			if entry.Source.Kind != model.SourceInstallment {
				t.Errorf("Entry %d: expected installment source, got %s", i, entry.Source.Kind)
			}
			if entry.Source.InstallmentIndex != i {
				t.Errorf("Entry %d: expected index %d, got %d", i, i, entry.Source.InstallmentIndex)
			}
			if !entry.Amount.Equal(decimal.RequireFromString("50.00")) {
				t.Errorf("Entry %d: expected amount 50.00, got %s", i, entry.Amount)
			}
		}

		if entries[0].Description != "Laptop (1/6)" {
			t.Errorf("Expected description 'Laptop (1/6)', got %q", entries[0].Description)
		}
		if entries[5].Description != "Laptop (6/6)" {
			t.Errorf("Expected description 'Laptop (6/6)', got %q", entries[5].Description)
		}
	})

	t.Run("clamps month-end dates without losing the start day", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInstallmentService(t, db)

		plan, err := svc.Create(context.Background(), "", newPlanInput(testutil.Date(2025, 1, 31), 3))
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}

		entries, err := svc.Entries(plan.ID)
		if err != nil {
			t.Fatalf("Entries() returned unexpected error: %v", err)
		}

		want := []time.Time{
			testutil.Date(2025, 1, 31),
			testutil.Date(2025, 2, 28),
			testutil.Date(2025, 3, 31),
		}
		for i, entry := range entries {
			if !entry.Date.Equal(want[i]) {
				t.Errorf("Entry %d: expected date %s, got %s", i, want[i].Format("2006-01-02"), entry.Date.Format("2006-01-02"))
			}
		}

		if !plan.EndDate.Equal(testutil.Date(2025, 3, 31)) {
			t.Errorf("Expected end date 2025-03-31, got %s", plan.EndDate.Format("2006-01-02"))
		}
	})

	t.Run("derives reference month from each entry date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInstallmentService(t, db)

		plan, err := svc.Create(context.Background(), "", newPlanInput(testutil.Date(2025, 1, 15), 3))
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}

		entries, err := svc.Entries(plan.ID)
		if err != nil {
			t.Fatalf("Entries() returned unexpected error: %v", err)
		}
		if !entries[1].ReferenceMonth.Equal(testutil.Date(2025, 2, 1)) {
			t.Errorf("Expected reference month 2025-02-01, got %s", entries[1].ReferenceMonth.Format("2006-01-02"))
		}
	})

	t.Run("rejects zero installments", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInstallmentService(t, db)

		_, err := svc.Create(context.Background(), "", newPlanInput(testutil.Date(2025, 1, 15), 0))
		if err == nil {
			t.Fatal("Expected error for zero installments, got nil")
		}
	})
}

// TestInstallmentService_Update tests reconciliation of an edited plan
// against its materialized entries.
//
// WHY: Edits must never touch settled history. Entries dated before the
// settled boundary keep their original values; everything at or past the
// cursor is rewritten from the plan's new fields, including count changes.
func TestInstallmentService_Update(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*service.InstallmentService, *model.InstallmentPlan) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInstallmentService(t, db)
		plan, err := svc.Create(ctx, "", newPlanInput(testutil.Date(2025, 1, 15), 6))
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}
		return svc, plan
	}

	t.Run("rewrites only unsettled entries on amount change", func(t *testing.T) {
		svc, plan := setup(t)

		// Jan and Feb entries are settled; the cursor lands at index 2.
		newAmount := decimal.RequireFromString("75.00")
		updated, err := svc.Update(ctx, plan.ID, service.UpdateInstallmentPlanInput{
			InstallmentAmount: &newAmount,
		}, testutil.Date(2025, 3, 1))
		if err != nil {
			t.Fatalf("Update() returned unexpected error: %v", err)
		}

		if updated.InstallmentCursor != 2 {
			t.Errorf("Expected cursor 2, got %d", updated.InstallmentCursor)
		}

		entries, err := svc.Entries(plan.ID)
		if err != nil {
			t.Fatalf("Entries() returned unexpected error: %v", err)
		}
		for i, entry := range entries {
			want := "75.00"
			if i < 2 {
				want = "50.00"
			}
			if !entry.Amount.Equal(decimal.RequireFromString(want)) {
				t.Errorf("Entry %d: expected amount %s, got %s", i, want, entry.Amount)
			}
		}
	})

	t.Run("shrinking the count deletes trailing unsettled entries", func(t *testing.T) {
		svc, plan := setup(t)

		count := 3
		_, err := svc.Update(ctx, plan.ID, service.UpdateInstallmentPlanInput{
			NumberOfInstallments: &count,
		}, testutil.Date(2025, 3, 1))
		if err != nil {
			t.Fatalf("Update() returned unexpected error: %v", err)
		}

		entries, err := svc.Entries(plan.ID)
		if err != nil {
			t.Fatalf("Entries() returned unexpected error: %v", err)
		}
		if len(entries) != 3 {
			t.Errorf("Expected 3 entries after shrink, got %d", len(entries))
		}
	})

	t.Run("shrinking below the cursor keeps settled entries", func(t *testing.T) {
		svc, plan := setup(t)

		// Three settled entries, count dropped to one: the settled three
		// survive because they are history, not a target state.
		count := 1
		_, err := svc.Update(ctx, plan.ID, service.UpdateInstallmentPlanInput{
			NumberOfInstallments: &count,
		}, testutil.Date(2025, 4, 1))
		if err != nil {
			t.Fatalf("Update() returned unexpected error: %v", err)
		}

		entries, err := svc.Entries(plan.ID)
		if err != nil {
			t.Fatalf("Entries() returned unexpected error: %v", err)
		}
		if len(entries) != 3 {
			t.Errorf("Expected 3 settled entries to survive, got %d", len(entries))
		}
	})

	t.Run("growing the count appends trailing entries", func(t *testing.T) {
		svc, plan := setup(t)

		count := 8
		updated, err := svc.Update(ctx, plan.ID, service.UpdateInstallmentPlanInput{
			NumberOfInstallments: &count,
		}, testutil.Date(2025, 3, 1))
		if err != nil {
			t.Fatalf("Update() returned unexpected error: %v", err)
		}

		entries, err := svc.Entries(plan.ID)
		if err != nil {
			t.Fatalf("Entries() returned unexpected error: %v", err)
		}
		if len(entries) != 8 {
			t.Fatalf("Expected 8 entries after grow, got %d", len(entries))
		}
		if !entries[7].Date.Equal(testutil.Date(2025, 8, 15)) {
			t.Errorf("Expected last entry on 2025-08-15, got %s", entries[7].Date.Format("2006-01-02"))
		}
		if !updated.EndDate.Equal(testutil.Date(2025, 8, 15)) {
			t.Errorf("Expected end date 2025-08-15, got %s", updated.EndDate.Format("2006-01-02"))
		}
	})

	t.Run("reconciliation is idempotent", func(t *testing.T) {
		svc, plan := setup(t)

		newAmount := decimal.RequireFromString("75.00")
		in := service.UpdateInstallmentPlanInput{InstallmentAmount: &newAmount}
		boundary := testutil.Date(2025, 3, 1)

		first, err := svc.Update(ctx, plan.ID, in, boundary)
		if err != nil {
			t.Fatalf("Update() returned unexpected error: %v", err)
		}
		second, err := svc.Update(ctx, plan.ID, service.UpdateInstallmentPlanInput{}, boundary)
		if err != nil {
			t.Fatalf("Second Update() returned unexpected error: %v", err)
		}

		if first.InstallmentCursor != second.InstallmentCursor {
			t.Errorf("Cursor moved on no-op reconcile: %d -> %d", first.InstallmentCursor, second.InstallmentCursor)
		}

		entries, err := svc.Entries(plan.ID)
		if err != nil {
			t.Fatalf("Entries() returned unexpected error: %v", err)
		}
		if len(entries) != 6 {
			t.Errorf("Expected 6 entries, got %d", len(entries))
		}
	})

	t.Run("cursor never regresses", func(t *testing.T) {
		svc, plan := setup(t)

		// First reconcile settles three entries.
		if _, err := svc.Update(ctx, plan.ID, service.UpdateInstallmentPlanInput{}, testutil.Date(2025, 4, 1)); err != nil {
			t.Fatalf("Update() returned unexpected error: %v", err)
		}

		// A later reconcile with an earlier boundary must not rewind.
		updated, err := svc.Update(ctx, plan.ID, service.UpdateInstallmentPlanInput{}, testutil.Date(2025, 2, 1))
		if err != nil {
			t.Fatalf("Update() returned unexpected error: %v", err)
		}
		if updated.InstallmentCursor != 3 {
			t.Errorf("Expected cursor to stay at 3, got %d", updated.InstallmentCursor)
		}
	})
}

// TestInstallmentService_Delete tests plan deletion.
//
// WHY: Deleting a plan must remove its generated entries with it; orphaned
// generated entries would corrupt historical reporting.
func TestInstallmentService_Delete(t *testing.T) {
	t.Run("removes the plan and its entries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInstallmentService(t, db)

		plan, err := svc.Create(context.Background(), "", newPlanInput(testutil.Date(2025, 1, 15), 4))
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}

		if err := svc.Delete(context.Background(), plan.ID); err != nil {
			t.Fatalf("Delete() returned unexpected error: %v", err)
		}

		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM "transaction" WHERE installment_plan_id = ?`, plan.ID).Scan(&count); err != nil {
			t.Fatalf("Count query failed: %v", err)
		}
		if count != 0 {
			t.Errorf("Expected 0 entries after plan deletion, got %d", count)
		}
	})
}
