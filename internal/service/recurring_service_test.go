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

func newTemplateInput(start time.Time) service.NewRecurringTransactionInput {
	return service.NewRecurringTransactionInput{
		AccountID:          testutil.MakeID(),
		Type:               model.TypeExpense,
		Amount:             decimal.RequireFromString("9.99"),
		Description:        "Streaming subscription",
		StartDate:          start,
		RecurrenceUnit:     model.RecurrenceMonth,
		RecurrenceInterval: 1,
	}
}

func entryDates(t *testing.T, svc *service.RecurringService, templateID string) []time.Time {
	t.Helper()
	entries, err := svc.Entries(templateID)
	if err != nil {
		t.Fatalf("Entries() returned unexpected error: %v", err)
	}
	dates := make([]time.Time, len(entries))
	for i, e := range entries {
		dates[i] = e.Date
	}
	return dates
}

// TestRecurringService_Generate tests forward generation up to a horizon.
//
// WHY: Generation is the engine behind recurring templates. It must produce
// exactly the occurrences between the cursor and the horizon, advance the
// cursor, and produce nothing on a re-run with an unchanged cursor.
func TestRecurringService_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("materializes occurrences from start to horizon", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRecurringService(t, db)

		tmpl, err := svc.Create(ctx, "", newTemplateInput(testutil.Date(2025, 1, 10)), testutil.Date(2025, 4, 30))
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}

		dates := entryDates(t, svc, tmpl.ID)
		want := []time.Time{
			testutil.Date(2025, 1, 10),
			testutil.Date(2025, 2, 10),
			testutil.Date(2025, 3, 10),
			testutil.Date(2025, 4, 10),
		}
		if len(dates) != len(want) {
			t.Fatalf("Expected %d entries, got %d", len(want), len(dates))
		}
		for i := range want {
			if !dates[i].Equal(want[i]) {
				t.Errorf("Entry %d: expected %s, got %s", i, want[i].Format("2006-01-02"), dates[i].Format("2006-01-02"))
			}
		}

		if tmpl.LastGeneratedDate == nil || !tmpl.LastGeneratedDate.Equal(testutil.Date(2025, 4, 10)) {
			t.Errorf("Expected cursor at 2025-04-10, got %v", tmpl.LastGeneratedDate)
		}
	})

	t.Run("generation is idempotent for a fixed horizon", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRecurringService(t, db)

		horizon := testutil.Date(2025, 4, 30)
		tmpl, err := svc.Create(ctx, "", newTemplateInput(testutil.Date(2025, 1, 10)), horizon)
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}

		again, err := svc.GenerateUpcoming(ctx, tmpl.ID, horizon)
		if err != nil {
			t.Fatalf("GenerateUpcoming() returned unexpected error: %v", err)
		}

		if len(entryDates(t, svc, tmpl.ID)) != 4 {
			t.Errorf("Re-run created entries; expected 4 total")
		}
		if !again.LastGeneratedDate.Equal(*tmpl.LastGeneratedDate) {
			t.Errorf("Cursor moved on idempotent re-run: %v -> %v", tmpl.LastGeneratedDate, again.LastGeneratedDate)
		}
	})

	t.Run("extending the horizon appends only the missing tail", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRecurringService(t, db)

		tmpl, err := svc.Create(ctx, "", newTemplateInput(testutil.Date(2025, 1, 10)), testutil.Date(2025, 2, 28))
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}

		if _, err := svc.GenerateUpcoming(ctx, tmpl.ID, testutil.Date(2025, 4, 30)); err != nil {
			t.Fatalf("GenerateUpcoming() returned unexpected error: %v", err)
		}

		dates := entryDates(t, svc, tmpl.ID)
		if len(dates) != 4 {
			t.Fatalf("Expected 4 entries after extension, got %d", len(dates))
		}
		for i := 1; i < len(dates); i++ {
			if !dates[i].After(dates[i-1]) {
				t.Errorf("Duplicate or out-of-order dates at %d: %v", i, dates)
			}
		}
	})

	t.Run("steps from the previous occurrence with month-end clamping", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRecurringService(t, db)

		tmpl, err := svc.Create(ctx, "", newTemplateInput(testutil.Date(2025, 1, 31)), testutil.Date(2025, 3, 31))
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}

		dates := entryDates(t, svc, tmpl.ID)
		want := []time.Time{
			testutil.Date(2025, 1, 31),
			testutil.Date(2025, 2, 28),
			testutil.Date(2025, 3, 28),
		}
		if len(dates) != len(want) {
			t.Fatalf("Expected %d entries, got %d", len(want), len(dates))
		}
		for i := range want {
			if !dates[i].Equal(want[i]) {
				t.Errorf("Entry %d: expected %s, got %s", i, want[i].Format("2006-01-02"), dates[i].Format("2006-01-02"))
			}
		}
	})

	t.Run("stops at the template end date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRecurringService(t, db)

		in := newTemplateInput(testutil.Date(2025, 1, 10))
		end := testutil.Date(2025, 2, 28)
		in.EndDate = &end

		tmpl, err := svc.Create(ctx, "", in, testutil.Date(2025, 6, 30))
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}

		if got := len(entryDates(t, svc, tmpl.ID)); got != 2 {
			t.Errorf("Expected 2 entries bounded by end date, got %d", got)
		}
	})

	t.Run("start date past the horizon generates nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRecurringService(t, db)

		tmpl, err := svc.Create(ctx, "", newTemplateInput(testutil.Date(2025, 9, 1)), testutil.Date(2025, 4, 30))
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}

		if got := len(entryDates(t, svc, tmpl.ID)); got != 0 {
			t.Errorf("Expected 0 entries, got %d", got)
		}
		if tmpl.LastGeneratedDate != nil {
			t.Errorf("Expected nil cursor, got %v", tmpl.LastGeneratedDate)
		}
	})

	t.Run("rejects interval below one", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRecurringService(t, db)

		in := newTemplateInput(testutil.Date(2025, 1, 10))
		in.RecurrenceInterval = 0

		if _, err := svc.Create(ctx, "", in, testutil.Date(2025, 4, 30)); err == nil {
			t.Fatal("Expected error for zero interval, got nil")
		}
	})
}

// TestRecurringService_PauseResume tests the pause/resume cycle.
//
// WHY: Pausing freezes the cursor without touching existing entries, and
// resuming must continue exactly from the frozen cursor: no gap, no
// regenerated duplicates.
func TestRecurringService_PauseResume(t *testing.T) {
	ctx := context.Background()

	t.Run("paused template generates nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRecurringService(t, db)

		tmpl, err := svc.Create(ctx, "", newTemplateInput(testutil.Date(2025, 1, 10)), testutil.Date(2025, 2, 28))
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}
		if _, err := svc.SetPaused(ctx, tmpl.ID, true); err != nil {
			t.Fatalf("SetPaused() returned unexpected error: %v", err)
		}

		if _, err := svc.GenerateUpcoming(ctx, tmpl.ID, testutil.Date(2025, 6, 30)); err != nil {
			t.Fatalf("GenerateUpcoming() returned unexpected error: %v", err)
		}

		if got := len(entryDates(t, svc, tmpl.ID)); got != 2 {
			t.Errorf("Expected 2 entries while paused, got %d", got)
		}
	})

	t.Run("resume continues gap-free from the frozen cursor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRecurringService(t, db)

		tmpl, err := svc.Create(ctx, "", newTemplateInput(testutil.Date(2025, 1, 10)), testutil.Date(2025, 2, 28))
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}
		if _, err := svc.SetPaused(ctx, tmpl.ID, true); err != nil {
			t.Fatalf("SetPaused() returned unexpected error: %v", err)
		}
		if _, err := svc.SetPaused(ctx, tmpl.ID, false); err != nil {
			t.Fatalf("SetPaused() returned unexpected error: %v", err)
		}

		resumed, err := svc.GenerateUpcoming(ctx, tmpl.ID, testutil.Date(2025, 5, 31))
		if err != nil {
			t.Fatalf("GenerateUpcoming() returned unexpected error: %v", err)
		}

		dates := entryDates(t, svc, tmpl.ID)
		if len(dates) != 5 {
			t.Fatalf("Expected 5 entries after resume, got %d", len(dates))
		}
		for i := 1; i < len(dates); i++ {
			if !dates[i].Equal(dates[i-1].AddDate(0, 1, 0)) {
				t.Errorf("Gap or duplicate between %s and %s",
					dates[i-1].Format("2006-01-02"), dates[i].Format("2006-01-02"))
			}
		}
		if !resumed.LastGeneratedDate.Equal(testutil.Date(2025, 5, 10)) {
			t.Errorf("Expected cursor at 2025-05-10, got %v", resumed.LastGeneratedDate)
		}
	})
}

// TestRecurringService_Update tests regeneration of unsettled entries after
// a template edit.
//
// WHY: Edits apply forward only. Entries before the settled boundary keep
// their original values; unsettled ones are deleted and regenerated with the
// new field values, and the cursor rewinds so the window stays gap-free.
func TestRecurringService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("regenerates unsettled entries with new values", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRecurringService(t, db)

		tmpl, err := svc.Create(ctx, "", newTemplateInput(testutil.Date(2025, 1, 10)), testutil.Date(2025, 4, 30))
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}

		newAmount := decimal.RequireFromString("12.99")
		_, err = svc.Update(ctx, tmpl.ID, service.UpdateRecurringTransactionInput{
			Amount: &newAmount,
		}, testutil.Date(2025, 3, 1), testutil.Date(2025, 4, 30))
		if err != nil {
			t.Fatalf("Update() returned unexpected error: %v", err)
		}

		entries, err := svc.Entries(tmpl.ID)
		if err != nil {
			t.Fatalf("Entries() returned unexpected error: %v", err)
		}
		if len(entries) != 4 {
			t.Fatalf("Expected 4 entries, got %d", len(entries))
		}
		for _, e := range entries {
			want := "12.99"
			if e.Date.Before(testutil.Date(2025, 3, 1)) {
				want = "9.99"
			}
			if !e.Amount.Equal(decimal.RequireFromString(want)) {
				t.Errorf("Entry %s: expected amount %s, got %s", e.Date.Format("2006-01-02"), want, e.Amount)
			}
		}
	})

	t.Run("preserves soft-deleted occurrences as audit rows", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRecurringService(t, db)
		transactionSvc := testutil.NewTestTransactionService(t, db)

		tmpl, err := svc.Create(ctx, "", newTemplateInput(testutil.Date(2025, 1, 10)), testutil.Date(2025, 4, 30))
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}

		// The user skips the March occurrence.
		entries, err := svc.Entries(tmpl.ID)
		if err != nil {
			t.Fatalf("Entries() returned unexpected error: %v", err)
		}
		var march model.Transaction
		for _, e := range entries {
			if e.Date.Equal(testutil.Date(2025, 3, 10)) {
				march = e
			}
		}
		if march.ID == "" {
			t.Fatal("Expected a March occurrence to exist")
		}
		if err := transactionSvc.SoftDelete(ctx, march.ID); err != nil {
			t.Fatalf("SoftDelete() returned unexpected error: %v", err)
		}

		newAmount := decimal.RequireFromString("12.99")
		updated, err := svc.Update(ctx, tmpl.ID, service.UpdateRecurringTransactionInput{
			Amount: &newAmount,
		}, testutil.Date(2025, 2, 1), testutil.Date(2025, 4, 30))
		if err != nil {
			t.Fatalf("Update() returned unexpected error: %v", err)
		}

		entries, err = svc.Entries(tmpl.ID)
		if err != nil {
			t.Fatalf("Entries() returned unexpected error: %v", err)
		}

		marchRows := 0
		for _, e := range entries {
			if !e.Date.Equal(testutil.Date(2025, 3, 10)) {
				continue
			}
			marchRows++
			if !e.Deleted || e.DeletedAt == nil {
				t.Error("Expected the skipped March occurrence to stay soft-deleted")
			}
			if e.ID != march.ID {
				t.Error("Expected the original March row to survive, not a replacement")
			}
			if !e.Amount.Equal(decimal.RequireFromString("9.99")) {
				t.Errorf("Expected the March audit row to keep amount 9.99, got %s", e.Amount)
			}
		}
		if marchRows != 1 {
			t.Fatalf("Expected exactly 1 March row, got %d", marchRows)
		}

		for _, e := range entries {
			if e.Deleted {
				continue
			}
			want := "12.99"
			if e.Date.Before(testutil.Date(2025, 2, 1)) {
				want = "9.99"
			}
			if !e.Amount.Equal(decimal.RequireFromString(want)) {
				t.Errorf("Entry %s: expected amount %s, got %s", e.Date.Format("2006-01-02"), want, e.Amount)
			}
		}

		if updated.LastGeneratedDate == nil || !updated.LastGeneratedDate.Equal(testutil.Date(2025, 4, 10)) {
			t.Errorf("Expected cursor at 2025-04-10, got %v", updated.LastGeneratedDate)
		}
	})

	t.Run("shortening the end date trims unsettled entries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRecurringService(t, db)

		tmpl, err := svc.Create(ctx, "", newTemplateInput(testutil.Date(2025, 1, 10)), testutil.Date(2025, 5, 31))
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}

		end := testutil.Date(2025, 3, 31)
		_, err = svc.Update(ctx, tmpl.ID, service.UpdateRecurringTransactionInput{
			EndDate: &end,
		}, testutil.Date(2025, 2, 1), testutil.Date(2025, 5, 31))
		if err != nil {
			t.Fatalf("Update() returned unexpected error: %v", err)
		}

		dates := entryDates(t, svc, tmpl.ID)
		if len(dates) != 3 {
			t.Fatalf("Expected 3 entries after end date shortened, got %d", len(dates))
		}
		if !dates[len(dates)-1].Equal(testutil.Date(2025, 3, 10)) {
			t.Errorf("Expected last entry on 2025-03-10, got %s", dates[len(dates)-1].Format("2006-01-02"))
		}
	})
}

// TestRecurringService_Delete tests template deletion.
//
// WHY: A deleted template must take its generated entries with it.
func TestRecurringService_Delete(t *testing.T) {
	t.Run("removes the template and its entries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRecurringService(t, db)

		tmpl, err := svc.Create(context.Background(), "", newTemplateInput(testutil.Date(2025, 1, 10)), testutil.Date(2025, 4, 30))
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}

		if err := svc.Delete(context.Background(), tmpl.ID); err != nil {
			t.Fatalf("Delete() returned unexpected error: %v", err)
		}

		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM "transaction" WHERE recurring_transaction_id = ?`, tmpl.ID).Scan(&count); err != nil {
			t.Fatalf("Count query failed: %v", err)
		}
		if count != 0 {
			t.Errorf("Expected 0 entries after template deletion, got %d", count)
		}
	})
}
