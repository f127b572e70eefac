package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fintrack/finance-tracker-backend/internal/model"
	"github.com/fintrack/finance-tracker-backend/internal/testutil"
)

// withUUIDParam attaches a chi route context carrying the uuid URL parameter.
func withUUIDParam(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("uuid", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestTransactionHandler_ListTransactions(t *testing.T) {
	setupHandler := func(t *testing.T) (*TransactionHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		ts := testutil.NewTestTransactionService(t, db)
		return NewTransactionHandler(ts), db
	}

	t.Run("returns empty array when no transactions exist", func(t *testing.T) {
		handler, _ := setupHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/transaction", nil)
		w := httptest.NewRecorder()

		handler.ListTransactions(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 0 {
			t.Errorf("Expected empty array, got %d transactions", len(response))
		}
	})

	t.Run("returns all transactions successfully", func(t *testing.T) {
		handler, db := setupHandler(t)

		accountID := testutil.MakeID()
		testutil.NewTransaction(accountID).Build(t, db)
		testutil.NewTransaction(accountID).Build(t, db)

		req := httptest.NewRequest(http.MethodGet, "/api/transaction", nil)
		w := httptest.NewRecorder()

		handler.ListTransactions(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 2 {
			t.Errorf("Expected 2 transactions, got %d", len(response))
		}
	})

	t.Run("filters by source kind", func(t *testing.T) {
		handler, db := setupHandler(t)

		accountID := testutil.MakeID()
		plan := testutil.NewInstallmentPlan(accountID).Build(t, db)
		testutil.NewTransaction(accountID).Build(t, db)
		testutil.NewTransaction(accountID).
			WithSource(model.InstallmentSource(plan.ID, 0)).
			Build(t, db)

		req := httptest.NewRequest(http.MethodGet, "/api/transaction?source=installment", nil)
		w := httptest.NewRecorder()

		handler.ListTransactions(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 1 {
			t.Fatalf("Expected 1 installment transaction, got %d", len(response))
		}
		if response[0].Source.Kind != model.SourceInstallment {
			t.Errorf("Expected installment source, got %s", response[0].Source.Kind)
		}
	})

	t.Run("rejects malformed date filter", func(t *testing.T) {
		handler, _ := setupHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/transaction?from=13-2025-01", nil)
		w := httptest.NewRecorder()

		handler.ListTransactions(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	setupHandler := func(t *testing.T) (*TransactionHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		ts := testutil.NewTestTransactionService(t, db)
		return NewTransactionHandler(ts), db
	}

	t.Run("creates a transaction successfully", func(t *testing.T) {
		handler, _ := setupHandler(t)

		body := `{
			"accountId": "` + testutil.MakeID() + `",
			"type": "expense",
			"description": "Groceries",
			"amount": "42.50",
			"date": "2025-03-17"
		}`

		req := httptest.NewRequest(http.MethodPost, "/api/transaction", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Description != "Groceries" {
			t.Errorf("Expected description 'Groceries', got '%s'", response.Description)
		}
		if !response.Amount.Equal(decimal.RequireFromString("42.50")) {
			t.Errorf("Expected amount 42.50, got %s", response.Amount)
		}
		if response.Source.Kind != model.SourceUser {
			t.Errorf("Expected user source, got %s", response.Source.Kind)
		}
	})

	t.Run("rejects invalid transaction type", func(t *testing.T) {
		handler, _ := setupHandler(t)

		body := `{
			"accountId": "` + testutil.MakeID() + `",
			"type": "transfer",
			"description": "Groceries",
			"amount": "42.50",
			"date": "2025-03-17"
		}`

		req := httptest.NewRequest(http.MethodPost, "/api/transaction", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects unknown fields in the body", func(t *testing.T) {
		handler, _ := setupHandler(t)

		body := `{"accountId": "` + testutil.MakeID() + `", "bogus": true}`

		req := httptest.NewRequest(http.MethodPost, "/api/transaction", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	setupHandler := func(t *testing.T) (*TransactionHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		ts := testutil.NewTestTransactionService(t, db)
		return NewTransactionHandler(ts), db
	}

	t.Run("returns an existing transaction", func(t *testing.T) {
		handler, db := setupHandler(t)

		entry := testutil.NewTransaction(testutil.MakeID()).Build(t, db)

		req := withUUIDParam(httptest.NewRequest(http.MethodGet, "/api/transaction/"+entry.ID, nil), entry.ID)
		w := httptest.NewRecorder()

		handler.GetTransaction(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.ID != entry.ID {
			t.Errorf("Expected transaction %s, got %s", entry.ID, response.ID)
		}
	})

	t.Run("returns 404 for a missing transaction", func(t *testing.T) {
		handler, _ := setupHandler(t)

		id := testutil.MakeID()
		req := withUUIDParam(httptest.NewRequest(http.MethodGet, "/api/transaction/"+id, nil), id)
		w := httptest.NewRecorder()

		handler.GetTransaction(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	setupHandler := func(t *testing.T) (*TransactionHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		ts := testutil.NewTestTransactionService(t, db)
		return NewTransactionHandler(ts), db
	}

	t.Run("soft deletes by default", func(t *testing.T) {
		handler, db := setupHandler(t)

		entry := testutil.NewTransaction(testutil.MakeID()).Build(t, db)

		req := withUUIDParam(httptest.NewRequest(http.MethodDelete, "/api/transaction/"+entry.ID, nil), entry.ID)
		w := httptest.NewRecorder()

		handler.DeleteTransaction(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d: %s", w.Code, w.Body.String())
		}

		var deleted bool
		if err := db.QueryRow(`SELECT deleted FROM "transaction" WHERE id = ?`, entry.ID).Scan(&deleted); err != nil {
			t.Fatalf("Row lookup failed: %v", err)
		}
		if !deleted {
			t.Error("Expected the row to be soft-deleted, not removed")
		}
	})

	t.Run("hard delete of a settled entry returns 409", func(t *testing.T) {
		handler, db := setupHandler(t)

		accountID := testutil.MakeID()
		plan := testutil.NewInstallmentPlan(accountID).WithCursor(2).Build(t, db)
		entry := testutil.NewTransaction(accountID).
			WithSource(model.InstallmentSource(plan.ID, 0)).
			Build(t, db)

		req := withUUIDParam(httptest.NewRequest(http.MethodDelete, "/api/transaction/"+entry.ID+"?hard=true", nil), entry.ID)
		w := httptest.NewRecorder()

		handler.DeleteTransaction(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})
}
