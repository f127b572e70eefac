// Package handlers contains the HTTP layer: request parsing, validation
// dispatch, and translation of service errors to status codes.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/finance-tracker-backend/internal/api/response"
	"github.com/fintrack/finance-tracker-backend/internal/apperrors"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode JSON: %v", err)
		}
	}
}

// parseJSON decodes the request body into T, rejecting unknown fields.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	return v, nil
}

// parseDate parses a YYYY-MM-DD string, already format-checked by validation.
func parseDate(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

// parseDatePtr parses an optional date field to a pointer.
func parseDatePtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t := parseDate(*s)
	return &t
}

// parseAmount parses a decimal string, already format-checked by validation.
func parseAmount(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// parseAmountPtr parses an optional amount field to a pointer.
func parseAmountPtr(s *string) *decimal.Decimal {
	if s == nil {
		return nil
	}
	d := parseAmount(*s)
	return &d
}

// actorFrom extracts the acting user from the request. Empty when the
// deployment runs without user identification.
func actorFrom(r *http.Request) string {
	return r.Header.Get("X-User")
}

// startOfToday is the settled-history boundary used by reconciliation:
// entries dated before it are treated as settled and left untouched.
func startOfToday() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// respondServiceError maps well-known service errors to HTTP status codes,
// falling back to 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrTransactionNotFound),
		errors.Is(err, apperrors.ErrInstallmentPlanNotFound),
		errors.Is(err, apperrors.ErrRecurringTransactionNotFound),
		errors.Is(err, apperrors.ErrStrategyNotFound),
		errors.Is(err, apperrors.ErrStrategyEntryNotFound),
		errors.Is(err, apperrors.ErrExchangeRateNotFound),
		errors.Is(err, apperrors.ErrSettingNotFound):
		response.RespondError(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrInvalidSchedule),
		errors.Is(err, apperrors.ErrDivisionUndefined):
		response.RespondError(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, apperrors.ErrSettledImmutable):
		response.RespondError(w, http.StatusConflict, err.Error(), "")
	default:
		response.RespondError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}
