package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/finance-tracker-backend/internal/api/request"
	"github.com/fintrack/finance-tracker-backend/internal/api/response"
	"github.com/fintrack/finance-tracker-backend/internal/apperrors"
	"github.com/fintrack/finance-tracker-backend/internal/service"
	"github.com/fintrack/finance-tracker-backend/internal/validation"
)

// RateHandler handles HTTP requests for exchange rate endpoints.
type RateHandler struct {
	rateService    *service.RateService
	settingService *service.SettingService
}

// NewRateHandler creates a new RateHandler with the provided service dependencies.
func NewRateHandler(rateService *service.RateService, settingService *service.SettingService) *RateHandler {
	return &RateHandler{
		rateService:    rateService,
		settingService: settingService,
	}
}

// RateResponse is the resolved-rate payload.
type RateResponse struct {
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	Rate         decimal.Decimal `json:"rate"`
	AsOf         time.Time       `json:"asOf"`
}

// ResolveRate handles GET requests to resolve the rate for a pair, at an
// optional date (defaults to now). Resolution picks the most recent stored
// rate at or before that date.
//
// Endpoint: GET /api/exchange-rate?from=&to=&date=
// Response: 200 OK with RateResponse
// Error: 400 Bad Request if from/to are missing or the date is malformed
// Error: 404 Not Found if no rate is stored for the pair at that date
func (h *RateHandler) ResolveRate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from == "" || to == "" {
		response.RespondError(w, http.StatusBadRequest, "from and to are required", "")
		return
	}

	var (
		rate decimal.Decimal
		asOf time.Time
		err  error
	)
	if date := q.Get("date"); date != "" {
		at, parseErr := time.Parse("2006-01-02", date)
		if parseErr != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid date", parseErr.Error())
			return
		}
		rate, asOf, err = h.rateService.RateAt(from, to, at)
	} else {
		rate, asOf, err = h.rateService.Latest(from, to)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrMissingExchangeRate) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrMissingExchangeRate.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveExchangeRate.Error(), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, RateResponse{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         rate,
		AsOf:         asOf,
	})
}

// SetRate handles PUT requests to store a rate for a pair and date, replacing
// any existing value.
//
// Endpoint: PUT /api/exchange-rate
// Request Body: SetExchangeRateRequest
// Response: 200 OK with ExchangeRate
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if the upsert fails
func (h *RateHandler) SetRate(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SetExchangeRateRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSetExchangeRate(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	rate, err := h.rateService.SetRate(req.FromCurrency, req.ToCurrency, parseAmount(req.Rate), parseDate(req.Date))
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdateExchangeRate.Error(), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, rate)
}

// SetProviderToken handles PUT requests to store the external rate provider's
// API token. The token is encrypted at rest.
//
// Endpoint: PUT /api/exchange-rate/provider-token
// Request Body: SetProviderTokenRequest
// Response: 204 No Content
// Error: 400 Bad Request if the token is missing
// Error: 500 Internal Server Error if encryption or storage fails
func (h *RateHandler) SetProviderToken(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SetProviderTokenRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSetProviderToken(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if err := h.settingService.SetSecret(service.RateProviderTokenKey, req.Token); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to store provider token", err.Error())
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
