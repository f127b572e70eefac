package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fintrack/finance-tracker-backend/internal/api/request"
	"github.com/fintrack/finance-tracker-backend/internal/api/response"
	"github.com/fintrack/finance-tracker-backend/internal/apperrors"
	"github.com/fintrack/finance-tracker-backend/internal/service"
	"github.com/fintrack/finance-tracker-backend/internal/validation"
)

// DCAHandler handles HTTP requests for DCA strategy endpoints.
type DCAHandler struct {
	dcaService *service.DCAService
}

// NewDCAHandler creates a new DCAHandler with the provided service dependency.
func NewDCAHandler(dcaService *service.DCAService) *DCAHandler {
	return &DCAHandler{
		dcaService: dcaService,
	}
}

// ListStrategies handles GET requests to retrieve all strategies.
//
// Endpoint: GET /api/dca-strategy
// Response: 200 OK with array of DCAStrategy
// Error: 500 Internal Server Error if retrieval fails
func (h *DCAHandler) ListStrategies(w http.ResponseWriter, _ *http.Request) {
	strategies, err := h.dcaService.ListStrategies()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveStrategies.Error(), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, strategies)
}

// GetStrategy handles GET requests to retrieve a single strategy by ID.
//
// Endpoint: GET /api/dca-strategy/{uuid}
// Response: 200 OK with DCAStrategy
// Error: 400 Bad Request if the ID is invalid (validated by middleware)
// Error: 404 Not Found if the strategy does not exist
func (h *DCAHandler) GetStrategy(w http.ResponseWriter, r *http.Request) {
	strategyID := chi.URLParam(r, "uuid")

	strategy, err := h.dcaService.GetStrategy(strategyID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, strategy)
}

// CreateStrategy handles POST requests to create a strategy.
//
// Endpoint: POST /api/dca-strategy
// Request Body: CreateDCAStrategyRequest
// Response: 201 Created with DCAStrategy
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *DCAHandler) CreateStrategy(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateDCAStrategyRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateDCAStrategy(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	strategy, err := h.dcaService.CreateStrategy(actorFrom(r), service.NewDCAStrategyInput{
		Name:            req.Name,
		TargetCurrency:  req.TargetCurrency,
		PaymentCurrency: req.PaymentCurrency,
		Notes:           req.Notes,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, strategy)
}

// UpdateStrategy handles PUT requests to edit a strategy.
//
// Endpoint: PUT /api/dca-strategy/{uuid}
// Request Body: UpdateDCAStrategyRequest (all fields optional)
// Response: 200 OK with updated DCAStrategy
// Error: 400 Bad Request if the ID is invalid (validated by middleware) or validation fails
// Error: 404 Not Found if the strategy does not exist
func (h *DCAHandler) UpdateStrategy(w http.ResponseWriter, r *http.Request) {
	strategyID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateDCAStrategyRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateDCAStrategy(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	strategy, err := h.dcaService.UpdateStrategy(strategyID, service.UpdateDCAStrategyInput{
		Name:            req.Name,
		TargetCurrency:  req.TargetCurrency,
		PaymentCurrency: req.PaymentCurrency,
		Notes:           req.Notes,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, strategy)
}

// DeleteStrategy handles DELETE requests for a strategy. Its entries are
// removed with it.
//
// Endpoint: DELETE /api/dca-strategy/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if the strategy does not exist
func (h *DCAHandler) DeleteStrategy(w http.ResponseWriter, r *http.Request) {
	strategyID := chi.URLParam(r, "uuid")

	if err := h.dcaService.DeleteStrategy(strategyID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// CreateEntry handles POST requests to record a purchase inside a strategy.
//
// Endpoint: POST /api/dca-strategy/{uuid}/entry
// Request Body: CreateDCAEntryRequest
// Response: 201 Created with DCAEntry
// Error: 400 Bad Request if validation fails or amountReceived is not positive
// Error: 404 Not Found if the strategy does not exist
func (h *DCAHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	strategyID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.CreateDCAEntryRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateDCAEntry(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	entry, err := h.dcaService.CreateEntry(strategyID, service.NewDCAEntryInput{
		Date:           parseDate(req.Date),
		AmountPaid:     parseAmount(req.AmountPaid),
		AmountReceived: parseAmount(req.AmountReceived),
		Notes:          req.Notes,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, entry)
}

// UpdateEntry handles PUT requests to edit an entry.
//
// Endpoint: PUT /api/dca-strategy/{uuid}/entry/{entryUuid}
// Request Body: UpdateDCAEntryRequest (all fields optional)
// Response: 200 OK with updated DCAEntry
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the strategy or entry does not exist
func (h *DCAHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	strategyID := chi.URLParam(r, "uuid")
	entryID := chi.URLParam(r, "entryUuid")

	if err := validation.ValidateUUID(entryID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid UUID format", err.Error())
		return
	}

	req, err := parseJSON[request.UpdateDCAEntryRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateDCAEntry(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	entry, err := h.dcaService.UpdateEntry(strategyID, entryID, service.UpdateDCAEntryInput{
		Date:           parseDatePtr(req.Date),
		AmountPaid:     parseAmountPtr(req.AmountPaid),
		AmountReceived: parseAmountPtr(req.AmountReceived),
		Notes:          req.Notes,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

// DeleteEntry handles DELETE requests for an entry.
//
// Endpoint: DELETE /api/dca-strategy/{uuid}/entry/{entryUuid}
// Response: 204 No Content
// Error: 404 Not Found if the entry does not exist
func (h *DCAHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryUuid")

	if err := validation.ValidateUUID(entryID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid UUID format", err.Error())
		return
	}

	if err := h.dcaService.DeleteEntry(entryID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Aggregates handles GET requests for a strategy's valuation summary.
// Market-dependent fields are null when no exchange rate is stored.
//
// Endpoint: GET /api/dca-strategy/{uuid}/aggregates
// Response: 200 OK with DCAAggregates
// Error: 404 Not Found if the strategy does not exist
// Error: 500 Internal Server Error if aggregation fails
func (h *DCAHandler) Aggregates(w http.ResponseWriter, r *http.Request) {
	strategyID := chi.URLParam(r, "uuid")

	aggregates, err := h.dcaService.Aggregates(strategyID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, aggregates)
}

// InvestmentFrequency handles GET requests for a strategy's per-month entry
// count and paid totals.
//
// Endpoint: GET /api/dca-strategy/{uuid}/frequency
// Response: 200 OK with array of FrequencyPoint
// Error: 404 Not Found if the strategy does not exist
func (h *DCAHandler) InvestmentFrequency(w http.ResponseWriter, r *http.Request) {
	strategyID := chi.URLParam(r, "uuid")

	points, err := h.dcaService.InvestmentFrequency(strategyID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, points)
}

// PriceComparison handles GET requests pairing each entry's price against the
// market rate at the entry's date.
//
// Endpoint: GET /api/dca-strategy/{uuid}/price-comparison
// Response: 200 OK with array of PricePoint
// Error: 404 Not Found if the strategy does not exist
func (h *DCAHandler) PriceComparison(w http.ResponseWriter, r *http.Request) {
	strategyID := chi.URLParam(r, "uuid")

	points, err := h.dcaService.PriceComparison(strategyID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, points)
}

// CurrentPriceResponse is the current-price payload. Price and asOf are null
// together when no rate is stored for the pair.
type CurrentPriceResponse struct {
	Price *decimal.Decimal `json:"price"`
	AsOf  *time.Time       `json:"asOf"`
}

// CurrentPrice handles GET requests for the latest market price of a
// strategy's pair.
//
// Endpoint: GET /api/dca-strategy/{uuid}/current-price
// Response: 200 OK with CurrentPriceResponse
// Error: 404 Not Found if the strategy does not exist
func (h *DCAHandler) CurrentPrice(w http.ResponseWriter, r *http.Request) {
	strategyID := chi.URLParam(r, "uuid")

	price, asOf, err := h.dcaService.CurrentPrice(strategyID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CurrentPriceResponse{Price: price, AsOf: asOf})
}
