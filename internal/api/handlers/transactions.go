package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fintrack/finance-tracker-backend/internal/api/request"
	"github.com/fintrack/finance-tracker-backend/internal/api/response"
	"github.com/fintrack/finance-tracker-backend/internal/apperrors"
	"github.com/fintrack/finance-tracker-backend/internal/model"
	"github.com/fintrack/finance-tracker-backend/internal/repository"
	"github.com/fintrack/finance-tracker-backend/internal/service"
	"github.com/fintrack/finance-tracker-backend/internal/validation"
)

// TransactionHandler handles HTTP requests for ledger-entry endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the transactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// ListTransactions handles GET requests to retrieve ledger entries.
// Supports optional filtering by source kind, date range, and deleted status.
//
// Endpoint: GET /api/transaction?source=&from=&to=&includeDeleted=
// Response: 200 OK with array of Transaction
// Error: 400 Bad Request if a filter value is malformed
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	transactions, err := h.transactionService.List(filter)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, transactions)
}

// GetTransaction handles GET requests to retrieve a single ledger entry by ID.
//
// Endpoint: GET /api/transaction/{uuid}
// Response: 200 OK with Transaction
// Error: 400 Bad Request if the ID is invalid (validated by middleware)
// Error: 404 Not Found if the entry does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	transaction, err := h.transactionService.Get(transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransaction.Error(), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, transaction)
}

// CreateTransaction handles POST requests to create a new ledger entry.
// Validates the request body and creates the entry in the database.
//
// Endpoint: POST /api/transaction
// Request Body: CreateTransactionRequest
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	in := service.NewTransactionInput{
		AccountID:   req.AccountID,
		Type:        model.TransactionType(req.Type),
		Description: req.Description,
		Amount:      parseAmount(req.Amount),
		Date:        parseDate(req.Date),
		CategoryID:  req.CategoryID,
		TagIDs:      req.TagIDs,
		EntityIDs:   req.EntityIDs,
		Notes:       req.Notes,
	}
	if req.ReferenceMonth != "" {
		in.ReferenceMonth = parseDate(req.ReferenceMonth)
	}

	transaction, err := h.transactionService.Create(r.Context(), actorFrom(r), in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, transaction)
}

// UpdateTransaction handles PUT requests to update an existing ledger entry.
// Settled installment entries are immutable and rejected with 409 Conflict.
//
// Endpoint: PUT /api/transaction/{uuid}
// Request Body: UpdateTransactionRequest (all fields optional)
// Response: 200 OK with updated Transaction
// Error: 400 Bad Request if the ID is invalid (validated by middleware) or validation fails
// Error: 404 Not Found if the entry does not exist
// Error: 409 Conflict if the entry is settled
// Error: 500 Internal Server Error if update fails
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	transaction, err := h.transactionService.Get(transactionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	applyTransactionEdit(&transaction, req)

	updated, err := h.transactionService.Update(r.Context(), &transaction)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DeleteTransaction handles DELETE requests for a ledger entry.
// Soft-deletes by default; passing ?hard=true removes the row permanently.
//
// Endpoint: DELETE /api/transaction/{uuid}?hard=
// Response: 204 No Content
// Error: 404 Not Found if the entry does not exist
// Error: 409 Conflict if a hard delete targets a settled entry
// Error: 500 Internal Server Error if deletion fails
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	var err error
	if r.URL.Query().Get("hard") == "true" {
		err = h.transactionService.HardDelete(r.Context(), transactionID)
	} else {
		err = h.transactionService.SoftDelete(r.Context(), transactionID)
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// filterFromQuery builds a repository filter from list query parameters.
func filterFromQuery(r *http.Request) (repository.TransactionFilter, error) {
	var filter repository.TransactionFilter
	q := r.URL.Query()

	if source := q.Get("source"); source != "" {
		filter.SourceKind = model.SourceKind(source)
	}
	filter.IncludeDeleted = q.Get("includeDeleted") == "true"

	if from := q.Get("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return repository.TransactionFilter{}, err
		}
		filter.StartDate = &t
	}
	if to := q.Get("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return repository.TransactionFilter{}, err
		}
		filter.EndDate = &t
	}
	return filter, nil
}

// applyTransactionEdit copies the non-nil fields of the edit onto the entry.
func applyTransactionEdit(t *model.Transaction, req request.UpdateTransactionRequest) {
	if req.AccountID != nil {
		t.AccountID = *req.AccountID
	}
	if req.Type != nil {
		t.Type = model.TransactionType(*req.Type)
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Amount != nil {
		t.Amount = parseAmount(*req.Amount)
	}
	if req.Date != nil {
		t.Date = parseDate(*req.Date)
	}
	if req.ReferenceMonth != nil {
		t.ReferenceMonth = parseDate(*req.ReferenceMonth)
	}
	if req.CategoryID != nil {
		t.CategoryID = *req.CategoryID
	}
	if req.TagIDs != nil {
		t.TagIDs = req.TagIDs
	}
	if req.EntityIDs != nil {
		t.EntityIDs = req.EntityIDs
	}
	if req.Notes != nil {
		t.Notes = *req.Notes
	}
}
