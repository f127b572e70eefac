package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fintrack/finance-tracker-backend/internal/api/request"
	"github.com/fintrack/finance-tracker-backend/internal/api/response"
	"github.com/fintrack/finance-tracker-backend/internal/apperrors"
	"github.com/fintrack/finance-tracker-backend/internal/model"
	"github.com/fintrack/finance-tracker-backend/internal/service"
	"github.com/fintrack/finance-tracker-backend/internal/validation"
)

// RecurringHandler handles HTTP requests for recurring transaction template
// endpoints. The sweep service provides the generation horizon; every write
// that can change a template's future entries triggers generation to that
// horizon.
type RecurringHandler struct {
	recurringService *service.RecurringService
	sweepService     *service.SweepService
}

// NewRecurringHandler creates a new RecurringHandler with the provided service dependencies.
func NewRecurringHandler(recurringService *service.RecurringService, sweepService *service.SweepService) *RecurringHandler {
	return &RecurringHandler{
		recurringService: recurringService,
		sweepService:     sweepService,
	}
}

// ListTemplates handles GET requests to retrieve recurring templates.
// Passing ?active=true excludes paused templates.
//
// Endpoint: GET /api/recurring-transaction?active=
// Response: 200 OK with array of RecurringTransaction
// Error: 500 Internal Server Error if retrieval fails
func (h *RecurringHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	templates, err := h.recurringService.List(activeOnly)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTemplates.Error(), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, templates)
}

// GetTemplate handles GET requests to retrieve a single template by ID.
//
// Endpoint: GET /api/recurring-transaction/{uuid}
// Response: 200 OK with RecurringTransaction
// Error: 400 Bad Request if the ID is invalid (validated by middleware)
// Error: 404 Not Found if the template does not exist
func (h *RecurringHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "uuid")

	template, err := h.recurringService.Get(templateID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, template)
}

// GetTemplateEntries handles GET requests to retrieve a template's generated
// entries ordered by date.
//
// Endpoint: GET /api/recurring-transaction/{uuid}/entries
// Response: 200 OK with array of Transaction
// Error: 404 Not Found if the template does not exist
func (h *RecurringHandler) GetTemplateEntries(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "uuid")

	if _, err := h.recurringService.Get(templateID); err != nil {
		respondServiceError(w, err)
		return
	}
	entries, err := h.recurringService.Entries(templateID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

// CreateTemplate handles POST requests to create a recurring template.
// Entries up to the generation horizon are materialized atomically with the
// template itself.
//
// Endpoint: POST /api/recurring-transaction
// Request Body: CreateRecurringTransactionRequest
// Response: 201 Created with RecurringTransaction
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *RecurringHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateRecurringTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateRecurringTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	in := service.NewRecurringTransactionInput{
		AccountID:          req.AccountID,
		Type:               model.TransactionType(req.Type),
		Amount:             parseAmount(req.Amount),
		Description:        req.Description,
		CategoryID:         req.CategoryID,
		TagIDs:             req.TagIDs,
		EntityIDs:          req.EntityIDs,
		Notes:              req.Notes,
		StartDate:          parseDate(req.StartDate),
		EndDate:            parseDatePtr(req.EndDate),
		RecurrenceUnit:     model.RecurrenceUnit(req.RecurrenceUnit),
		RecurrenceInterval: req.RecurrenceInterval,
	}
	if req.ReferenceDate != nil {
		in.ReferenceDate = parseDate(*req.ReferenceDate)
	}

	template, err := h.recurringService.Create(r.Context(), actorFrom(r), in, h.sweepService.Horizon())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, template)
}

// UpdateTemplate handles PUT requests to edit a recurring template.
// Unsettled generated entries are regenerated from the new field values;
// settled entries are untouched.
//
// Endpoint: PUT /api/recurring-transaction/{uuid}
// Request Body: UpdateRecurringTransactionRequest (all fields optional)
// Response: 200 OK with updated RecurringTransaction
// Error: 400 Bad Request if the ID is invalid (validated by middleware) or validation fails
// Error: 404 Not Found if the template does not exist
// Error: 500 Internal Server Error if regeneration fails
func (h *RecurringHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateRecurringTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateRecurringTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	in := service.UpdateRecurringTransactionInput{
		AccountID:          req.AccountID,
		Amount:             parseAmountPtr(req.Amount),
		Description:        req.Description,
		CategoryID:         req.CategoryID,
		TagIDs:             req.TagIDs,
		EntityIDs:          req.EntityIDs,
		Notes:              req.Notes,
		ReferenceDate:      parseDatePtr(req.ReferenceDate),
		StartDate:          parseDatePtr(req.StartDate),
		EndDate:            parseDatePtr(req.EndDate),
		ClearEndDate:       req.ClearEndDate,
		RecurrenceInterval: req.RecurrenceInterval,
	}
	if req.Type != nil {
		t := model.TransactionType(*req.Type)
		in.Type = &t
	}
	if req.RecurrenceUnit != nil {
		u := model.RecurrenceUnit(*req.RecurrenceUnit)
		in.RecurrenceUnit = &u
	}

	template, err := h.recurringService.Update(r.Context(), templateID, in, startOfToday(), h.sweepService.Horizon())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, template)
}

// PauseTemplate handles POST requests to pause generation for a template.
// The generation cursor freezes; existing entries are untouched.
//
// Endpoint: POST /api/recurring-transaction/{uuid}/pause
// Response: 200 OK with updated RecurringTransaction
// Error: 404 Not Found if the template does not exist
func (h *RecurringHandler) PauseTemplate(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, true)
}

// ResumeTemplate handles POST requests to resume generation for a template.
// Generation continues from the frozen cursor up to the horizon, with no gap
// and no duplicates.
//
// Endpoint: POST /api/recurring-transaction/{uuid}/resume
// Response: 200 OK with updated RecurringTransaction
// Error: 404 Not Found if the template does not exist
func (h *RecurringHandler) ResumeTemplate(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, false)
}

func (h *RecurringHandler) setPaused(w http.ResponseWriter, r *http.Request, paused bool) {
	templateID := chi.URLParam(r, "uuid")

	template, err := h.recurringService.SetPaused(r.Context(), templateID, paused)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if !paused {
		template, err = h.recurringService.GenerateUpcoming(r.Context(), templateID, h.sweepService.Horizon())
		if err != nil {
			respondServiceError(w, err)
			return
		}
	}

	respondJSON(w, http.StatusOK, template)
}

// GenerateTemplate handles POST requests to extend a template's generated
// window to the horizon on demand.
//
// Endpoint: POST /api/recurring-transaction/{uuid}/generate
// Response: 200 OK with updated RecurringTransaction
// Error: 404 Not Found if the template does not exist
// Error: 500 Internal Server Error if generation fails
func (h *RecurringHandler) GenerateTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "uuid")

	template, err := h.recurringService.GenerateUpcoming(r.Context(), templateID, h.sweepService.Horizon())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, template)
}

// DeleteTemplate handles DELETE requests for a recurring template.
// Generated entries are removed with it.
//
// Endpoint: DELETE /api/recurring-transaction/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if the template does not exist
func (h *RecurringHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "uuid")

	if err := h.recurringService.Delete(r.Context(), templateID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
