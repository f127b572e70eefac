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

// InstallmentHandler handles HTTP requests for installment plan endpoints.
type InstallmentHandler struct {
	installmentService *service.InstallmentService
}

// NewInstallmentHandler creates a new InstallmentHandler with the provided service dependency.
func NewInstallmentHandler(installmentService *service.InstallmentService) *InstallmentHandler {
	return &InstallmentHandler{
		installmentService: installmentService,
	}
}

// ListPlans handles GET requests to retrieve all installment plans.
//
// Endpoint: GET /api/installment-plan
// Response: 200 OK with array of InstallmentPlan
// Error: 500 Internal Server Error if retrieval fails
func (h *InstallmentHandler) ListPlans(w http.ResponseWriter, _ *http.Request) {
	plans, err := h.installmentService.List()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePlans.Error(), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, plans)
}

// GetPlan handles GET requests to retrieve a single installment plan by ID.
//
// Endpoint: GET /api/installment-plan/{uuid}
// Response: 200 OK with InstallmentPlan
// Error: 400 Bad Request if the ID is invalid (validated by middleware)
// Error: 404 Not Found if the plan does not exist
func (h *InstallmentHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "uuid")

	plan, err := h.installmentService.Get(planID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, plan)
}

// GetPlanEntries handles GET requests to retrieve a plan's ledger entries in
// installment order.
//
// Endpoint: GET /api/installment-plan/{uuid}/entries
// Response: 200 OK with array of Transaction
// Error: 404 Not Found if the plan does not exist
func (h *InstallmentHandler) GetPlanEntries(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "uuid")

	if _, err := h.installmentService.Get(planID); err != nil {
		respondServiceError(w, err)
		return
	}
	entries, err := h.installmentService.Entries(planID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

// CreatePlan handles POST requests to create an installment plan.
// The plan's full entry set is materialized atomically with the plan itself.
//
// Endpoint: POST /api/installment-plan
// Request Body: CreateInstallmentPlanRequest
// Response: 201 Created with InstallmentPlan
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *InstallmentHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateInstallmentPlanRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateInstallmentPlan(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	in := service.NewInstallmentPlanInput{
		AccountID:            req.AccountID,
		Type:                 model.TransactionType(req.Type),
		Description:          req.Description,
		InstallmentAmount:    parseAmount(req.InstallmentAmount),
		NumberOfInstallments: req.NumberOfInstallments,
		StartDate:            parseDate(req.StartDate),
		RecurrenceUnit:       model.RecurrenceUnit(req.RecurrenceUnit),
		CategoryID:           req.CategoryID,
		TagIDs:               req.TagIDs,
		EntityIDs:            req.EntityIDs,
		Notes:                req.Notes,
	}
	if req.ReferenceDate != nil {
		in.ReferenceDate = parseDate(*req.ReferenceDate)
	}

	plan, err := h.installmentService.Create(r.Context(), actorFrom(r), in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, plan)
}

// UpdatePlan handles PUT requests to edit an installment plan.
// Entries already settled keep their original values; unsettled entries are
// rewritten from the plan's new fields.
//
// Endpoint: PUT /api/installment-plan/{uuid}
// Request Body: UpdateInstallmentPlanRequest (all fields optional)
// Response: 200 OK with updated InstallmentPlan
// Error: 400 Bad Request if the ID is invalid (validated by middleware) or validation fails
// Error: 404 Not Found if the plan does not exist
// Error: 500 Internal Server Error if reconciliation fails
func (h *InstallmentHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateInstallmentPlanRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateInstallmentPlan(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	in := service.UpdateInstallmentPlanInput{
		AccountID:            req.AccountID,
		Description:          req.Description,
		InstallmentAmount:    parseAmountPtr(req.InstallmentAmount),
		NumberOfInstallments: req.NumberOfInstallments,
		StartDate:            parseDatePtr(req.StartDate),
		ReferenceDate:        parseDatePtr(req.ReferenceDate),
		CategoryID:           req.CategoryID,
		TagIDs:               req.TagIDs,
		EntityIDs:            req.EntityIDs,
		Notes:                req.Notes,
	}
	if req.Type != nil {
		t := model.TransactionType(*req.Type)
		in.Type = &t
	}
	if req.RecurrenceUnit != nil {
		u := model.RecurrenceUnit(*req.RecurrenceUnit)
		in.RecurrenceUnit = &u
	}

	plan, err := h.installmentService.Update(r.Context(), planID, in, startOfToday())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, plan)
}

// DeletePlan handles DELETE requests for an installment plan.
// The plan's generated entries are removed with it.
//
// Endpoint: DELETE /api/installment-plan/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if the plan does not exist
// Error: 500 Internal Server Error if deletion fails
func (h *InstallmentHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "uuid")

	if err := h.installmentService.Delete(r.Context(), planID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
