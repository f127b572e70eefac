package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrack/finance-tracker-backend/internal/model"
	"github.com/fintrack/finance-tracker-backend/internal/repository"
	"github.com/fintrack/finance-tracker-backend/internal/schedule"
)

// InstallmentService expands fixed-count installment plans into concrete
// ledger entries and reconciles plan edits against already-materialized ones.
//
// Each installment index is the dedup key: after Create, exactly
// NumberOfInstallments entries exist, one per index 0..n-1. Reconciliation
// never rewrites entries below the plan's settled cursor, and every
// generation or reconciliation runs in a single database transaction,
// serialized per plan ID.
type InstallmentService struct {
	db              *sql.DB
	installmentRepo *repository.InstallmentRepository
	transactionRepo *repository.TransactionRepository

	locks keyedMutex
}

// NewInstallmentService creates a new InstallmentService with the provided repository dependencies.
func NewInstallmentService(
	db *sql.DB,
	installmentRepo *repository.InstallmentRepository,
	transactionRepo *repository.TransactionRepository,
) *InstallmentService {
	return &InstallmentService{
		db:              db,
		installmentRepo: installmentRepo,
		transactionRepo: transactionRepo,
	}
}

// NewInstallmentPlanInput carries the fields for plan creation.
type NewInstallmentPlanInput struct {
	AccountID            string
	Type                 model.TransactionType
	Description          string
	InstallmentAmount    decimal.Decimal
	NumberOfInstallments int
	StartDate            time.Time
	ReferenceDate        time.Time // zero means "derive buckets from entry dates"
	RecurrenceUnit       model.RecurrenceUnit
	CategoryID           string
	TagIDs               []string
	EntityIDs            []string
	Notes                string
}

// Create persists a new plan and materializes all of its ledger entries.
// The plan's end date is derived: start advanced by (n-1) recurrence steps.
func (s *InstallmentService) Create(ctx context.Context, actor string, in NewInstallmentPlanInput) (*model.InstallmentPlan, error) {
	if err := schedule.ValidateUnit(in.RecurrenceUnit); err != nil {
		return nil, err
	}
	if err := schedule.ValidateInterval(in.NumberOfInstallments); err != nil {
		return nil, err
	}

	plan := &model.InstallmentPlan{
		ID:                   uuid.New().String(),
		AccountID:            in.AccountID,
		Type:                 in.Type,
		Description:          in.Description,
		InstallmentAmount:    in.InstallmentAmount,
		NumberOfInstallments: in.NumberOfInstallments,
		InstallmentCursor:    0,
		StartDate:            in.StartDate,
		ReferenceDate:        in.ReferenceDate,
		EndDate:              schedule.NextOccurrence(in.StartDate, in.RecurrenceUnit, in.NumberOfInstallments-1),
		RecurrenceUnit:       in.RecurrenceUnit,
		CategoryID:           in.CategoryID,
		TagIDs:               in.TagIDs,
		EntityIDs:            in.EntityIDs,
		Notes:                in.Notes,
		Owner:                actor,
	}

	unlock := s.locks.Lock(plan.ID)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.installmentRepo.Insert(tx, plan); err != nil {
		return nil, err
	}

	for i := 0; i < plan.NumberOfInstallments; i++ {
		entry := s.entryForIndex(plan, i, actor)
		if err := s.transactionRepo.Insert(tx, entry); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return plan, nil
}

// UpdateInstallmentPlanInput carries the editable plan fields for
// reconciliation. Nil pointers leave the field unchanged.
type UpdateInstallmentPlanInput struct {
	AccountID            *string
	Type                 *model.TransactionType
	Description          *string
	InstallmentAmount    *decimal.Decimal
	NumberOfInstallments *int
	StartDate            *time.Time
	ReferenceDate        *time.Time
	RecurrenceUnit       *model.RecurrenceUnit
	CategoryID           *string
	TagIDs               []string
	EntityIDs            []string
	Notes                *string
}

// Update applies the edit to the plan and reconciles its materialized
// entries.
//
// settledBefore is the policy boundary: existing entries dated strictly
// before it count as settled, fixing the plan's cursor for this
// reconciliation. Entries below the cursor are left untouched regardless of
// what changed; entries at or above it are rewritten from the plan's new
// field values; a grown count appends trailing indices and a shrunk count
// hard-deletes indices that no longer fit (they were never settled).
//
// Reconciliation is idempotent: a second call with no intervening edit
// produces an identical entry set.
func (s *InstallmentService) Update(ctx context.Context, planID string, in UpdateInstallmentPlanInput, settledBefore time.Time) (*model.InstallmentPlan, error) {
	unlock := s.locks.Lock(planID)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	plan, err := s.installmentRepo.GetByID(tx, planID)
	if err != nil {
		return nil, err
	}

	existing, err := s.transactionRepo.GetPlanEntries(tx, planID)
	if err != nil {
		return nil, err
	}
	byIndex := make(map[int]model.Transaction, len(existing))
	for _, e := range existing {
		byIndex[e.Source.InstallmentIndex] = e
	}

	// The cursor is fixed from the pre-edit entry dates: everything settled
	// by the boundary becomes immutable for this and later reconciliations.
	cursor := plan.InstallmentCursor
	for _, e := range existing {
		if e.Date.Before(settledBefore) && e.Source.InstallmentIndex+1 > cursor {
			cursor = e.Source.InstallmentIndex + 1
		}
	}

	applyPlanEdit(&plan, in)
	if err := schedule.ValidateUnit(plan.RecurrenceUnit); err != nil {
		return nil, err
	}
	if err := schedule.ValidateInterval(plan.NumberOfInstallments); err != nil {
		return nil, err
	}
	plan.InstallmentCursor = cursor
	plan.EndDate = schedule.NextOccurrence(plan.StartDate, plan.RecurrenceUnit, plan.NumberOfInstallments-1)

	if err := s.installmentRepo.Update(tx, &plan); err != nil {
		return nil, err
	}

	// Rewrite or append the unsettled tail.
	for i := cursor; i < plan.NumberOfInstallments; i++ {
		fresh := s.entryForIndex(&plan, i, plan.Owner)
		if current, ok := byIndex[i]; ok {
			fresh.ID = current.ID
			fresh.Deleted = current.Deleted
			fresh.DeletedAt = current.DeletedAt
			if err := s.transactionRepo.Update(tx, fresh); err != nil {
				return nil, err
			}
		} else if err := s.transactionRepo.Insert(tx, fresh); err != nil {
			return nil, err
		}
	}

	// Drop indices that no longer fit, never touching settled ones.
	dropFrom := plan.NumberOfInstallments
	if dropFrom < cursor {
		dropFrom = cursor
	}
	if err := s.transactionRepo.DeletePlanEntriesFromIndex(tx, planID, dropFrom); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &plan, nil
}

// Get retrieves a plan by ID.
func (s *InstallmentService) Get(id string) (model.InstallmentPlan, error) {
	return s.installmentRepo.GetByID(s.db, id)
}

// List retrieves all plans.
func (s *InstallmentService) List() ([]model.InstallmentPlan, error) {
	return s.installmentRepo.List()
}

// Entries retrieves a plan's materialized entries ordered by index.
func (s *InstallmentService) Entries(planID string) ([]model.Transaction, error) {
	return s.transactionRepo.GetPlanEntries(s.db, planID)
}

// Delete removes a plan and, by cascade, every entry it owns.
func (s *InstallmentService) Delete(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()
	return s.installmentRepo.Delete(s.db, id)
}

// entryForIndex builds the ledger entry for one installment index from the
// plan's current field values.
func (s *InstallmentService) entryForIndex(plan *model.InstallmentPlan, index int, owner string) *model.Transaction {
	date := schedule.NextOccurrence(plan.StartDate, plan.RecurrenceUnit, index)
	desc := fmt.Sprintf("%s (%d/%d)", plan.Description, index+1, plan.NumberOfInstallments)

	return &model.Transaction{
		ID:             uuid.New().String(),
		AccountID:      plan.AccountID,
		Type:           plan.Type,
		Description:    desc,
		Amount:         plan.InstallmentAmount,
		Date:           date,
		ReferenceMonth: referenceMonthFor(date, plan.StartDate, plan.ReferenceDate),
		CategoryID:     plan.CategoryID,
		TagIDs:         plan.TagIDs,
		EntityIDs:      plan.EntityIDs,
		Notes:          plan.Notes,
		Source:         model.InstallmentSource(plan.ID, index),
		Owner:          owner,
		CreatedAt:      time.Now().UTC(),
	}
}

// applyPlanEdit copies the non-nil fields of the edit onto the plan.
func applyPlanEdit(plan *model.InstallmentPlan, in UpdateInstallmentPlanInput) {
	if in.AccountID != nil {
		plan.AccountID = *in.AccountID
	}
	if in.Type != nil {
		plan.Type = *in.Type
	}
	if in.Description != nil {
		plan.Description = *in.Description
	}
	if in.InstallmentAmount != nil {
		plan.InstallmentAmount = *in.InstallmentAmount
	}
	if in.NumberOfInstallments != nil {
		plan.NumberOfInstallments = *in.NumberOfInstallments
	}
	if in.StartDate != nil {
		plan.StartDate = *in.StartDate
	}
	if in.ReferenceDate != nil {
		plan.ReferenceDate = *in.ReferenceDate
	}
	if in.RecurrenceUnit != nil {
		plan.RecurrenceUnit = *in.RecurrenceUnit
	}
	if in.CategoryID != nil {
		plan.CategoryID = *in.CategoryID
	}
	if in.TagIDs != nil {
		plan.TagIDs = in.TagIDs
	}
	if in.EntityIDs != nil {
		plan.EntityIDs = in.EntityIDs
	}
	if in.Notes != nil {
		plan.Notes = *in.Notes
	}
}
