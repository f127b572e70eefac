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

// RecurringService expands open-ended recurring templates into a
// forward-looking window of ledger entries.
//
// Generation is forward-only and idempotent: the template's
// last_generated_date cursor only advances, a date already materialized is
// never produced again, and re-running generation with an unchanged cursor
// and horizon creates nothing. Every generation or reconciliation runs in a
// single database transaction, serialized per template ID.
type RecurringService struct {
	db              *sql.DB
	recurringRepo   *repository.RecurringRepository
	transactionRepo *repository.TransactionRepository

	locks keyedMutex
}

// NewRecurringService creates a new RecurringService with the provided repository dependencies.
func NewRecurringService(
	db *sql.DB,
	recurringRepo *repository.RecurringRepository,
	transactionRepo *repository.TransactionRepository,
) *RecurringService {
	return &RecurringService{
		db:              db,
		recurringRepo:   recurringRepo,
		transactionRepo: transactionRepo,
	}
}

// NewRecurringTransactionInput carries the fields for template creation.
type NewRecurringTransactionInput struct {
	AccountID          string
	Type               model.TransactionType
	Amount             decimal.Decimal
	Description        string
	CategoryID         string
	TagIDs             []string
	EntityIDs          []string
	Notes              string
	ReferenceDate      time.Time // zero means "derive buckets from entry dates"
	StartDate          time.Time
	EndDate            *time.Time
	RecurrenceUnit     model.RecurrenceUnit
	RecurrenceInterval int
}

// Create persists a new template and immediately generates entries up to the
// horizon.
func (s *RecurringService) Create(ctx context.Context, actor string, in NewRecurringTransactionInput, horizon time.Time) (*model.RecurringTransaction, error) {
	if err := schedule.ValidateUnit(in.RecurrenceUnit); err != nil {
		return nil, err
	}
	if err := schedule.ValidateInterval(in.RecurrenceInterval); err != nil {
		return nil, err
	}

	tmpl := &model.RecurringTransaction{
		ID:                 uuid.New().String(),
		AccountID:          in.AccountID,
		Type:               in.Type,
		Amount:             in.Amount,
		Description:        in.Description,
		CategoryID:         in.CategoryID,
		TagIDs:             in.TagIDs,
		EntityIDs:          in.EntityIDs,
		Notes:              in.Notes,
		ReferenceDate:      in.ReferenceDate,
		StartDate:          in.StartDate,
		EndDate:            in.EndDate,
		RecurrenceUnit:     in.RecurrenceUnit,
		RecurrenceInterval: in.RecurrenceInterval,
		Owner:              actor,
	}

	unlock := s.locks.Lock(tmpl.ID)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.recurringRepo.Insert(tx, tmpl); err != nil {
		return nil, err
	}
	if err := s.generate(tx, tmpl, horizon); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return tmpl, nil
}

// GenerateUpcoming extends a template's materialized window to the horizon.
// Paused templates are a no-op. Safe to call repeatedly: with an unchanged
// cursor and horizon nothing new is created and the cursor stays put.
func (s *RecurringService) GenerateUpcoming(ctx context.Context, templateID string, horizon time.Time) (*model.RecurringTransaction, error) {
	unlock := s.locks.Lock(templateID)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tmpl, err := s.recurringRepo.GetByID(tx, templateID)
	if err != nil {
		return nil, err
	}
	if err := s.generate(tx, &tmpl, horizon); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &tmpl, nil
}

// UpdateRecurringTransactionInput carries the editable template fields. Nil
// pointers leave the field unchanged. ClearEndDate removes an existing end
// date.
type UpdateRecurringTransactionInput struct {
	AccountID          *string
	Type               *model.TransactionType
	Amount             *decimal.Decimal
	Description        *string
	CategoryID         *string
	TagIDs             []string
	EntityIDs          []string
	Notes              *string
	ReferenceDate      *time.Time
	StartDate          *time.Time
	EndDate            *time.Time
	ClearEndDate       bool
	RecurrenceUnit     *model.RecurrenceUnit
	RecurrenceInterval *int
}

// Update applies the edit, regenerates the template's unsettled entries with
// the new field values, and extends generation to the horizon.
//
// settledBefore is the policy boundary: generated entries dated at or after
// it are deleted and regenerated; entries before it are immutable. The
// generation cursor rewinds to the latest surviving entry so the regenerated
// window continues gap-free from settled history.
func (s *RecurringService) Update(ctx context.Context, templateID string, in UpdateRecurringTransactionInput, settledBefore, horizon time.Time) (*model.RecurringTransaction, error) {
	unlock := s.locks.Lock(templateID)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tmpl, err := s.recurringRepo.GetByID(tx, templateID)
	if err != nil {
		return nil, err
	}

	applyTemplateEdit(&tmpl, in)
	if err := schedule.ValidateUnit(tmpl.RecurrenceUnit); err != nil {
		return nil, err
	}
	if err := schedule.ValidateInterval(tmpl.RecurrenceInterval); err != nil {
		return nil, err
	}

	if err := s.transactionRepo.DeleteRecurringEntriesFrom(tx, templateID, settledBefore); err != nil {
		return nil, err
	}

	// Rewind the cursor to the latest surviving entry.
	tmpl.LastGeneratedDate = nil
	tmpl.LastGeneratedReferenceMonth = nil
	remaining, err := s.transactionRepo.GetRecurringEntries(tx, templateID)
	if err != nil {
		return nil, err
	}
	if len(remaining) > 0 {
		last := remaining[len(remaining)-1]
		lastDate := last.Date
		lastRef := last.ReferenceMonth
		tmpl.LastGeneratedDate = &lastDate
		tmpl.LastGeneratedReferenceMonth = &lastRef
	}

	if err := s.recurringRepo.Update(tx, &tmpl); err != nil {
		return nil, err
	}
	if err := s.generate(tx, &tmpl, horizon); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &tmpl, nil
}

// SetPaused pauses or resumes a template. Pausing freezes the generation
// cursor and leaves existing entries untouched; resuming continues exactly
// from the frozen cursor.
func (s *RecurringService) SetPaused(ctx context.Context, templateID string, paused bool) (*model.RecurringTransaction, error) {
	unlock := s.locks.Lock(templateID)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tmpl, err := s.recurringRepo.GetByID(tx, templateID)
	if err != nil {
		return nil, err
	}
	tmpl.IsPaused = paused
	if err := s.recurringRepo.Update(tx, &tmpl); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &tmpl, nil
}

// Get retrieves a template by ID.
func (s *RecurringService) Get(id string) (model.RecurringTransaction, error) {
	return s.recurringRepo.GetByID(s.db, id)
}

// List retrieves all templates; activeOnly excludes paused ones.
func (s *RecurringService) List(activeOnly bool) ([]model.RecurringTransaction, error) {
	return s.recurringRepo.List(activeOnly)
}

// Entries retrieves a template's materialized entries ordered by date.
func (s *RecurringService) Entries(templateID string) ([]model.Transaction, error) {
	return s.transactionRepo.GetRecurringEntries(s.db, templateID)
}

// Delete removes a template and, by cascade, every entry it generated.
func (s *RecurringService) Delete(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()
	return s.recurringRepo.Delete(s.db, id)
}

// generate materializes successive occurrences strictly after the cursor,
// stopping at the horizon or the template's end date. Runs inside the
// caller's transaction.
func (s *RecurringService) generate(tx *sql.Tx, tmpl *model.RecurringTransaction, horizon time.Time) error {
	if tmpl.IsPaused {
		return nil
	}
	if err := schedule.ValidateInterval(tmpl.RecurrenceInterval); err != nil {
		return err
	}

	var candidate time.Time
	if tmpl.LastGeneratedDate == nil {
		candidate = tmpl.StartDate
	} else {
		candidate = schedule.NextOccurrence(*tmpl.LastGeneratedDate, tmpl.RecurrenceUnit, tmpl.RecurrenceInterval)
	}

	var lastDate, lastRef time.Time
	generated := false
	for !candidate.After(horizon) {
		if tmpl.EndDate != nil && candidate.After(*tmpl.EndDate) {
			break
		}

		refMonth := referenceMonthFor(candidate, tmpl.StartDate, tmpl.ReferenceDate)
		entry := &model.Transaction{
			ID:             uuid.New().String(),
			AccountID:      tmpl.AccountID,
			Type:           tmpl.Type,
			Description:    tmpl.Description,
			Amount:         tmpl.Amount,
			Date:           candidate,
			ReferenceMonth: refMonth,
			CategoryID:     tmpl.CategoryID,
			TagIDs:         tmpl.TagIDs,
			EntityIDs:      tmpl.EntityIDs,
			Notes:          tmpl.Notes,
			Source:         model.RecurringSource(tmpl.ID),
			Owner:          tmpl.Owner,
			CreatedAt:      time.Now().UTC(),
		}
		if err := s.transactionRepo.Insert(tx, entry); err != nil {
			return err
		}

		lastDate, lastRef = candidate, refMonth
		generated = true
		candidate = schedule.NextOccurrence(candidate, tmpl.RecurrenceUnit, tmpl.RecurrenceInterval)
	}

	if generated {
		tmpl.LastGeneratedDate = &lastDate
		tmpl.LastGeneratedReferenceMonth = &lastRef
		if err := s.recurringRepo.Update(tx, tmpl); err != nil {
			return err
		}
	}
	return nil
}

// applyTemplateEdit copies the non-nil fields of the edit onto the template.
func applyTemplateEdit(tmpl *model.RecurringTransaction, in UpdateRecurringTransactionInput) {
	if in.AccountID != nil {
		tmpl.AccountID = *in.AccountID
	}
	if in.Type != nil {
		tmpl.Type = *in.Type
	}
	if in.Amount != nil {
		tmpl.Amount = *in.Amount
	}
	if in.Description != nil {
		tmpl.Description = *in.Description
	}
	if in.CategoryID != nil {
		tmpl.CategoryID = *in.CategoryID
	}
	if in.TagIDs != nil {
		tmpl.TagIDs = in.TagIDs
	}
	if in.EntityIDs != nil {
		tmpl.EntityIDs = in.EntityIDs
	}
	if in.Notes != nil {
		tmpl.Notes = *in.Notes
	}
	if in.ReferenceDate != nil {
		tmpl.ReferenceDate = *in.ReferenceDate
	}
	if in.StartDate != nil {
		tmpl.StartDate = *in.StartDate
	}
	if in.ClearEndDate {
		tmpl.EndDate = nil
	} else if in.EndDate != nil {
		tmpl.EndDate = in.EndDate
	}
	if in.RecurrenceUnit != nil {
		tmpl.RecurrenceUnit = *in.RecurrenceUnit
	}
	if in.RecurrenceInterval != nil {
		tmpl.RecurrenceInterval = *in.RecurrenceInterval
	}
}
