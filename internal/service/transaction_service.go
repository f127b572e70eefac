package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrack/finance-tracker-backend/internal/apperrors"
	"github.com/fintrack/finance-tracker-backend/internal/model"
	"github.com/fintrack/finance-tracker-backend/internal/repository"
)

// TransactionService handles ledger-entry business logic for user-created
// entries. Generated entries are owned by their plan or template; edits to
// those are guarded so settled history stays immutable.
type TransactionService struct {
	db              *sql.DB
	transactionRepo *repository.TransactionRepository
	installmentRepo *repository.InstallmentRepository
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
func NewTransactionService(
	db *sql.DB,
	transactionRepo *repository.TransactionRepository,
	installmentRepo *repository.InstallmentRepository,
) *TransactionService {
	return &TransactionService{
		db:              db,
		transactionRepo: transactionRepo,
		installmentRepo: installmentRepo,
	}
}

// NewTransactionInput carries the fields for direct entry creation.
type NewTransactionInput struct {
	AccountID      string
	Type           model.TransactionType
	Description    string
	Amount         decimal.Decimal
	Date           time.Time
	ReferenceMonth time.Time // zero means "derive from Date"
	CategoryID     string
	TagIDs         []string
	EntityIDs      []string
	Notes          string
}

// Create persists a user-created ledger entry. The reference month defaults
// to the first of the entry date's month when not explicitly overridden.
func (s *TransactionService) Create(ctx context.Context, actor string, in NewTransactionInput) (*model.Transaction, error) {
	refMonth := in.ReferenceMonth
	if refMonth.IsZero() {
		refMonth = model.FirstOfMonth(in.Date)
	} else {
		refMonth = model.FirstOfMonth(refMonth)
	}

	t := &model.Transaction{
		ID:             uuid.New().String(),
		AccountID:      in.AccountID,
		Type:           in.Type,
		Description:    in.Description,
		Amount:         in.Amount,
		Date:           in.Date,
		ReferenceMonth: refMonth,
		CategoryID:     in.CategoryID,
		TagIDs:         in.TagIDs,
		EntityIDs:      in.EntityIDs,
		Notes:          in.Notes,
		Source:         model.UserSource(),
		Owner:          actor,
		CreatedAt:      time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.transactionRepo.Insert(tx, t); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return t, nil
}

// Get retrieves a single entry by ID, soft-deleted included.
func (s *TransactionService) Get(id string) (model.Transaction, error) {
	return s.transactionRepo.GetByID(id)
}

// List retrieves entries matching the filter, ordered by date ascending.
func (s *TransactionService) List(filter repository.TransactionFilter) ([]model.Transaction, error) {
	return s.transactionRepo.List(filter)
}

// Update overwrites the mutable fields of an entry. Settled generated
// entries are immutable: an installment entry below its plan's cursor is
// rejected with ErrSettledImmutable.
func (s *TransactionService) Update(ctx context.Context, t *model.Transaction) (*model.Transaction, error) {
	if err := s.guardSettled(*t); err != nil {
		return nil, err
	}
	t.ReferenceMonth = model.FirstOfMonth(t.ReferenceMonth)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.transactionRepo.Update(tx, t); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return t, nil
}

// SoftDelete marks an entry deleted, retaining it for audit. Generators never
// soft-delete; this is an explicit user action.
func (s *TransactionService) SoftDelete(ctx context.Context, id string) error {
	return s.transactionRepo.SoftDelete(s.db, id, time.Now().UTC())
}

// HardDelete permanently removes an entry. Settled installment entries are
// refused.
func (s *TransactionService) HardDelete(ctx context.Context, id string) error {
	t, err := s.transactionRepo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.guardSettled(t); err != nil {
		return err
	}
	return s.transactionRepo.HardDelete(s.db, id)
}

// guardSettled rejects mutation of installment entries whose index is below
// their plan's settled cursor.
func (s *TransactionService) guardSettled(t model.Transaction) error {
	if t.Source.Kind != model.SourceInstallment {
		return nil
	}
	plan, err := s.installmentRepo.GetByID(s.db, t.Source.InstallmentPlanID)
	if err != nil {
		return fmt.Errorf("%w: plan lookup for entry %s: %v", apperrors.ErrDataInconsistency, t.ID, err)
	}
	if t.Source.InstallmentIndex < plan.InstallmentCursor {
		return apperrors.ErrSettledImmutable
	}
	return nil
}
