package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fintrack/finance-tracker-backend/internal/apperrors"
	"github.com/fintrack/finance-tracker-backend/internal/model"
)

// TransactionRepository provides data access methods for the ledger entry
// table. Soft-deleted entries are excluded from default queries but retained
// for audit; generated entries are queryable by their source.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `
	id, account_id, type, description, amount, date, reference_month, category_id, notes,
	source_kind, installment_plan_id, installment_index, recurring_transaction_id,
	owner, deleted, deleted_at, created_at
`

// TransactionFilter narrows List results. Zero values mean "no constraint".
type TransactionFilter struct {
	IncludeDeleted bool
	SourceKind     model.SourceKind
	StartDate      *time.Time
	EndDate        *time.Time
}

// Insert persists a new ledger entry together with its tag and entity links.
func (s *TransactionRepository) Insert(q Querier, t *model.Transaction) error {
	var planID, recurringID any
	var installmentIndex any
	switch t.Source.Kind {
	case model.SourceInstallment:
		planID = t.Source.InstallmentPlanID
		installmentIndex = t.Source.InstallmentIndex
	case model.SourceRecurring:
		recurringID = t.Source.RecurringTransactionID
	case model.SourceUser:
		// no associated data
	}

	_, err := q.Exec(`
		INSERT INTO "transaction" (
			id, account_id, type, description, amount, date, reference_month, category_id, notes,
			source_kind, installment_plan_id, installment_index, recurring_transaction_id,
			owner, deleted, deleted_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.AccountID, string(t.Type), t.Description, t.Amount.String(),
		formatDate(t.Date), formatDate(t.ReferenceMonth),
		nullString(t.CategoryID), nullString(t.Notes),
		string(t.Source.Kind), planID, installmentIndex, recurringID,
		nullString(t.Owner), t.Deleted, nullDate(t.DeletedAt),
		t.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	if err := s.setLinks(q, "transaction_tag", "tag_id", t.ID, t.TagIDs); err != nil {
		return err
	}
	return s.setLinks(q, "transaction_entity", "entity_id", t.ID, t.EntityIDs)
}

// Update overwrites the mutable fields of an existing entry. Source and audit
// fields are not touched.
func (s *TransactionRepository) Update(q Querier, t *model.Transaction) error {
	res, err := q.Exec(`
		UPDATE "transaction"
		SET account_id = ?, type = ?, description = ?, amount = ?, date = ?, reference_month = ?,
			category_id = ?, notes = ?
		WHERE id = ?`,
		t.AccountID, string(t.Type), t.Description, t.Amount.String(),
		formatDate(t.Date), formatDate(t.ReferenceMonth),
		nullString(t.CategoryID), nullString(t.Notes), t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrTransactionNotFound
	}

	if err := s.setLinks(q, "transaction_tag", "tag_id", t.ID, t.TagIDs); err != nil {
		return err
	}
	return s.setLinks(q, "transaction_entity", "entity_id", t.ID, t.EntityIDs)
}

// SoftDelete marks an entry deleted without removing the row.
func (s *TransactionRepository) SoftDelete(q Querier, id string, when time.Time) error {
	res, err := q.Exec(`
		UPDATE "transaction" SET deleted = TRUE, deleted_at = ? WHERE id = ? AND deleted = FALSE`,
		when.UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("failed to soft-delete transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// HardDelete removes an entry permanently. Used for explicit user deletion
// and for reconciliation of never-settled generated entries.
func (s *TransactionRepository) HardDelete(q Querier, id string) error {
	res, err := q.Exec(`DELETE FROM "transaction" WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// GetByID retrieves a single entry by ID, including soft-deleted ones.
func (s *TransactionRepository) GetByID(id string) (model.Transaction, error) {
	row := s.db.QueryRow(`SELECT `+transactionColumns+` FROM "transaction" WHERE id = ?`, id)

	t, err := scanTransactionRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, err
	}

	if err := s.loadLinks(s.db, &t); err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

// List retrieves entries matching the filter, ordered by date ascending.
// Soft-deleted entries are excluded unless IncludeDeleted is set.
func (s *TransactionRepository) List(filter TransactionFilter) ([]model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM "transaction" WHERE 1=1`
	var args []any

	if !filter.IncludeDeleted {
		query += ` AND deleted = FALSE`
	}
	if filter.SourceKind != "" {
		query += ` AND source_kind = ?`
		args = append(args, string(filter.SourceKind))
	}
	if filter.StartDate != nil {
		query += ` AND date >= ?`
		args = append(args, formatDate(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query += ` AND date <= ?`
		args = append(args, formatDate(*filter.EndDate))
	}
	query += ` ORDER BY date ASC, id ASC`

	return s.queryTransactions(s.db, query, args...)
}

// GetPlanEntries retrieves all entries materialized from an installment plan,
// ordered by installment index. Soft-deleted entries are included so that
// reconciliation can account for every index.
func (s *TransactionRepository) GetPlanEntries(q Querier, planID string) ([]model.Transaction, error) {
	return s.queryTransactions(q, `
		SELECT `+transactionColumns+`
		FROM "transaction"
		WHERE installment_plan_id = ?
		ORDER BY installment_index ASC`, planID)
}

// GetRecurringEntries retrieves all entries materialized from a recurring
// template, soft-deleted included, ordered by date ascending.
func (s *TransactionRepository) GetRecurringEntries(q Querier, templateID string) ([]model.Transaction, error) {
	return s.queryTransactions(q, `
		SELECT `+transactionColumns+`
		FROM "transaction"
		WHERE recurring_transaction_id = ?
		ORDER BY date ASC, id ASC`, templateID)
}

// DeletePlanEntriesFromIndex hard-deletes plan entries at or beyond the given
// index. Called when a plan shrinks; the caller guarantees the index is at or
// beyond the settled cursor.
func (s *TransactionRepository) DeletePlanEntriesFromIndex(q Querier, planID string, minIndex int) error {
	_, err := q.Exec(`
		DELETE FROM "transaction"
		WHERE installment_plan_id = ? AND installment_index >= ?`, planID, minIndex)
	if err != nil {
		return fmt.Errorf("failed to delete trailing plan entries: %w", err)
	}
	return nil
}

// DeleteRecurringEntriesFrom hard-deletes a template's live entries dated at
// or after the boundary. Settled entries (before the boundary) are never
// touched, and soft-deleted occurrences survive as audit rows.
func (s *TransactionRepository) DeleteRecurringEntriesFrom(q Querier, templateID string, boundary time.Time) error {
	_, err := q.Exec(`
		DELETE FROM "transaction"
		WHERE recurring_transaction_id = ? AND date >= ? AND deleted = FALSE`, templateID, formatDate(boundary))
	if err != nil {
		return fmt.Errorf("failed to delete unsettled recurring entries: %w", err)
	}
	return nil
}

// queryTransactions runs a SELECT over transactionColumns and hydrates tag
// and entity links for every returned row.
func (s *TransactionRepository) queryTransactions(q Querier, query string, args ...any) ([]model.Transaction, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	for i := range transactions {
		if err := s.loadLinks(q, &transactions[i]); err != nil {
			return nil, err
		}
	}
	return transactions, nil
}

// setLinks replaces the junction rows for one transaction.
func (s *TransactionRepository) setLinks(q Querier, table, column, transactionID string, ids []string) error {
	if _, err := q.Exec(`DELETE FROM `+table+` WHERE transaction_id = ?`, transactionID); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	for _, id := range ids {
		if _, err := q.Exec(
			`INSERT INTO `+table+` (transaction_id, `+column+`) VALUES (?, ?)`, transactionID, id,
		); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

// loadLinks hydrates TagIDs and EntityIDs.
func (s *TransactionRepository) loadLinks(q Querier, t *model.Transaction) error {
	tags, err := queryLinkIDs(q, `SELECT tag_id FROM transaction_tag WHERE transaction_id = ? ORDER BY tag_id`, t.ID)
	if err != nil {
		return err
	}
	entities, err := queryLinkIDs(q, `SELECT entity_id FROM transaction_entity WHERE transaction_id = ? ORDER BY entity_id`, t.ID)
	if err != nil {
		return err
	}
	t.TagIDs = tags
	t.EntityIDs = entities
	return nil
}

func queryLinkIDs(q Querier, query string, args ...any) ([]string, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan link id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}
	return ids, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransactionRow(row *sql.Row) (model.Transaction, error) {
	return scanTransactionFields(row)
}

func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	return scanTransactionFields(rows)
}

func scanTransactionFields(sc rowScanner) (model.Transaction, error) {
	var t model.Transaction
	var amountStr, dateStr, refMonthStr, sourceKind string
	var categoryID, notes, planID, recurringID, owner, deletedAt, createdAt sql.NullString
	var installmentIndex sql.NullInt64

	err := sc.Scan(
		&t.ID, &t.AccountID, (*string)(&t.Type), &t.Description, &amountStr, &dateStr, &refMonthStr,
		&categoryID, &notes, &sourceKind, &planID, &installmentIndex, &recurringID,
		&owner, &t.Deleted, &deletedAt, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Transaction{}, err
		}
		return model.Transaction{}, fmt.Errorf("failed to scan transaction table results: %w", err)
	}

	if t.Amount, err = ParseDecimal(amountStr); err != nil {
		return model.Transaction{}, err
	}
	if t.Date, err = ParseTime(dateStr); err != nil {
		return model.Transaction{}, err
	}
	if t.ReferenceMonth, err = ParseTime(refMonthStr); err != nil {
		return model.Transaction{}, err
	}
	t.CategoryID = categoryID.String
	t.Notes = notes.String
	t.Owner = owner.String

	switch model.SourceKind(sourceKind) {
	case model.SourceInstallment:
		t.Source = model.InstallmentSource(planID.String, int(installmentIndex.Int64))
	case model.SourceRecurring:
		t.Source = model.RecurringSource(recurringID.String)
	default:
		t.Source = model.UserSource()
	}

	if t.DeletedAt, err = scanNullDate(deletedAt); err != nil {
		return model.Transaction{}, err
	}
	if createdAt.Valid {
		if t.CreatedAt, err = ParseTime(createdAt.String); err != nil {
			// created_at may carry the sqlite CURRENT_TIMESTAMP layout
			if ts, err2 := time.Parse("2006-01-02 15:04:05", createdAt.String); err2 == nil {
				t.CreatedAt = ts.UTC()
			} else {
				return model.Transaction{}, err
			}
		}
	}
	return t, nil
}
