package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fintrack/finance-tracker-backend/internal/apperrors"
	"github.com/fintrack/finance-tracker-backend/internal/model"
)

// RecurringRepository provides data access methods for recurring transaction
// templates.
type RecurringRepository struct {
	db *sql.DB
}

// NewRecurringRepository creates a new RecurringRepository with the provided database connection.
func NewRecurringRepository(db *sql.DB) *RecurringRepository {
	return &RecurringRepository{db: db}
}

const recurringColumns = `
	id, is_paused, account_id, type, amount, description, category_id, notes,
	reference_date, start_date, end_date, recurrence_unit, recurrence_interval,
	last_generated_date, last_generated_reference_month, owner, created_at
`

// Insert persists a new recurring template with its tag and entity links.
func (s *RecurringRepository) Insert(q Querier, t *model.RecurringTransaction) error {
	var refDate any
	if !t.ReferenceDate.IsZero() {
		refDate = formatDate(t.ReferenceDate)
	}

	_, err := q.Exec(`
		INSERT INTO recurring_transaction (
			id, is_paused, account_id, type, amount, description, category_id, notes,
			reference_date, start_date, end_date, recurrence_unit, recurrence_interval,
			last_generated_date, last_generated_reference_month, owner
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.IsPaused, t.AccountID, string(t.Type), t.Amount.String(), t.Description,
		nullString(t.CategoryID), nullString(t.Notes), refDate,
		formatDate(t.StartDate), nullDate(t.EndDate),
		string(t.RecurrenceUnit), t.RecurrenceInterval,
		nullDate(t.LastGeneratedDate), nullDate(t.LastGeneratedReferenceMonth),
		nullString(t.Owner),
	)
	if err != nil {
		return fmt.Errorf("failed to insert recurring transaction: %w", err)
	}

	if err := s.setLinks(q, "recurring_transaction_tag", "tag_id", t.ID, t.TagIDs); err != nil {
		return err
	}
	return s.setLinks(q, "recurring_transaction_entity", "entity_id", t.ID, t.EntityIDs)
}

// Update overwrites a template's fields, including the generation cursor.
func (s *RecurringRepository) Update(q Querier, t *model.RecurringTransaction) error {
	var refDate any
	if !t.ReferenceDate.IsZero() {
		refDate = formatDate(t.ReferenceDate)
	}

	res, err := q.Exec(`
		UPDATE recurring_transaction
		SET is_paused = ?, account_id = ?, type = ?, amount = ?, description = ?,
			category_id = ?, notes = ?, reference_date = ?, start_date = ?, end_date = ?,
			recurrence_unit = ?, recurrence_interval = ?,
			last_generated_date = ?, last_generated_reference_month = ?
		WHERE id = ?`,
		t.IsPaused, t.AccountID, string(t.Type), t.Amount.String(), t.Description,
		nullString(t.CategoryID), nullString(t.Notes), refDate,
		formatDate(t.StartDate), nullDate(t.EndDate),
		string(t.RecurrenceUnit), t.RecurrenceInterval,
		nullDate(t.LastGeneratedDate), nullDate(t.LastGeneratedReferenceMonth), t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update recurring transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrRecurringTransactionNotFound
	}

	if err := s.setLinks(q, "recurring_transaction_tag", "tag_id", t.ID, t.TagIDs); err != nil {
		return err
	}
	return s.setLinks(q, "recurring_transaction_entity", "entity_id", t.ID, t.EntityIDs)
}

// GetByID retrieves a template by ID.
func (s *RecurringRepository) GetByID(q Querier, id string) (model.RecurringTransaction, error) {
	row := q.QueryRow(`SELECT `+recurringColumns+` FROM recurring_transaction WHERE id = ?`, id)

	t, err := scanRecurring(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RecurringTransaction{}, apperrors.ErrRecurringTransactionNotFound
	}
	if err != nil {
		return model.RecurringTransaction{}, err
	}
	if err := s.loadLinks(q, &t); err != nil {
		return model.RecurringTransaction{}, err
	}
	return t, nil
}

// List retrieves all templates. When activeOnly is set, paused templates are
// excluded; the generation sweep uses this.
func (s *RecurringRepository) List(activeOnly bool) ([]model.RecurringTransaction, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_transaction`
	if activeOnly {
		query += ` WHERE is_paused = FALSE`
	}
	query += ` ORDER BY start_date ASC, id ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring_transaction table: %w", err)
	}
	defer rows.Close()

	templates := []model.RecurringTransaction{}
	for rows.Next() {
		t, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring_transaction table: %w", err)
	}

	for i := range templates {
		if err := s.loadLinks(s.db, &templates[i]); err != nil {
			return nil, err
		}
	}
	return templates, nil
}

// Delete removes a template. Generated entries cascade at the schema level.
func (s *RecurringRepository) Delete(q Querier, id string) error {
	res, err := q.Exec(`DELETE FROM recurring_transaction WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recurring transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrRecurringTransactionNotFound
	}
	return nil
}

func (s *RecurringRepository) setLinks(q Querier, table, column, recurringID string, ids []string) error {
	if _, err := q.Exec(`DELETE FROM `+table+` WHERE recurring_id = ?`, recurringID); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	for _, id := range ids {
		if _, err := q.Exec(
			`INSERT INTO `+table+` (recurring_id, `+column+`) VALUES (?, ?)`, recurringID, id,
		); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

func (s *RecurringRepository) loadLinks(q Querier, t *model.RecurringTransaction) error {
	tags, err := queryLinkIDs(q, `SELECT tag_id FROM recurring_transaction_tag WHERE recurring_id = ? ORDER BY tag_id`, t.ID)
	if err != nil {
		return err
	}
	entities, err := queryLinkIDs(q, `SELECT entity_id FROM recurring_transaction_entity WHERE recurring_id = ? ORDER BY entity_id`, t.ID)
	if err != nil {
		return err
	}
	t.TagIDs = tags
	t.EntityIDs = entities
	return nil
}

func scanRecurring(sc rowScanner) (model.RecurringTransaction, error) {
	var t model.RecurringTransaction
	var amountStr, startStr string
	var refDate, endDate, lastDate, lastRefMonth sql.NullString
	var categoryID, notes, owner, createdAt sql.NullString

	err := sc.Scan(
		&t.ID, &t.IsPaused, &t.AccountID, (*string)(&t.Type), &amountStr, &t.Description,
		&categoryID, &notes, &refDate, &startStr, &endDate,
		(*string)(&t.RecurrenceUnit), &t.RecurrenceInterval,
		&lastDate, &lastRefMonth, &owner, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RecurringTransaction{}, err
		}
		return model.RecurringTransaction{}, fmt.Errorf("failed to scan recurring_transaction results: %w", err)
	}

	if t.Amount, err = ParseDecimal(amountStr); err != nil {
		return model.RecurringTransaction{}, err
	}
	if t.StartDate, err = ParseTime(startStr); err != nil {
		return model.RecurringTransaction{}, err
	}
	if refDate.Valid && refDate.String != "" {
		if t.ReferenceDate, err = ParseTime(refDate.String); err != nil {
			return model.RecurringTransaction{}, err
		}
	}
	if t.EndDate, err = scanNullDate(endDate); err != nil {
		return model.RecurringTransaction{}, err
	}
	if t.LastGeneratedDate, err = scanNullDate(lastDate); err != nil {
		return model.RecurringTransaction{}, err
	}
	if t.LastGeneratedReferenceMonth, err = scanNullDate(lastRefMonth); err != nil {
		return model.RecurringTransaction{}, err
	}
	t.CategoryID = categoryID.String
	t.Notes = notes.String
	t.Owner = owner.String
	return t, nil
}
