package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fintrack/finance-tracker-backend/internal/apperrors"
	"github.com/fintrack/finance-tracker-backend/internal/model"
)

// InstallmentRepository provides data access methods for installment plans.
// Child ledger entries are owned by the plan; deleting a plan cascades.
type InstallmentRepository struct {
	db *sql.DB
}

// NewInstallmentRepository creates a new InstallmentRepository with the provided database connection.
func NewInstallmentRepository(db *sql.DB) *InstallmentRepository {
	return &InstallmentRepository{db: db}
}

const planColumns = `
	id, account_id, type, description, installment_amount, number_of_installments,
	installment_cursor, start_date, reference_date, end_date, recurrence_unit,
	category_id, notes, owner, created_at
`

// Insert persists a new installment plan with its tag and entity links.
func (s *InstallmentRepository) Insert(q Querier, p *model.InstallmentPlan) error {
	var refDate any
	if !p.ReferenceDate.IsZero() {
		refDate = formatDate(p.ReferenceDate)
	}

	_, err := q.Exec(`
		INSERT INTO installment_plan (
			id, account_id, type, description, installment_amount, number_of_installments,
			installment_cursor, start_date, reference_date, end_date, recurrence_unit,
			category_id, notes, owner
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.AccountID, string(p.Type), p.Description, p.InstallmentAmount.String(),
		p.NumberOfInstallments, p.InstallmentCursor, formatDate(p.StartDate), refDate,
		formatDate(p.EndDate), string(p.RecurrenceUnit),
		nullString(p.CategoryID), nullString(p.Notes), nullString(p.Owner),
	)
	if err != nil {
		return fmt.Errorf("failed to insert installment plan: %w", err)
	}

	if err := s.setLinks(q, "installment_plan_tag", "tag_id", p.ID, p.TagIDs); err != nil {
		return err
	}
	return s.setLinks(q, "installment_plan_entity", "entity_id", p.ID, p.EntityIDs)
}

// Update overwrites a plan's fields, including the reconciliation cursor and
// the derived end date.
func (s *InstallmentRepository) Update(q Querier, p *model.InstallmentPlan) error {
	var refDate any
	if !p.ReferenceDate.IsZero() {
		refDate = formatDate(p.ReferenceDate)
	}

	res, err := q.Exec(`
		UPDATE installment_plan
		SET account_id = ?, type = ?, description = ?, installment_amount = ?,
			number_of_installments = ?, installment_cursor = ?, start_date = ?,
			reference_date = ?, end_date = ?, recurrence_unit = ?,
			category_id = ?, notes = ?
		WHERE id = ?`,
		p.AccountID, string(p.Type), p.Description, p.InstallmentAmount.String(),
		p.NumberOfInstallments, p.InstallmentCursor, formatDate(p.StartDate),
		refDate, formatDate(p.EndDate), string(p.RecurrenceUnit),
		nullString(p.CategoryID), nullString(p.Notes), p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update installment plan: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrInstallmentPlanNotFound
	}

	if err := s.setLinks(q, "installment_plan_tag", "tag_id", p.ID, p.TagIDs); err != nil {
		return err
	}
	return s.setLinks(q, "installment_plan_entity", "entity_id", p.ID, p.EntityIDs)
}

// GetByID retrieves a plan by ID.
func (s *InstallmentRepository) GetByID(q Querier, id string) (model.InstallmentPlan, error) {
	row := q.QueryRow(`SELECT `+planColumns+` FROM installment_plan WHERE id = ?`, id)

	p, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.InstallmentPlan{}, apperrors.ErrInstallmentPlanNotFound
	}
	if err != nil {
		return model.InstallmentPlan{}, err
	}
	if err := s.loadLinks(q, &p); err != nil {
		return model.InstallmentPlan{}, err
	}
	return p, nil
}

// List retrieves all plans ordered by start date.
func (s *InstallmentRepository) List() ([]model.InstallmentPlan, error) {
	rows, err := s.db.Query(`SELECT ` + planColumns + ` FROM installment_plan ORDER BY start_date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query installment_plan table: %w", err)
	}
	defer rows.Close()

	plans := []model.InstallmentPlan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating installment_plan table: %w", err)
	}

	for i := range plans {
		if err := s.loadLinks(s.db, &plans[i]); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

// Delete removes a plan. Child entries cascade at the schema level.
func (s *InstallmentRepository) Delete(q Querier, id string) error {
	res, err := q.Exec(`DELETE FROM installment_plan WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete installment plan: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrInstallmentPlanNotFound
	}
	return nil
}

func (s *InstallmentRepository) setLinks(q Querier, table, column, planID string, ids []string) error {
	if _, err := q.Exec(`DELETE FROM `+table+` WHERE plan_id = ?`, planID); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	for _, id := range ids {
		if _, err := q.Exec(
			`INSERT INTO `+table+` (plan_id, `+column+`) VALUES (?, ?)`, planID, id,
		); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

func (s *InstallmentRepository) loadLinks(q Querier, p *model.InstallmentPlan) error {
	tags, err := queryLinkIDs(q, `SELECT tag_id FROM installment_plan_tag WHERE plan_id = ? ORDER BY tag_id`, p.ID)
	if err != nil {
		return err
	}
	entities, err := queryLinkIDs(q, `SELECT entity_id FROM installment_plan_entity WHERE plan_id = ? ORDER BY entity_id`, p.ID)
	if err != nil {
		return err
	}
	p.TagIDs = tags
	p.EntityIDs = entities
	return nil
}

func scanPlan(sc rowScanner) (model.InstallmentPlan, error) {
	var p model.InstallmentPlan
	var amountStr, startStr, endStr string
	var refDate, categoryID, notes, owner, createdAt sql.NullString

	err := sc.Scan(
		&p.ID, &p.AccountID, (*string)(&p.Type), &p.Description, &amountStr,
		&p.NumberOfInstallments, &p.InstallmentCursor, &startStr, &refDate, &endStr,
		(*string)(&p.RecurrenceUnit), &categoryID, &notes, &owner, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.InstallmentPlan{}, err
		}
		return model.InstallmentPlan{}, fmt.Errorf("failed to scan installment_plan results: %w", err)
	}

	if p.InstallmentAmount, err = ParseDecimal(amountStr); err != nil {
		return model.InstallmentPlan{}, err
	}
	if p.StartDate, err = ParseTime(startStr); err != nil {
		return model.InstallmentPlan{}, err
	}
	if p.EndDate, err = ParseTime(endStr); err != nil {
		return model.InstallmentPlan{}, err
	}
	if refDate.Valid && refDate.String != "" {
		if p.ReferenceDate, err = ParseTime(refDate.String); err != nil {
			return model.InstallmentPlan{}, err
		}
	}
	p.CategoryID = categoryID.String
	p.Notes = notes.String
	p.Owner = owner.String
	return p, nil
}
