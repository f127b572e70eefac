package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fintrack/finance-tracker-backend/internal/apperrors"
	"github.com/fintrack/finance-tracker-backend/internal/model"
)

// DCARepository provides data access methods for DCA strategies and their
// entries. Entries are owned by the strategy and cascade on deletion.
type DCARepository struct {
	db *sql.DB
}

// NewDCARepository creates a new DCARepository with the provided database connection.
func NewDCARepository(db *sql.DB) *DCARepository {
	return &DCARepository{db: db}
}

// InsertStrategy persists a new strategy.
func (s *DCARepository) InsertStrategy(q Querier, st *model.DCAStrategy) error {
	_, err := q.Exec(`
		INSERT INTO dca_strategy (id, name, target_currency, payment_currency, notes, owner)
		VALUES (?, ?, ?, ?, ?, ?)`,
		st.ID, st.Name, st.TargetCurrency, st.PaymentCurrency,
		nullString(st.Notes), nullString(st.Owner),
	)
	if err != nil {
		return fmt.Errorf("failed to insert dca strategy: %w", err)
	}
	return nil
}

// UpdateStrategy overwrites a strategy's descriptive fields.
func (s *DCARepository) UpdateStrategy(q Querier, st *model.DCAStrategy) error {
	res, err := q.Exec(`
		UPDATE dca_strategy
		SET name = ?, target_currency = ?, payment_currency = ?, notes = ?
		WHERE id = ?`,
		st.Name, st.TargetCurrency, st.PaymentCurrency, nullString(st.Notes), st.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update dca strategy: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrStrategyNotFound
	}
	return nil
}

// GetStrategy retrieves a strategy by ID.
func (s *DCARepository) GetStrategy(id string) (model.DCAStrategy, error) {
	var st model.DCAStrategy
	var notes, owner, createdAt sql.NullString

	err := s.db.QueryRow(`
		SELECT id, name, target_currency, payment_currency, notes, owner, created_at
		FROM dca_strategy WHERE id = ?`, id,
	).Scan(&st.ID, &st.Name, &st.TargetCurrency, &st.PaymentCurrency, &notes, &owner, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DCAStrategy{}, apperrors.ErrStrategyNotFound
	}
	if err != nil {
		return model.DCAStrategy{}, fmt.Errorf("failed to scan dca_strategy results: %w", err)
	}
	st.Notes = notes.String
	st.Owner = owner.String
	return st, nil
}

// ListStrategies retrieves all strategies ordered by name.
func (s *DCARepository) ListStrategies() ([]model.DCAStrategy, error) {
	rows, err := s.db.Query(`
		SELECT id, name, target_currency, payment_currency, notes, owner, created_at
		FROM dca_strategy ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dca_strategy table: %w", err)
	}
	defer rows.Close()

	strategies := []model.DCAStrategy{}
	for rows.Next() {
		var st model.DCAStrategy
		var notes, owner, createdAt sql.NullString
		if err := rows.Scan(&st.ID, &st.Name, &st.TargetCurrency, &st.PaymentCurrency, &notes, &owner, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan dca_strategy results: %w", err)
		}
		st.Notes = notes.String
		st.Owner = owner.String
		strategies = append(strategies, st)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dca_strategy table: %w", err)
	}
	return strategies, nil
}

// DeleteStrategy removes a strategy. Entries cascade at the schema level.
func (s *DCARepository) DeleteStrategy(q Querier, id string) error {
	res, err := q.Exec(`DELETE FROM dca_strategy WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dca strategy: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrStrategyNotFound
	}
	return nil
}

// InsertEntry persists a new entry.
func (s *DCARepository) InsertEntry(q Querier, e *model.DCAEntry) error {
	_, err := q.Exec(`
		INSERT INTO dca_entry (id, strategy_id, date, amount_paid, amount_received, notes)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.StrategyID, formatDate(e.Date),
		e.AmountPaid.String(), e.AmountReceived.String(), nullString(e.Notes),
	)
	if err != nil {
		return fmt.Errorf("failed to insert dca entry: %w", err)
	}
	return nil
}

// UpdateEntry overwrites an entry's fields.
func (s *DCARepository) UpdateEntry(q Querier, e *model.DCAEntry) error {
	res, err := q.Exec(`
		UPDATE dca_entry SET date = ?, amount_paid = ?, amount_received = ?, notes = ?
		WHERE id = ?`,
		formatDate(e.Date), e.AmountPaid.String(), e.AmountReceived.String(),
		nullString(e.Notes), e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update dca entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrStrategyEntryNotFound
	}
	return nil
}

// DeleteEntry removes an entry.
func (s *DCARepository) DeleteEntry(q Querier, id string) error {
	res, err := q.Exec(`DELETE FROM dca_entry WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dca entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrStrategyEntryNotFound
	}
	return nil
}

// GetEntries retrieves a strategy's entries ordered by date ascending, ties
// broken by id ascending so folds over them are reproducible.
func (s *DCARepository) GetEntries(strategyID string) ([]model.DCAEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, strategy_id, date, amount_paid, amount_received, notes, created_at
		FROM dca_entry
		WHERE strategy_id = ?
		ORDER BY date ASC, id ASC`, strategyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dca_entry table: %w", err)
	}
	defer rows.Close()

	entries := []model.DCAEntry{}
	for rows.Next() {
		var e model.DCAEntry
		var dateStr, paidStr, receivedStr string
		var notes, createdAt sql.NullString

		if err := rows.Scan(&e.ID, &e.StrategyID, &dateStr, &paidStr, &receivedStr, &notes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan dca_entry results: %w", err)
		}
		if e.Date, err = ParseTime(dateStr); err != nil {
			return nil, err
		}
		if e.AmountPaid, err = ParseDecimal(paidStr); err != nil {
			return nil, err
		}
		if e.AmountReceived, err = ParseDecimal(receivedStr); err != nil {
			return nil, err
		}
		e.Notes = notes.String
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dca_entry table: %w", err)
	}
	return entries, nil
}
