package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fintrack/finance-tracker-backend/internal/apperrors"
	"github.com/fintrack/finance-tracker-backend/internal/model"
)

// RateRepository provides data access methods for the exchange_rate table.
type RateRepository struct {
	db *sql.DB
}

// NewRateRepository creates a new RateRepository with the provided database connection.
func NewRateRepository(db *sql.DB) *RateRepository {
	return &RateRepository{db: db}
}

// Upsert stores a rate for a currency pair and date, replacing any existing
// rate for that exact combination.
func (s *RateRepository) Upsert(rate *model.ExchangeRate) error {
	if rate.ID == "" {
		rate.ID = uuid.New().String()
	}
	_, err := s.db.Exec(`
		INSERT INTO exchange_rate (id, from_currency, to_currency, rate, date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (from_currency, to_currency, date)
		DO UPDATE SET rate = excluded.rate`,
		rate.ID, rate.FromCurrency, rate.ToCurrency, rate.Rate.String(), formatDate(rate.Date),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert exchange rate: %w", err)
	}
	return nil
}

// LatestAt returns the most recent rate for the pair at or before the given
// date. Returns ErrExchangeRateNotFound when no such rate exists.
func (s *RateRepository) LatestAt(from, to string, at time.Time) (model.ExchangeRate, error) {
	var rate model.ExchangeRate
	var rateStr, dateStr string

	err := s.db.QueryRow(`
		SELECT id, from_currency, to_currency, rate, date
		FROM exchange_rate
		WHERE from_currency = ? AND to_currency = ? AND date <= ?
		ORDER BY date DESC
		LIMIT 1`, from, to, formatDate(at),
	).Scan(&rate.ID, &rate.FromCurrency, &rate.ToCurrency, &rateStr, &dateStr)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ExchangeRate{}, apperrors.ErrExchangeRateNotFound
	}
	if err != nil {
		return model.ExchangeRate{}, fmt.Errorf("failed to scan exchange_rate results: %w", err)
	}

	if rate.Rate, err = ParseDecimal(rateStr); err != nil {
		return model.ExchangeRate{}, err
	}
	if rate.Date, err = ParseTime(dateStr); err != nil {
		return model.ExchangeRate{}, err
	}
	return rate, nil
}
