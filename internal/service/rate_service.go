package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/finance-tracker-backend/internal/apperrors"
	"github.com/fintrack/finance-tracker-backend/internal/model"
	"github.com/fintrack/finance-tracker-backend/internal/repository"
)

// RateService resolves exchange rates for currency pairs at points in time.
// Rates are stored per (from, to, date); resolution picks the most recent
// rate at or before the requested date. A missing rate is reported as
// ErrMissingExchangeRate; valuation callers map it to a null result rather
// than failing.
type RateService struct {
	rateRepo *repository.RateRepository

	// now is injectable for tests.
	now func() time.Time
}

// NewRateService creates a new RateService with the provided repository dependencies.
func NewRateService(rateRepo *repository.RateRepository) *RateService {
	return &RateService{
		rateRepo: rateRepo,
		now:      time.Now,
	}
}

// Latest returns the most recent rate for the pair at or before now, along
// with the date it applies to.
func (s *RateService) Latest(from, to string) (decimal.Decimal, time.Time, error) {
	return s.RateAt(from, to, s.now().UTC())
}

// RateAt returns the applicable rate for the pair at the given date: the most
// recent stored rate dated at or before it.
func (s *RateService) RateAt(from, to string, at time.Time) (decimal.Decimal, time.Time, error) {
	rate, err := s.rateRepo.LatestAt(from, to, at)
	if err != nil {
		if err == apperrors.ErrExchangeRateNotFound {
			return decimal.Decimal{}, time.Time{}, fmt.Errorf("%w: %s/%s", apperrors.ErrMissingExchangeRate, from, to)
		}
		return decimal.Decimal{}, time.Time{}, err
	}
	return rate.Rate, rate.Date, nil
}

// SetRate stores a rate for a pair and date, replacing any existing value.
func (s *RateService) SetRate(from, to string, rate decimal.Decimal, date time.Time) (model.ExchangeRate, error) {
	record := model.ExchangeRate{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         rate,
		Date:         date,
	}
	if err := s.rateRepo.Upsert(&record); err != nil {
		return model.ExchangeRate{}, err
	}
	return record, nil
}
