package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrack/finance-tracker-backend/internal/apperrors"
	"github.com/fintrack/finance-tracker-backend/internal/model"
	"github.com/fintrack/finance-tracker-backend/internal/money"
	"github.com/fintrack/finance-tracker-backend/internal/repository"
)

// DCAService manages dollar-cost-averaging strategies and computes their
// valuation aggregates.
//
// Aggregation is a deterministic fold over entries ordered by (date, id).
// Every derived value is truncated to the aggregate precision, and every
// value that depends on an exchange rate is a nullable pointer: a missing
// rate yields null, never zero.
type DCAService struct {
	db          *sql.DB
	dcaRepo     *repository.DCARepository
	rateService *RateService
}

// NewDCAService creates a new DCAService with the provided dependencies.
func NewDCAService(db *sql.DB, dcaRepo *repository.DCARepository, rateService *RateService) *DCAService {
	return &DCAService{
		db:          db,
		dcaRepo:     dcaRepo,
		rateService: rateService,
	}
}

// NewDCAStrategyInput carries the fields for strategy creation.
type NewDCAStrategyInput struct {
	Name            string
	TargetCurrency  string
	PaymentCurrency string
	Notes           string
}

// CreateStrategy persists a new strategy.
func (s *DCAService) CreateStrategy(actor string, in NewDCAStrategyInput) (*model.DCAStrategy, error) {
	st := &model.DCAStrategy{
		ID:              uuid.New().String(),
		Name:            in.Name,
		TargetCurrency:  in.TargetCurrency,
		PaymentCurrency: in.PaymentCurrency,
		Notes:           in.Notes,
		Owner:           actor,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.dcaRepo.InsertStrategy(s.db, st); err != nil {
		return nil, err
	}
	return st, nil
}

// UpdateDCAStrategyInput carries the editable strategy fields. Nil pointers
// leave the field unchanged.
type UpdateDCAStrategyInput struct {
	Name            *string
	TargetCurrency  *string
	PaymentCurrency *string
	Notes           *string
}

// UpdateStrategy applies the edit to a strategy.
func (s *DCAService) UpdateStrategy(id string, in UpdateDCAStrategyInput) (*model.DCAStrategy, error) {
	st, err := s.dcaRepo.GetStrategy(id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		st.Name = *in.Name
	}
	if in.TargetCurrency != nil {
		st.TargetCurrency = *in.TargetCurrency
	}
	if in.PaymentCurrency != nil {
		st.PaymentCurrency = *in.PaymentCurrency
	}
	if in.Notes != nil {
		st.Notes = *in.Notes
	}
	if err := s.dcaRepo.UpdateStrategy(s.db, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// GetStrategy retrieves a strategy by ID.
func (s *DCAService) GetStrategy(id string) (model.DCAStrategy, error) {
	return s.dcaRepo.GetStrategy(id)
}

// ListStrategies retrieves all strategies.
func (s *DCAService) ListStrategies() ([]model.DCAStrategy, error) {
	return s.dcaRepo.ListStrategies()
}

// DeleteStrategy removes a strategy and, by cascade, its entries.
func (s *DCAService) DeleteStrategy(id string) error {
	return s.dcaRepo.DeleteStrategy(s.db, id)
}

// NewDCAEntryInput carries the fields for entry creation.
type NewDCAEntryInput struct {
	Date           time.Time
	AmountPaid     decimal.Decimal
	AmountReceived decimal.Decimal
	Notes          string
}

// CreateEntry records a purchase inside a strategy. AmountReceived must be
// strictly positive; the entry price divides by it.
func (s *DCAService) CreateEntry(strategyID string, in NewDCAEntryInput) (*model.DCAEntry, error) {
	if !in.AmountReceived.IsPositive() {
		return nil, fmt.Errorf("%w: amount received must be positive", apperrors.ErrDivisionUndefined)
	}
	if _, err := s.dcaRepo.GetStrategy(strategyID); err != nil {
		return nil, err
	}

	e := &model.DCAEntry{
		ID:             uuid.New().String(),
		StrategyID:     strategyID,
		Date:           in.Date,
		AmountPaid:     in.AmountPaid,
		AmountReceived: in.AmountReceived,
		Notes:          in.Notes,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.dcaRepo.InsertEntry(s.db, e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateDCAEntryInput carries the editable entry fields. Nil pointers leave
// the field unchanged.
type UpdateDCAEntryInput struct {
	Date           *time.Time
	AmountPaid     *decimal.Decimal
	AmountReceived *decimal.Decimal
	Notes          *string
}

// UpdateEntry applies the edit to an entry, holding the positive-received
// invariant.
func (s *DCAService) UpdateEntry(strategyID, entryID string, in UpdateDCAEntryInput) (*model.DCAEntry, error) {
	entries, err := s.dcaRepo.GetEntries(strategyID)
	if err != nil {
		return nil, err
	}
	var entry *model.DCAEntry
	for i := range entries {
		if entries[i].ID == entryID {
			entry = &entries[i]
			break
		}
	}
	if entry == nil {
		return nil, apperrors.ErrStrategyEntryNotFound
	}

	if in.Date != nil {
		entry.Date = *in.Date
	}
	if in.AmountPaid != nil {
		entry.AmountPaid = *in.AmountPaid
	}
	if in.AmountReceived != nil {
		entry.AmountReceived = *in.AmountReceived
	}
	if in.Notes != nil {
		entry.Notes = *in.Notes
	}
	if !entry.AmountReceived.IsPositive() {
		return nil, fmt.Errorf("%w: amount received must be positive", apperrors.ErrDivisionUndefined)
	}

	if err := s.dcaRepo.UpdateEntry(s.db, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteEntry removes an entry from a strategy.
func (s *DCAService) DeleteEntry(entryID string) error {
	return s.dcaRepo.DeleteEntry(s.db, entryID)
}

// Aggregates computes the strategy-level valuation summary: totals, the
// weighted-average cost basis, and mark-to-market profit/loss against the
// latest payment/target rate. A strategy with no entries reports null derived
// values, and a missing rate nulls every market-dependent field.
func (s *DCAService) Aggregates(strategyID string) (*model.DCAAggregates, error) {
	st, err := s.dcaRepo.GetStrategy(strategyID)
	if err != nil {
		return nil, err
	}
	entries, err := s.dcaRepo.GetEntries(strategyID)
	if err != nil {
		return nil, err
	}

	agg := &model.DCAAggregates{
		StrategyID:   strategyID,
		TotalEntries: len(entries),
		Entries:      make([]model.DCAEntryView, 0, len(entries)),
	}
	if len(entries) == 0 {
		return agg, nil
	}

	currentPrice, priceDate, err := s.currentPrice(st)
	if err != nil {
		return nil, err
	}
	if currentPrice != nil {
		agg.CurrentPrice = currentPrice
		agg.CurrentPriceDate = priceDate
	}

	for _, e := range entries {
		agg.TotalInvested = agg.TotalInvested.Add(e.AmountPaid)
		agg.TotalReceived = agg.TotalReceived.Add(e.AmountReceived)

		view, err := entryView(e, currentPrice)
		if err != nil {
			return nil, err
		}
		agg.Entries = append(agg.Entries, view)
	}

	if agg.TotalReceived.IsPositive() {
		avg, err := money.DivAggregate(agg.TotalInvested, agg.TotalReceived)
		if err != nil {
			return nil, err
		}
		agg.AverageEntryPrice = &avg
	}
	if currentPrice != nil {
		value := money.TruncateAggregate(agg.TotalReceived.Mul(*currentPrice))
		pl := value.Sub(agg.TotalInvested)
		agg.CurrentTotalValue = &value
		agg.TotalProfitLoss = &pl
		if agg.TotalInvested.IsPositive() {
			pct, err := money.DivAggregate(pl.Mul(decimal.NewFromInt(100)), agg.TotalInvested)
			if err != nil {
				return nil, err
			}
			agg.TotalProfitLossPercentage = &pct
		}
	}
	return agg, nil
}

// InvestmentFrequency buckets a strategy's entries by calendar month,
// returning per-period entry count and summed amount paid in chronological
// order.
func (s *DCAService) InvestmentFrequency(strategyID string) ([]model.FrequencyPoint, error) {
	if _, err := s.dcaRepo.GetStrategy(strategyID); err != nil {
		return nil, err
	}
	entries, err := s.dcaRepo.GetEntries(strategyID)
	if err != nil {
		return nil, err
	}

	points := make([]model.FrequencyPoint, 0)
	for _, e := range entries {
		period := e.Date.Format("2006-01")
		if n := len(points); n > 0 && points[n-1].Period == period {
			points[n-1].Count++
			points[n-1].TotalPaid = points[n-1].TotalPaid.Add(e.AmountPaid)
			continue
		}
		points = append(points, model.FrequencyPoint{
			Period:    period,
			Count:     1,
			TotalPaid: e.AmountPaid,
		})
	}
	return points, nil
}

// PriceComparison pairs each entry's own price against the market rate
// resolved at that entry's date. Entries whose date has no stored rate get a
// null market price.
func (s *DCAService) PriceComparison(strategyID string) ([]model.PricePoint, error) {
	st, err := s.dcaRepo.GetStrategy(strategyID)
	if err != nil {
		return nil, err
	}
	entries, err := s.dcaRepo.GetEntries(strategyID)
	if err != nil {
		return nil, err
	}

	points := make([]model.PricePoint, 0, len(entries))
	for _, e := range entries {
		entryPrice, err := money.DivAggregate(e.AmountPaid, e.AmountReceived)
		if err != nil {
			return nil, err
		}
		point := model.PricePoint{Date: e.Date, EntryPrice: entryPrice}

		rate, _, err := s.rateService.RateAt(st.PaymentCurrency, st.TargetCurrency, e.Date)
		if err == nil {
			point.MarketPrice = &rate
		} else if !errors.Is(err, apperrors.ErrMissingExchangeRate) {
			return nil, err
		}
		points = append(points, point)
	}
	return points, nil
}

// CurrentPrice resolves the latest payment/target rate for a strategy.
// Returns nil values when no rate is stored; callers must treat that as
// "unavailable", never as zero.
func (s *DCAService) CurrentPrice(strategyID string) (*decimal.Decimal, *time.Time, error) {
	st, err := s.dcaRepo.GetStrategy(strategyID)
	if err != nil {
		return nil, nil, err
	}
	return s.currentPrice(st)
}

func (s *DCAService) currentPrice(st model.DCAStrategy) (*decimal.Decimal, *time.Time, error) {
	rate, asOf, err := s.rateService.Latest(st.PaymentCurrency, st.TargetCurrency)
	if err != nil {
		if errors.Is(err, apperrors.ErrMissingExchangeRate) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return &rate, &asOf, nil
}

// entryView derives the per-entry valuation fields. Market-dependent fields
// stay nil without a current price; the percentage additionally needs a
// positive amount paid.
func entryView(e model.DCAEntry, currentPrice *decimal.Decimal) (model.DCAEntryView, error) {
	entryPrice, err := money.DivAggregate(e.AmountPaid, e.AmountReceived)
	if err != nil {
		return model.DCAEntryView{}, err
	}
	view := model.DCAEntryView{DCAEntry: e, EntryPrice: entryPrice}
	if currentPrice == nil {
		return view, nil
	}

	value := money.TruncateAggregate(e.AmountReceived.Mul(*currentPrice))
	pl := value.Sub(e.AmountPaid)
	view.CurrentValue = &value
	view.ProfitLoss = &pl
	if e.AmountPaid.IsPositive() {
		pct, err := money.DivAggregate(pl.Mul(decimal.NewFromInt(100)), e.AmountPaid)
		if err != nil {
			return model.DCAEntryView{}, err
		}
		view.ProfitLossPercentage = &pct
	}
	return view, nil
}
