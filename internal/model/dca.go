package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DCAStrategy is a periodic-investment strategy: recurring purchases of a
// target currency paid for in a payment currency. Aggregates over its entries
// give the weighted-average cost basis and mark-to-market profit/loss.
type DCAStrategy struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	TargetCurrency  string    `json:"targetCurrency"`
	PaymentCurrency string    `json:"paymentCurrency"`
	Notes           string    `json:"notes,omitempty"`
	Owner           string    `json:"owner,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
}

// DCAEntry is one purchase inside a strategy. AmountReceived is strictly
// positive; the entry price is AmountPaid / AmountReceived.
type DCAEntry struct {
	ID             string          `json:"id"`
	StrategyID     string          `json:"strategyId"`
	Date           time.Time       `json:"date"`
	AmountPaid     decimal.Decimal `json:"amountPaid"`
	AmountReceived decimal.Decimal `json:"amountReceived"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"createdAt,omitempty"`
}

// DCAEntryView is a DCAEntry enriched with derived valuation fields.
// Pointer fields are nil when no market price is available; they serialize
// as JSON null so clients never mistake "unavailable" for zero.
type DCAEntryView struct {
	DCAEntry
	EntryPrice           decimal.Decimal  `json:"entryPrice"`
	CurrentValue         *decimal.Decimal `json:"currentValue"`
	ProfitLoss           *decimal.Decimal `json:"profitLoss"`
	ProfitLossPercentage *decimal.Decimal `json:"profitLossPercentage"`
}

// DCAAggregates is the strategy-level valuation summary. All pointer fields
// are nil when undefined (no entries, or no exchange rate available).
type DCAAggregates struct {
	StrategyID                 string           `json:"strategyId"`
	TotalInvested              decimal.Decimal  `json:"totalInvested"`
	TotalReceived              decimal.Decimal  `json:"totalReceived"`
	AverageEntryPrice          *decimal.Decimal `json:"averageEntryPrice"`
	TotalEntries               int              `json:"totalEntries"`
	CurrentPrice               *decimal.Decimal `json:"currentPrice"`
	CurrentPriceDate           *time.Time       `json:"currentPriceDate,omitempty"`
	CurrentTotalValue          *decimal.Decimal `json:"currentTotalValue"`
	TotalProfitLoss            *decimal.Decimal `json:"totalProfitLoss"`
	TotalProfitLossPercentage  *decimal.Decimal `json:"totalProfitLossPercentage"`
	Entries                    []DCAEntryView   `json:"entries"`
}

// FrequencyPoint is one calendar-month bucket of a strategy's investment
// cadence: how many entries fell in the period and how much was paid in total.
type FrequencyPoint struct {
	Period    string          `json:"period"` // "2006-01"
	Count     int             `json:"count"`
	TotalPaid decimal.Decimal `json:"totalPaid"`
}

// PricePoint pairs an entry's own price against the market price resolved at
// the entry's date, for divergence visualization. MarketPrice is nil when no
// rate existed at that date.
type PricePoint struct {
	Date        time.Time        `json:"date"`
	EntryPrice  decimal.Decimal  `json:"entryPrice"`
	MarketPrice *decimal.Decimal `json:"marketPrice"`
}
