package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate represents a currency exchange rate for a specific date.
// Rate is the number of units of ToCurrency per unit of FromCurrency.
type ExchangeRate struct {
	ID           string          `json:"id"`
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	Rate         decimal.Decimal `json:"rate"`
	Date         time.Time       `json:"date"`
	CreatedAt    time.Time       `json:"createdAt,omitempty"`
}
