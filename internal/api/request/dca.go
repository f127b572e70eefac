package request

type CreateDCAStrategyRequest struct {
	Name            string `json:"name"`
	TargetCurrency  string `json:"targetCurrency"`
	PaymentCurrency string `json:"paymentCurrency"`
	Notes           string `json:"notes,omitempty"`
}

type UpdateDCAStrategyRequest struct {
	Name            *string `json:"name,omitempty"`
	TargetCurrency  *string `json:"targetCurrency,omitempty"`
	PaymentCurrency *string `json:"paymentCurrency,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

type CreateDCAEntryRequest struct {
	Date           string `json:"date"`
	AmountPaid     string `json:"amountPaid"`
	AmountReceived string `json:"amountReceived"`
	Notes          string `json:"notes,omitempty"`
}

type UpdateDCAEntryRequest struct {
	Date           *string `json:"date,omitempty"`
	AmountPaid     *string `json:"amountPaid,omitempty"`
	AmountReceived *string `json:"amountReceived,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}
