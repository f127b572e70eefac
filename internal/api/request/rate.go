package request

type SetExchangeRateRequest struct {
	FromCurrency string `json:"fromCurrency"`
	ToCurrency   string `json:"toCurrency"`
	Rate         string `json:"rate"`
	Date         string `json:"date"`
}

type SetProviderTokenRequest struct {
	Token string `json:"token"`
}
