// Package request defines the JSON request bodies accepted by the API.
// Monetary amounts travel as decimal strings, never floats, and dates as
// YYYY-MM-DD strings.
package request

type CreateTransactionRequest struct {
	AccountID      string   `json:"accountId"`
	Type           string   `json:"type"`
	Description    string   `json:"description"`
	Amount         string   `json:"amount"`
	Date           string   `json:"date"`
	ReferenceMonth string   `json:"referenceMonth,omitempty"`
	CategoryID     string   `json:"categoryId,omitempty"`
	TagIDs         []string `json:"tagIds,omitempty"`
	EntityIDs      []string `json:"entityIds,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

type UpdateTransactionRequest struct {
	AccountID      *string  `json:"accountId,omitempty"`
	Type           *string  `json:"type,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Amount         *string  `json:"amount,omitempty"`
	Date           *string  `json:"date,omitempty"`
	ReferenceMonth *string  `json:"referenceMonth,omitempty"`
	CategoryID     *string  `json:"categoryId,omitempty"`
	TagIDs         []string `json:"tagIds,omitempty"`
	EntityIDs      []string `json:"entityIds,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
}
