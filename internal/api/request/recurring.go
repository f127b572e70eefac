package request

type CreateRecurringTransactionRequest struct {
	AccountID          string   `json:"accountId"`
	Type               string   `json:"type"`
	Description        string   `json:"description"`
	Amount             string   `json:"amount"`
	StartDate          string   `json:"startDate"`
	EndDate            *string  `json:"endDate,omitempty"`
	ReferenceDate      *string  `json:"referenceDate,omitempty"`
	RecurrenceUnit     string   `json:"recurrenceUnit"`
	RecurrenceInterval int      `json:"recurrenceInterval"`
	CategoryID         string   `json:"categoryId,omitempty"`
	TagIDs             []string `json:"tagIds,omitempty"`
	EntityIDs          []string `json:"entityIds,omitempty"`
	Notes              string   `json:"notes,omitempty"`
}

// UpdateRecurringTransactionRequest edits a template. ClearEndDate removes an
// existing end date; it wins over EndDate when both are set.
type UpdateRecurringTransactionRequest struct {
	AccountID          *string  `json:"accountId,omitempty"`
	Type               *string  `json:"type,omitempty"`
	Description        *string  `json:"description,omitempty"`
	Amount             *string  `json:"amount,omitempty"`
	StartDate          *string  `json:"startDate,omitempty"`
	EndDate            *string  `json:"endDate,omitempty"`
	ClearEndDate       bool     `json:"clearEndDate,omitempty"`
	ReferenceDate      *string  `json:"referenceDate,omitempty"`
	RecurrenceUnit     *string  `json:"recurrenceUnit,omitempty"`
	RecurrenceInterval *int     `json:"recurrenceInterval,omitempty"`
	CategoryID         *string  `json:"categoryId,omitempty"`
	TagIDs             []string `json:"tagIds,omitempty"`
	EntityIDs          []string `json:"entityIds,omitempty"`
	Notes              *string  `json:"notes,omitempty"`
}
