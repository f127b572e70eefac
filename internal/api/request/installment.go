package request

type CreateInstallmentPlanRequest struct {
	AccountID            string   `json:"accountId"`
	Type                 string   `json:"type"`
	Description          string   `json:"description"`
	InstallmentAmount    string   `json:"installmentAmount"`
	NumberOfInstallments int      `json:"numberOfInstallments"`
	StartDate            string   `json:"startDate"`
	ReferenceDate        *string  `json:"referenceDate,omitempty"`
	RecurrenceUnit       string   `json:"recurrenceUnit"`
	CategoryID           string   `json:"categoryId,omitempty"`
	TagIDs               []string `json:"tagIds,omitempty"`
	EntityIDs            []string `json:"entityIds,omitempty"`
	Notes                string   `json:"notes,omitempty"`
}

type UpdateInstallmentPlanRequest struct {
	AccountID            *string  `json:"accountId,omitempty"`
	Type                 *string  `json:"type,omitempty"`
	Description          *string  `json:"description,omitempty"`
	InstallmentAmount    *string  `json:"installmentAmount,omitempty"`
	NumberOfInstallments *int     `json:"numberOfInstallments,omitempty"`
	StartDate            *string  `json:"startDate,omitempty"`
	ReferenceDate        *string  `json:"referenceDate,omitempty"`
	RecurrenceUnit       *string  `json:"recurrenceUnit,omitempty"`
	CategoryID           *string  `json:"categoryId,omitempty"`
	TagIDs               []string `json:"tagIds,omitempty"`
	EntityIDs            []string `json:"entityIds,omitempty"`
	Notes                *string  `json:"notes,omitempty"`
}
