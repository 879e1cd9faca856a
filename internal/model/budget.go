package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Budget caps spending for a category over a date range.
type Budget struct {
	ID        int64           `json:"id"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	StartDate Date            `json:"start_date"`
	EndDate   Date            `json:"end_date"`
	Timestamp string          `json:"timestamp,omitempty"`
	UserID    int64           `json:"user_id,omitempty"`
}

// EntityID implements controller.Entity.
func (b Budget) EntityID() int64 { return b.ID }

// BudgetInput is the validated payload for create and update calls.
type BudgetInput struct {
	Category  string
	Amount    decimal.Decimal
	StartDate Date
	EndDate   Date
}

// MarshalJSON sends the amount as a JSON number.
func (in BudgetInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Category  string      `json:"category"`
		Amount    json.Number `json:"amount"`
		StartDate Date        `json:"start_date"`
		EndDate   Date        `json:"end_date"`
	}{
		Category:  in.Category,
		Amount:    json.Number(in.Amount.String()),
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
	})
}

// BudgetFields is the raw, unvalidated form state for a budget.
type BudgetFields struct {
	Category  string
	Amount    string
	StartDate string
	EndDate   string
}

// FieldsFromBudget loads an existing record into form fields.
func FieldsFromBudget(b Budget) BudgetFields {
	return BudgetFields{
		Category:  b.Category,
		Amount:    b.Amount.String(),
		StartDate: b.StartDate.String(),
		EndDate:   b.EndDate.String(),
	}
}

// NewBudgetFields returns an empty draft spanning the current month.
func NewBudgetFields() BudgetFields {
	start, end := MonthBounds(Today())
	return BudgetFields{
		StartDate: start.String(),
		EndDate:   end.String(),
	}
}
