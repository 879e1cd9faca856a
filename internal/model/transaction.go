package model

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// ParseTransactionType validates a type string.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case Income, Expense:
		return TransactionType(s), nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// Transaction is a single income or expense record owned by the server.
type Transaction struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Date        Date            `json:"date"`
	Timestamp   string          `json:"timestamp,omitempty"`
	UserID      int64           `json:"user_id,omitempty"`
}

// EntityID implements controller.Entity.
func (t Transaction) EntityID() int64 { return t.ID }

// Signed returns the amount with expenses negated.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TransactionInput is the validated payload for create and update calls.
type TransactionInput struct {
	Description string
	Amount      decimal.Decimal
	Type        TransactionType
	Category    string
	Date        Date
}

// MarshalJSON sends the amount as a JSON number, matching what the server parses.
func (in TransactionInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Description string          `json:"description"`
		Amount      json.Number     `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Date        Date            `json:"date"`
	}{
		Description: in.Description,
		Amount:      json.Number(in.Amount.String()),
		Type:        in.Type,
		Category:    in.Category,
		Date:        in.Date,
	})
}

// TransactionFields is the raw, unvalidated form state for a transaction.
type TransactionFields struct {
	Description string
	Amount      string
	Type        string
	Category    string
	Date        string
}

// FieldsFromTransaction loads an existing record into form fields.
func FieldsFromTransaction(t Transaction) TransactionFields {
	return TransactionFields{
		Description: t.Description,
		Amount:      t.Amount.String(),
		Type:        string(t.Type),
		Category:    t.Category,
		Date:        t.Date.String(),
	}
}

// NewTransactionFields returns an empty expense draft dated today.
func NewTransactionFields() TransactionFields {
	return TransactionFields{
		Type: string(Expense),
		Date: Today().String(),
	}
}
