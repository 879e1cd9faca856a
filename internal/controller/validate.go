package controller

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/pfm/internal/model"
)

// Validation messages shown to the user.
const (
	MsgTransactionFields = "Please fill in all transaction fields."
	MsgBudgetFields      = "Please fill in all budget fields."
	MsgAmount            = "Amount must be a number."
	MsgType              = "Type must be income or expense."
	MsgDate              = "Dates must be in YYYY-MM-DD format."
	MsgDateOrder         = "Start date cannot be after end date."
	MsgCredentials       = "Please enter email and password."
	MsgPasswordMismatch  = "Passwords do not match."
)

// Validator turns raw form fields into a request payload.
type Validator[F, I any] func(F) (I, error)

// ValidateTransaction checks a transaction draft.
func ValidateTransaction(f model.TransactionFields) (model.TransactionInput, error) {
	desc := strings.TrimSpace(f.Description)
	amount := strings.TrimSpace(f.Amount)
	category := strings.TrimSpace(f.Category)
	date := strings.TrimSpace(f.Date)
	if desc == "" || amount == "" || category == "" || date == "" {
		return model.TransactionInput{}, invalid(MsgTransactionFields)
	}

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return model.TransactionInput{}, invalid(MsgAmount)
	}
	typ, err := model.ParseTransactionType(strings.ToLower(strings.TrimSpace(f.Type)))
	if err != nil {
		return model.TransactionInput{}, invalid(MsgType)
	}
	d, err := model.ParseDate(date)
	if err != nil {
		return model.TransactionInput{}, invalid(MsgDate)
	}

	return model.TransactionInput{
		Description: desc,
		Amount:      amt,
		Type:        typ,
		Category:    category,
		Date:        d,
	}, nil
}

// ValidateBudget checks a budget draft.
func ValidateBudget(f model.BudgetFields) (model.BudgetInput, error) {
	category := strings.TrimSpace(f.Category)
	amount := strings.TrimSpace(f.Amount)
	start := strings.TrimSpace(f.StartDate)
	end := strings.TrimSpace(f.EndDate)
	if category == "" || amount == "" || start == "" || end == "" {
		return model.BudgetInput{}, invalid(MsgBudgetFields)
	}

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return model.BudgetInput{}, invalid(MsgAmount)
	}
	sd, err := model.ParseDate(start)
	if err != nil {
		return model.BudgetInput{}, invalid(MsgDate)
	}
	ed, err := model.ParseDate(end)
	if err != nil {
		return model.BudgetInput{}, invalid(MsgDate)
	}
	if sd.After(ed.Time) {
		return model.BudgetInput{}, invalid(MsgDateOrder)
	}

	return model.BudgetInput{
		Category:  category,
		Amount:    amt,
		StartDate: sd,
		EndDate:   ed,
	}, nil
}
