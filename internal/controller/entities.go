package controller

import (
	"github.com/rs/zerolog"
	"github.com/theirongolddev/pfm/internal/api"
	"github.com/theirongolddev/pfm/internal/model"
)

// Transactions manages the transaction list.
type Transactions = Controller[model.Transaction, model.TransactionFields, model.TransactionInput]

// Budgets manages the budget list.
type Budgets = Controller[model.Budget, model.BudgetFields, model.BudgetInput]

// NewTransactions wires a transaction controller to the API.
func NewTransactions(client *api.Client, tokens TokenSource, logger zerolog.Logger) *Transactions {
	return New(Endpoints[model.Transaction, model.TransactionInput]{
		Name:   "transaction",
		List:   client.ListTransactions,
		Create: client.CreateTransaction,
		Update: client.UpdateTransaction,
		Delete: client.DeleteTransaction,
	}, ValidateTransaction, tokens, logger)
}

// NewBudgets wires a budget controller to the API.
func NewBudgets(client *api.Client, tokens TokenSource, logger zerolog.Logger) *Budgets {
	return New(Endpoints[model.Budget, model.BudgetInput]{
		Name:   "budget",
		List:   client.ListBudgets,
		Create: client.CreateBudget,
		Update: client.UpdateBudget,
		Delete: client.DeleteBudget,
	}, ValidateBudget, tokens, logger)
}
