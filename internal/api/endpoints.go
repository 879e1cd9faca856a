package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/theirongolddev/pfm/internal/model"
)

// Login exchanges credentials for a token and user record.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResponse, error) {
	var resp LoginResponse
	err := c.Call(ctx, http.MethodPost, pathLogin, creds, "", &resp)
	return resp, err
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, creds Credentials) (RegisterResponse, error) {
	var resp RegisterResponse
	err := c.Call(ctx, http.MethodPost, pathRegister, creds, "", &resp)
	return resp, err
}

// Profile returns the identity behind token.
func (c *Client) Profile(ctx context.Context, token string) (model.User, error) {
	var u model.User
	err := c.Call(ctx, http.MethodGet, pathProfile, nil, token, &u)
	return u, err
}

// Summary returns the server-computed dashboard totals.
func (c *Client) Summary(ctx context.Context, token string) (model.Summary, error) {
	var s model.Summary
	err := c.Call(ctx, http.MethodGet, pathSummary, nil, token, &s)
	return s, err
}

// ListTransactions returns every transaction, newest first as ordered by the server.
func (c *Client) ListTransactions(ctx context.Context, token string) ([]model.Transaction, error) {
	var txs []model.Transaction
	if err := c.Call(ctx, http.MethodGet, pathTransactions, nil, token, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// CreateTransaction adds a transaction and returns the server's copy.
func (c *Client) CreateTransaction(ctx context.Context, token string, in model.TransactionInput) (model.Transaction, error) {
	var env transactionEnvelope
	err := c.Call(ctx, http.MethodPost, pathTransactions, in, token, &env)
	return env.Transaction, err
}

// UpdateTransaction replaces the fields of transaction id.
func (c *Client) UpdateTransaction(ctx context.Context, token string, id int64, in model.TransactionInput) (model.Transaction, error) {
	var env transactionEnvelope
	err := c.Call(ctx, http.MethodPut, itemPath(pathTransactions, id), in, token, &env)
	return env.Transaction, err
}

// DeleteTransaction removes transaction id.
func (c *Client) DeleteTransaction(ctx context.Context, token string, id int64) error {
	return c.Call(ctx, http.MethodDelete, itemPath(pathTransactions, id), nil, token, nil)
}

// ListBudgets returns every budget.
func (c *Client) ListBudgets(ctx context.Context, token string) ([]model.Budget, error) {
	var budgets []model.Budget
	if err := c.Call(ctx, http.MethodGet, pathBudgets, nil, token, &budgets); err != nil {
		return nil, err
	}
	return budgets, nil
}

// CreateBudget adds a budget and returns the server's copy.
func (c *Client) CreateBudget(ctx context.Context, token string, in model.BudgetInput) (model.Budget, error) {
	var env budgetEnvelope
	err := c.Call(ctx, http.MethodPost, pathBudgets, in, token, &env)
	return env.Budget, err
}

// UpdateBudget replaces the fields of budget id.
func (c *Client) UpdateBudget(ctx context.Context, token string, id int64, in model.BudgetInput) (model.Budget, error) {
	var env budgetEnvelope
	err := c.Call(ctx, http.MethodPut, itemPath(pathBudgets, id), in, token, &env)
	return env.Budget, err
}

// DeleteBudget removes budget id.
func (c *Client) DeleteBudget(ctx context.Context, token string, id int64) error {
	return c.Call(ctx, http.MethodDelete, itemPath(pathBudgets, id), nil, token, nil)
}

// SpendingPatterns returns monthly expense totals for the period.
func (c *Client) SpendingPatterns(ctx context.Context, token string, period model.Period) ([]model.ReportPoint, error) {
	var points []model.ReportPoint
	if err := c.Call(ctx, http.MethodGet, periodPath(pathSpendingPatterns, period), nil, token, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// CategoryDistribution returns expense totals per category for the period.
func (c *Client) CategoryDistribution(ctx context.Context, token string, period model.Period) ([]model.ReportPoint, error) {
	var points []model.ReportPoint
	if err := c.Call(ctx, http.MethodGet, periodPath(pathCategoryDistribution, period), nil, token, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// itemPath turns "/api/budgets/" into "/api/budgets/42".
func itemPath(collection string, id int64) string {
	return collection + strconv.FormatInt(id, 10)
}

func periodPath(path string, period model.Period) string {
	return fmt.Sprintf("%s?period=%s", path, url.QueryEscape(string(period)))
}
