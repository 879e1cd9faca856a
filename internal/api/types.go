package api

import "github.com/theirongolddev/pfm/internal/model"

// Endpoint paths, relative to the base URL.
const (
	pathLogin                = "/api/auth/login"
	pathRegister             = "/api/auth/register"
	pathProfile              = "/api/user/profile"
	pathSummary              = "/api/transactions/summary"
	pathTransactions         = "/api/transactions/"
	pathBudgets              = "/api/budgets/"
	pathSpendingPatterns     = "/api/reports/spending-patterns"
	pathCategoryDistribution = "/api/reports/category-distribution"
)

// Credentials is the login and register request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    model.User `json:"user"`
}

// RegisterResponse is returned by a successful registration.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

type transactionEnvelope struct {
	Message     string            `json:"message"`
	Transaction model.Transaction `json:"transaction"`
}

type budgetEnvelope struct {
	Message string       `json:"message"`
	Budget  model.Budget `json:"budget"`
}
