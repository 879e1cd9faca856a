// Package apitest provides an in-memory finance API server for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/pfm/internal/model"
)

// Request records one call received by the server.
type Request struct {
	Method string
	Path   string
	Query  string
	Auth   string
}

// Server is a fake backend holding users, transactions and budgets in memory.
// Tokens are "token-<email>"; any request to a protected endpoint without a
// matching bearer token gets a 401.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	users        map[string]string
	transactions []model.Transaction
	budgets      []model.Budget
	nextID       int64
	failures     map[string]failure
	requests     []Request

	// Report data returned verbatim by the report endpoints.
	Patterns     []model.ReportPoint
	Distribution []model.ReportPoint
}

type failure struct {
	status  int
	message string
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		users:    make(map[string]string),
		failures: make(map[string]failure),
		nextID:   1,
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// TokenFor returns the bearer token the server issues for email.
func TokenFor(email string) string {
	return "token-" + email
}

// AddUser registers a user directly.
func (s *Server) AddUser(email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = password
}

// SeedTransactions stores transactions, assigning ids when zero.
func (s *Server) SeedTransactions(txs ...model.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range txs {
		if tx.ID == 0 {
			tx.ID = s.allocID()
		}
		s.transactions = append(s.transactions, tx)
	}
}

// SeedBudgets stores budgets, assigning ids when zero.
func (s *Server) SeedBudgets(budgets ...model.Budget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range budgets {
		if b.ID == 0 {
			b.ID = s.allocID()
		}
		s.budgets = append(s.budgets, b)
	}
}

// Transactions returns a copy of the stored transactions.
func (s *Server) Transactions() []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Transaction(nil), s.transactions...)
}

// Budgets returns a copy of the stored budgets.
func (s *Server) Budgets() []model.Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Budget(nil), s.budgets...)
}

// Fail makes every request matching method and path answer with status and
// a {"message": message} body. An empty message sends an empty body.
func (s *Server) Fail(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, message: message}
}

// Recover clears a failure set with Fail.
func (s *Server) Recover(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, method+" "+path)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many requests matched method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Reset forgets recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func (s *Server) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("GET /api/user/profile", s.authed(s.handleProfile))
	mux.HandleFunc("GET /api/transactions/summary", s.authed(s.handleSummary))
	mux.HandleFunc("GET /api/transactions/{$}", s.authed(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions/{$}", s.authed(s.handleCreateTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.authed(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.authed(s.handleDeleteTransaction))
	mux.HandleFunc("GET /api/budgets/{$}", s.authed(s.handleListBudgets))
	mux.HandleFunc("POST /api/budgets/{$}", s.authed(s.handleCreateBudget))
	mux.HandleFunc("PUT /api/budgets/{id}", s.authed(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.authed(s.handleDeleteBudget))
	mux.HandleFunc("GET /api/reports/spending-patterns", s.authed(s.handlePatterns))
	mux.HandleFunc("GET /api/reports/category-distribution", s.authed(s.handleDistribution))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
		})
		f, failing := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if failing {
			if f.message == "" {
				w.WriteHeader(f.status)
				return
			}
			writeJSON(w, f.status, map[string]string{"message": f.message})
			return
		}
		mux.ServeHTTP(w, r)
	})
}

// authed rejects requests whose bearer token does not belong to a known user.
func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		email, known := strings.CutPrefix(token, "token-")
		s.mu.Lock()
		_, exists := s.users[email]
		s.mu.Unlock()
		if !ok || !known || !exists {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token is missing or invalid"})
			return
		}
		next(w, r)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}
	s.mu.Lock()
	pw, ok := s.users[creds.Email]
	s.mu.Unlock()
	if !ok || pw != creds.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   TokenFor(creds.Email),
		"user":    model.User{Email: creds.Email},
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email == "" || creds.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Email and password are required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[creds.Email]; exists {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "User already exists"})
		return
	}
	s.users[creds.Email] = creds.Password
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user_id": len(s.users),
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimPrefix(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "), "token-")
	writeJSON(w, http.StatusOK, model.User{ID: 1, Email: email})
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum model.Summary
	for _, tx := range s.transactions {
		if tx.Type == model.Income {
			sum.TotalIncome = sum.TotalIncome.Add(tx.Amount)
		} else {
			sum.TotalExpenses = sum.TotalExpenses.Add(tx.Amount)
		}
	}
	sum.TotalBalance = sum.TotalIncome.Sub(sum.TotalExpenses)
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]model.Transaction{}, s.transactions...)
	writeJSON(w, http.StatusOK, out)
}

type transactionBody struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Date        model.Date      `json:"date"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var body transactionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := model.Transaction{
		ID:          s.allocID(),
		Description: body.Description,
		Amount:      body.Amount,
		Type:        model.TransactionType(body.Type),
		Category:    body.Category,
		Date:        body.Date,
	}
	s.transactions = append(s.transactions, tx)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Transaction created successfully", "transaction": tx})
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body transactionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID != id {
			continue
		}
		tx := &s.transactions[i]
		tx.Description = body.Description
		tx.Amount = body.Amount
		tx.Type = model.TransactionType(body.Type)
		tx.Category = body.Category
		tx.Date = body.Date
		writeJSON(w, http.StatusOK, map[string]any{"message": "Transaction updated successfully", "transaction": *tx})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Transaction not found"})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Transaction not found"})
}

func (s *Server) handleListBudgets(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]model.Budget{}, s.budgets...)
	writeJSON(w, http.StatusOK, out)
}

type budgetBody struct {
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	StartDate model.Date      `json:"start_date"`
	EndDate   model.Date      `json:"end_date"`
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var body budgetBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}
	if body.StartDate.After(body.EndDate.Time) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Start date cannot be after end date"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b := model.Budget{
		ID:        s.allocID(),
		Category:  body.Category,
		Amount:    body.Amount,
		StartDate: body.StartDate,
		EndDate:   body.EndDate,
	}
	s.budgets = append(s.budgets, b)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Budget created successfully", "budget": b})
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body budgetBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].ID != id {
			continue
		}
		b := &s.budgets[i]
		b.Category = body.Category
		b.Amount = body.Amount
		b.StartDate = body.StartDate
		b.EndDate = body.EndDate
		writeJSON(w, http.StatusOK, map[string]any{"message": "Budget updated successfully", "budget": *b})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Budget not found"})
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].ID == id {
			s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Budget deleted successfully"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Budget not found"})
}

func (s *Server) handlePatterns(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]model.ReportPoint{}, s.Patterns...))
}

func (s *Server) handleDistribution(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]model.ReportPoint{}, s.Distribution...))
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
