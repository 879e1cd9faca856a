package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/pfm/internal/api/apitest"
	"github.com/theirongolddev/pfm/internal/model"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(url)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:5000", "ftp://example.com", "http://"} {
		if _, err := NewClient(raw); !errors.Is(err, ErrInvalidBaseURL) {
			t.Errorf("NewClient(%q) err = %v, want ErrInvalidBaseURL", raw, err)
		}
	}
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	c := newTestClient(t, "http://localhost:5000/")
	if got := c.BaseURL(); got != "http://localhost:5000" {
		t.Fatalf("BaseURL = %q", got)
	}
}

func TestBearerOnlyWhenTokenSet(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("a@b.c", "pw")
	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	if _, err := c.Login(ctx, Credentials{Email: "a@b.c", Password: "pw"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := c.ListTransactions(ctx, apitest.TokenFor("a@b.c")); err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}

	reqs := srv.Requests()
	if len(reqs) != 2 {
		t.Fatalf("got %d requests, want 2", len(reqs))
	}
	if reqs[0].Auth != "" {
		t.Errorf("login sent Authorization %q, want none", reqs[0].Auth)
	}
	if want := "Bearer " + apitest.TokenFor("a@b.c"); reqs[1].Auth != want {
		t.Errorf("list sent Authorization %q, want %q", reqs[1].Auth, want)
	}
	if reqs[1].Path != "/api/transactions/" {
		t.Errorf("list path = %q, want trailing slash", reqs[1].Path)
	}
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	srv := apitest.New(t)
	c := newTestClient(t, srv.URL)

	_, err := c.Login(context.Background(), Credentials{Email: "nobody@x.y", Password: "bad"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T %v, want *APIError", err, err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Invalid email or password" {
		t.Fatalf("APIError = %+v", apiErr)
	}
	if !IsUnauthorized(err) {
		t.Fatal("IsUnauthorized = false for 401")
	}
}

func TestAPIErrorFallsBackToStatus(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("a@b.c", "pw")
	srv.Fail(http.MethodGet, "/api/budgets/", http.StatusInternalServerError, "")
	c := newTestClient(t, srv.URL)

	_, err := c.ListBudgets(context.Background(), apitest.TokenFor("a@b.c"))
	if err == nil || err.Error() != "API Error: 500" {
		t.Fatalf("err = %v, want API Error: 500", err)
	}
	if IsUnauthorized(err) {
		t.Fatal("IsUnauthorized = true for 500")
	}
}

func TestTransportErrorOnUnreachableServer(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := newTestClient(t, url)
	_, err := c.Summary(context.Background(), "tok")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %T %v, want *TransportError", err, err)
	}
	if te.Op != "request failed" {
		t.Fatalf("Op = %q", te.Op)
	}
}

func TestTransportErrorOnBadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	_, err := c.Summary(context.Background(), "tok")
	var te *TransportError
	if !errors.As(err, &te) || te.Op != "decoding response" {
		t.Fatalf("err = %v, want decoding TransportError", err)
	}
}

func TestCreateSendsNumericAmount(t *testing.T) {
	var body string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"ok","transaction":{"id":7,"description":"Coffee","amount":4.5,"type":"expense","category":"Food","date":"2025-03-01"}}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	tx, err := c.CreateTransaction(context.Background(), "tok", model.TransactionInput{
		Description: "Coffee",
		Amount:      decimal.RequireFromString("4.50"),
		Type:        model.Expense,
		Category:    "Food",
		Date:        model.NewDate(2025, 3, 1),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if tx.ID != 7 || !tx.Amount.Equal(decimal.RequireFromString("4.5")) {
		t.Fatalf("tx = %+v", tx)
	}
	if !strings.Contains(body, `"amount":4.5`) {
		t.Fatalf("body = %s, want numeric amount", body)
	}
	if !strings.Contains(body, `"date":"2025-03-01"`) {
		t.Fatalf("body = %s, want ISO date", body)
	}
}

func TestItemAndReportPaths(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("a@b.c", "pw")
	srv.SeedBudgets(model.Budget{ID: 42, Category: "Rent", Amount: decimal.NewFromInt(900)})
	c := newTestClient(t, srv.URL)
	ctx := context.Background()
	tok := apitest.TokenFor("a@b.c")

	if err := c.DeleteBudget(ctx, tok, 42); err != nil {
		t.Fatalf("DeleteBudget: %v", err)
	}
	if _, err := c.CategoryDistribution(ctx, tok, model.Period1Year); err != nil {
		t.Fatalf("CategoryDistribution: %v", err)
	}

	reqs := srv.Requests()
	if reqs[0].Path != "/api/budgets/42" {
		t.Errorf("delete path = %q", reqs[0].Path)
	}
	if reqs[1].Path != "/api/reports/category-distribution" || reqs[1].Query != "period=1year" {
		t.Errorf("report request = %+v", reqs[1])
	}
	if len(srv.Budgets()) != 0 {
		t.Errorf("budget not deleted on server")
	}
}

func TestResponseOverCapIsTooLarge(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"total_balance": 1, "padding": "`+strings.Repeat("x", 256)+`"}`)
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL, WithMaxBodySize(128))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = c.Summary(context.Background(), "tok")
	var te *TransportError
	if !errors.As(err, &te) || !errors.Is(err, ErrResponseTooLarge) {
		t.Fatalf("err = %v, want too-large TransportError", err)
	}
}

func TestLargeCollectionDecodes(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("a@b.c", "pw")
	txs := make([]model.Transaction, 9000)
	for i := range txs {
		txs[i] = model.Transaction{
			Description: "Groceries at the corner shop",
			Amount:      decimal.RequireFromString("42.17"),
			Type:        model.Expense,
			Category:    "Food",
			Date:        model.Today(),
		}
	}
	srv.SeedTransactions(txs...)

	c := newTestClient(t, srv.URL)
	got, err := c.ListTransactions(context.Background(), apitest.TokenFor("a@b.c"))
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(got) != 9000 {
		t.Fatalf("got %d transactions, want 9000", len(got))
	}
}
