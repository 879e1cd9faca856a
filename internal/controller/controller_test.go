package controller

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/pfm/internal/api"
	"github.com/theirongolddev/pfm/internal/api/apitest"
	"github.com/theirongolddev/pfm/internal/logging"
	"github.com/theirongolddev/pfm/internal/model"
	"github.com/theirongolddev/pfm/internal/session"
)

const testEmail = "me@example.com"

type fixture struct {
	srv     *apitest.Server
	client  *api.Client
	session *session.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	srv := apitest.New(t)
	srv.AddUser(testEmail, "secret")
	client, err := api.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	sess := session.NewMemory()
	if err := sess.SetSession(context.Background(), apitest.TokenFor(testEmail), model.User{Email: testEmail}); err != nil {
		t.Fatalf("SetSession: %v", err)
	}
	return fixture{srv: srv, client: client, session: sess}
}

func coffee() model.TransactionFields {
	return model.TransactionFields{
		Description: "Coffee",
		Amount:      "4.50",
		Type:        "expense",
		Category:    "Food",
		Date:        "2025-03-01",
	}
}

func TestValidationBlocksNetwork(t *testing.T) {
	f := newFixture(t)
	c := NewTransactions(f.client, f.session, logging.Nop())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*model.TransactionFields)
		want   string
	}{
		{"missing description", func(tf *model.TransactionFields) { tf.Description = " " }, MsgTransactionFields},
		{"missing date", func(tf *model.TransactionFields) { tf.Date = "" }, MsgTransactionFields},
		{"bad amount", func(tf *model.TransactionFields) { tf.Amount = "four" }, MsgAmount},
		{"bad type", func(tf *model.TransactionFields) { tf.Type = "transfer" }, MsgType},
		{"bad date", func(tf *model.TransactionFields) { tf.Date = "03/01/2025" }, MsgDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := coffee()
			tc.mutate(&fields)
			if c.SubmitCreate(ctx, fields) {
				t.Fatal("SubmitCreate succeeded")
			}
			if got := c.ErrMsg(); got != tc.want {
				t.Fatalf("ErrMsg = %q, want %q", got, tc.want)
			}
		})
	}
	if n := len(f.srv.Requests()); n != 0 {
		t.Fatalf("server saw %d requests, want 0", n)
	}
}

func TestCreateRefetchesOnce(t *testing.T) {
	f := newFixture(t)
	c := NewTransactions(f.client, f.session, logging.Nop())
	ctx := context.Background()

	c.OpenCreate(model.NewTransactionFields())
	if !c.SubmitCreate(ctx, coffee()) {
		t.Fatalf("SubmitCreate failed: %s", c.ErrMsg())
	}

	if n := f.srv.Count(http.MethodPost, "/api/transactions/"); n != 1 {
		t.Errorf("POST count = %d, want 1", n)
	}
	if n := f.srv.Count(http.MethodGet, "/api/transactions/"); n != 1 {
		t.Errorf("GET count = %d, want 1", n)
	}

	found := 0
	for _, tx := range c.Items() {
		if tx.Description == "Coffee" {
			found++
			if !tx.Amount.Equal(decimal.RequireFromString("4.5")) {
				t.Errorf("amount = %s", tx.Amount)
			}
		}
	}
	if found != 1 {
		t.Fatalf("Coffee appears %d times, want 1", found)
	}
	if _, closed := c.Form().(FormClosed[model.TransactionFields]); !closed {
		t.Fatalf("form = %#v, want closed", c.Form())
	}
	if c.State() != Loaded {
		t.Fatalf("state = %v", c.State())
	}
}

func TestSubmitDispatchesOnFormState(t *testing.T) {
	f := newFixture(t)
	f.srv.SeedTransactions(model.Transaction{ID: 5, Description: "Rent", Amount: decimal.NewFromInt(900), Type: model.Expense, Category: "Housing", Date: model.NewDate(2025, 3, 1)})
	c := NewTransactions(f.client, f.session, logging.Nop())
	ctx := context.Background()
	c.Load(ctx)

	tx, ok := c.Find(5)
	if !ok {
		t.Fatal("Find(5) missed")
	}
	draft := model.FieldsFromTransaction(tx)
	c.OpenEdit(tx.ID, draft)
	if edit, ok := c.Form().(FormEditing[model.TransactionFields]); !ok || edit.ID != 5 {
		t.Fatalf("form = %#v, want editing 5", c.Form())
	}

	draft.Amount = "950"
	c.SetDraft(draft)
	if got, _ := Draft[model.TransactionFields](c.Form()); got.Amount != "950" {
		t.Fatalf("draft amount = %q", got.Amount)
	}
	if !c.Submit(ctx, draft) {
		t.Fatalf("Submit failed: %s", c.ErrMsg())
	}

	if n := f.srv.Count(http.MethodPut, "/api/transactions/5"); n != 1 {
		t.Fatalf("PUT count = %d, want 1", n)
	}
	if n := f.srv.Count(http.MethodPost, "/api/transactions/"); n != 0 {
		t.Fatalf("POST count = %d, want 0", n)
	}
	got, _ := c.Find(5)
	if !got.Amount.Equal(decimal.NewFromInt(950)) {
		t.Fatalf("amount after update = %s", got.Amount)
	}
	if _, closed := c.Form().(FormClosed[model.TransactionFields]); !closed {
		t.Fatal("edit mode not cleared")
	}
}

func TestRemoveDropsItem(t *testing.T) {
	f := newFixture(t)
	f.srv.SeedBudgets(
		model.Budget{ID: 1, Category: "Food", Amount: decimal.NewFromInt(200), StartDate: model.NewDate(2025, 3, 1), EndDate: model.NewDate(2025, 3, 31)},
		model.Budget{ID: 2, Category: "Fun", Amount: decimal.NewFromInt(50), StartDate: model.NewDate(2025, 3, 1), EndDate: model.NewDate(2025, 3, 31)},
	)
	c := NewBudgets(f.client, f.session, logging.Nop())
	ctx := context.Background()
	c.Load(ctx)
	c.OpenEdit(1, model.FieldsFromBudget(c.Items()[0]))

	if !c.Remove(ctx, 1) {
		t.Fatalf("Remove failed: %s", c.ErrMsg())
	}
	if _, ok := c.Find(1); ok {
		t.Fatal("budget 1 still listed")
	}
	if len(c.Items()) != 1 {
		t.Fatalf("items = %d, want 1", len(c.Items()))
	}
	if _, closed := c.Form().(FormClosed[model.BudgetFields]); !closed {
		t.Fatal("form editing a removed budget stayed open")
	}
}

func TestFailedLoadKeepsSnapshot(t *testing.T) {
	f := newFixture(t)
	f.srv.SeedTransactions(model.Transaction{Description: "Salary", Amount: decimal.NewFromInt(3000), Type: model.Income, Category: "Work", Date: model.NewDate(2025, 3, 1)})
	c := NewTransactions(f.client, f.session, logging.Nop())
	ctx := context.Background()

	if !c.Load(ctx) {
		t.Fatalf("first load: %s", c.ErrMsg())
	}
	f.srv.Fail(http.MethodGet, "/api/transactions/", http.StatusInternalServerError, "database unavailable")

	if c.Load(ctx) {
		t.Fatal("second load succeeded")
	}
	if c.State() != LoadFailed {
		t.Fatalf("state = %v, want failed", c.State())
	}
	if c.ErrMsg() != "database unavailable" {
		t.Fatalf("ErrMsg = %q", c.ErrMsg())
	}
	if len(c.Items()) != 1 {
		t.Fatalf("snapshot lost: %d items", len(c.Items()))
	}
}

func TestUnauthorizedKeepsToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.session.SetSession(ctx, "stale", model.User{Email: testEmail}); err != nil {
		t.Fatal(err)
	}
	c := NewTransactions(f.client, f.session, logging.Nop())

	c.Load(ctx)
	if !strings.HasSuffix(c.ErrMsg(), SessionHint) {
		t.Fatalf("ErrMsg = %q, want session hint", c.ErrMsg())
	}
	if f.session.Token() != "stale" {
		t.Fatal("token cleared on 401")
	}
}

func TestBudgetDateOrder(t *testing.T) {
	_, err := ValidateBudget(model.BudgetFields{Category: "Food", Amount: "100", StartDate: "2025-04-01", EndDate: "2025-03-01"})
	if Describe(err) != MsgDateOrder {
		t.Fatalf("err = %v", err)
	}
	in, err := ValidateBudget(model.BudgetFields{Category: " Food ", Amount: "100", StartDate: "2025-03-01", EndDate: "2025-03-01"})
	if err != nil {
		t.Fatalf("same-day budget rejected: %v", err)
	}
	if in.Category != "Food" {
		t.Fatalf("category = %q", in.Category)
	}
	if _, err := ValidateBudget(model.BudgetFields{Category: "Food"}); Describe(err) != MsgBudgetFields {
		t.Fatalf("err = %v", err)
	}
}

func TestDescribeTransportError(t *testing.T) {
	client, err := api.NewClient("http://127.0.0.1:1")
	if err != nil {
		t.Fatal(err)
	}
	c := NewBudgets(client, session.NewMemory(), logging.Nop())
	c.Load(context.Background())
	if !strings.HasPrefix(c.ErrMsg(), "Could not reach server") {
		t.Fatalf("ErrMsg = %q", c.ErrMsg())
	}
}

func TestOversizedCollectionFailsLoad(t *testing.T) {
	f := newFixture(t)
	f.srv.SeedTransactions(model.Transaction{
		Description: strings.Repeat("long description ", 20),
		Amount:      decimal.NewFromInt(5),
		Type:        model.Expense,
		Category:    "Food",
		Date:        model.Today(),
	})
	client, err := api.NewClient(f.srv.URL, api.WithMaxBodySize(64))
	if err != nil {
		t.Fatal(err)
	}
	c := NewTransactions(client, f.session, logging.Nop())
	if c.Load(context.Background()) {
		t.Fatal("Load succeeded on a truncated body")
	}
	if c.State() != LoadFailed || !strings.HasPrefix(c.ErrMsg(), "Server response too large to load") {
		t.Fatalf("state = %s, ErrMsg = %q", c.State(), c.ErrMsg())
	}
}
