package controller

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/pfm/internal/api"
	"github.com/theirongolddev/pfm/internal/logging"
	"github.com/theirongolddev/pfm/internal/model"
	"github.com/theirongolddev/pfm/internal/session"
)

func TestDashboardLoadsBoth(t *testing.T) {
	f := newFixture(t)
	f.srv.SeedTransactions(
		model.Transaction{Description: "Salary", Amount: decimal.NewFromInt(1000), Type: model.Income, Category: "Work", Date: model.NewDate(2025, 3, 1)},
		model.Transaction{Description: "Lunch", Amount: decimal.RequireFromString("12.25"), Type: model.Expense, Category: "Food", Date: model.NewDate(2025, 3, 2)},
	)
	d := NewDashboard(f.client, f.session, logging.Nop())

	if !d.Load(context.Background()) {
		t.Fatalf("Load: %s", d.ErrMsg())
	}
	sum := d.Summary()
	if !sum.TotalBalance.Equal(decimal.RequireFromString("987.75")) {
		t.Fatalf("balance = %s", sum.TotalBalance)
	}
	recent := d.Recent(1)
	if len(recent) != 1 || recent[0].Description != "Lunch" {
		t.Fatalf("Recent(1) = %+v", recent)
	}
}

func TestDashboardFailsWhole(t *testing.T) {
	f := newFixture(t)
	f.srv.Fail(http.MethodGet, "/api/transactions/summary", http.StatusInternalServerError, "summary broke")
	d := NewDashboard(f.client, f.session, logging.Nop())

	if d.Load(context.Background()) {
		t.Fatal("Load succeeded with failing summary")
	}
	if d.State() != LoadFailed {
		t.Fatalf("state = %v", d.State())
	}
	if !strings.HasPrefix(d.ErrMsg(), DashboardLoadPrefix) {
		t.Fatalf("ErrMsg = %q", d.ErrMsg())
	}
	if len(d.Transactions()) != 0 {
		t.Fatal("transactions stored from a failed load")
	}
}

func TestDashboardQuickAdd(t *testing.T) {
	f := newFixture(t)
	d := NewDashboard(f.client, f.session, logging.Nop())
	ctx := context.Background()

	d.OpenQuickAdd()
	draft, ok := Draft[model.TransactionFields](d.Form())
	if !ok || draft.Type != "expense" || draft.Date != model.Today().String() {
		t.Fatalf("quick add draft = %+v", draft)
	}

	if d.QuickAdd(ctx, model.TransactionFields{Description: "x"}) {
		t.Fatal("incomplete quick add succeeded")
	}
	if d.ErrMsg() != MsgTransactionFields {
		t.Fatalf("ErrMsg = %q", d.ErrMsg())
	}

	if !d.QuickAdd(ctx, coffee()) {
		t.Fatalf("QuickAdd: %s", d.ErrMsg())
	}
	if f.srv.Count(http.MethodGet, "/api/transactions/summary") != 1 || f.srv.Count(http.MethodGet, "/api/transactions/") != 1 {
		t.Fatalf("requests = %+v", f.srv.Requests())
	}
	if !d.Summary().TotalExpenses.Equal(decimal.RequireFromString("4.5")) {
		t.Fatalf("expenses = %s", d.Summary().TotalExpenses)
	}
	if _, closed := d.Form().(FormClosed[model.TransactionFields]); !closed {
		t.Fatal("form still open")
	}
}

func TestReportsSharesAndPeriod(t *testing.T) {
	f := newFixture(t)
	f.srv.Distribution = []model.ReportPoint{
		{Name: "Food", Value: decimal.NewFromInt(300)},
		{Name: "Rent", Value: decimal.NewFromInt(500)},
		{Name: "Fun", Value: decimal.NewFromInt(30)},
	}
	f.srv.Patterns = []model.ReportPoint{{Name: "Jan 2025", Value: decimal.NewFromInt(830)}}
	r := NewReports(f.client, f.session, logging.Nop(), "")

	if r.Period() != model.Period6Months {
		t.Fatalf("default period = %s", r.Period())
	}
	if r.NextPeriod() != model.Period1Year || r.NextPeriod() != model.Period3Months {
		t.Fatal("NextPeriod does not wrap")
	}
	if !r.Load(context.Background()) {
		t.Fatalf("Load: %s", r.ErrMsg())
	}

	for _, req := range f.srv.Requests() {
		if req.Query != "period=3months" {
			t.Errorf("%s sent query %q", req.Path, req.Query)
		}
	}
	shares := r.Shares()
	if len(shares) != 3 || shares[0].Category != "Rent" || shares[1].Category != "Food" || shares[2].Category != "Fun" {
		t.Fatalf("shares not largest first: %+v", shares)
	}
	if shares[1].Percent < 36.1 || shares[1].Percent > 36.2 {
		t.Fatalf("Food = %f%%", shares[1].Percent)
	}
	if !r.Total().Equal(decimal.NewFromInt(830)) {
		t.Fatalf("total = %s", r.Total())
	}
	if len(r.Patterns()) != 1 {
		t.Fatalf("patterns = %+v", r.Patterns())
	}
}

func TestAuthLoginAndLogout(t *testing.T) {
	f := newFixture(t)
	sess := session.NewMemory()
	a := NewAuth(f.client, sess, logging.Nop())
	ctx := context.Background()

	if a.Login(ctx, testEmail, "wrong") {
		t.Fatal("login with wrong password succeeded")
	}
	if a.ErrMsg() != "Invalid email or password" {
		t.Fatalf("ErrMsg = %q", a.ErrMsg())
	}
	if sess.IsAuthenticated() {
		t.Fatal("failed login stored a token")
	}

	if !a.Login(ctx, testEmail, "secret") {
		t.Fatalf("Login: %s", a.ErrMsg())
	}
	if sess.Token() == "" || sess.User().Email != testEmail {
		t.Fatalf("session = %+v", sess.Session())
	}

	if !a.Logout(ctx) || sess.IsAuthenticated() {
		t.Fatal("logout kept the session")
	}
}

func TestAuthRegister(t *testing.T) {
	f := newFixture(t)
	sess := session.NewMemory()
	a := NewAuth(f.client, sess, logging.Nop())
	ctx := context.Background()

	if _, ok := a.Register(ctx, "new@example.com", "pw1", "pw2"); ok {
		t.Fatal("mismatched passwords accepted")
	}
	if a.ErrMsg() != MsgPasswordMismatch {
		t.Fatalf("ErrMsg = %q", a.ErrMsg())
	}
	if len(f.srv.Requests()) != 0 {
		t.Fatal("mismatch reached the server")
	}

	msg, ok := a.Register(ctx, "new@example.com", "pw", "pw")
	if !ok || msg == "" {
		t.Fatalf("Register: ok=%v msg=%q err=%q", ok, msg, a.ErrMsg())
	}
	if sess.IsAuthenticated() {
		t.Fatal("register logged in")
	}
	if _, ok := a.Register(ctx, "new@example.com", "pw", "pw"); ok || a.ErrMsg() != "User already exists" {
		t.Fatalf("duplicate register: ok=%v err=%q", ok, a.ErrMsg())
	}
}

func TestAuthLoginWithoutTokenFails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"message":"Login successful","token":"","user":{"email":"me@example.com"}}`)
	}))
	defer ts.Close()

	client, err := api.NewClient(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	sess := session.NewMemory()
	a := NewAuth(client, sess, logging.Nop())

	if a.Login(context.Background(), testEmail, "secret") {
		t.Fatal("login without a token succeeded")
	}
	if a.ErrMsg() != MsgNoToken {
		t.Fatalf("ErrMsg = %q", a.ErrMsg())
	}
	if sess.IsAuthenticated() {
		t.Fatal("empty token stored as a session")
	}
}
