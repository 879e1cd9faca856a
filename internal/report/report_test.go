package report

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/pfm/internal/model"
)

func pt(name string, v int64) model.ReportPoint {
	return model.ReportPoint{Name: name, Value: decimal.NewFromInt(v)}
}

func TestSharesPercentages(t *testing.T) {
	shares := Shares([]model.ReportPoint{pt("Food", 300), pt("Rent", 500), pt("Fun", 30)})
	if len(shares) != 3 {
		t.Fatalf("len = %d", len(shares))
	}
	if got := shares[0].Percent; math.Abs(got-36.144578) > 0.001 {
		t.Errorf("Food percent = %f, want ~36.14", got)
	}
	sum := 0.0
	for _, s := range shares {
		sum += s.Percent
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("percentages sum to %f, want 100", sum)
	}
}

func TestSharesZeroTotal(t *testing.T) {
	shares := Shares([]model.ReportPoint{pt("Food", 0), pt("Rent", 0)})
	for _, s := range shares {
		if s.Percent != 0 {
			t.Fatalf("%s percent = %f, want 0", s.Category, s.Percent)
		}
	}
	if got := Shares(nil); len(got) != 0 {
		t.Fatalf("Shares(nil) = %v", got)
	}
}

func TestSortByAmount(t *testing.T) {
	shares := Shares([]model.ReportPoint{pt("b", 10), pt("a", 10), pt("c", 50)})
	SortByAmount(shares)
	got := shares[0].Category + shares[1].Category + shares[2].Category
	if got != "cab" {
		t.Fatalf("order = %q, want cab", got)
	}
}

func TestUsage(t *testing.T) {
	start, end := model.NewDate(2025, 3, 1), model.NewDate(2025, 3, 31)
	budgets := []model.Budget{{ID: 1, Category: "Food", Amount: decimal.NewFromInt(200), StartDate: start, EndDate: end}}
	txs := []model.Transaction{
		{Category: "Food", Type: model.Expense, Amount: decimal.NewFromInt(50), Date: model.NewDate(2025, 3, 2)},
		{Category: "Food", Type: model.Expense, Amount: decimal.NewFromInt(25), Date: model.NewDate(2025, 3, 31)},
		{Category: "Food", Type: model.Expense, Amount: decimal.NewFromInt(99), Date: model.NewDate(2025, 4, 1)},
		{Category: "Food", Type: model.Income, Amount: decimal.NewFromInt(10), Date: model.NewDate(2025, 3, 5)},
		{Category: "Rent", Type: model.Expense, Amount: decimal.NewFromInt(900), Date: model.NewDate(2025, 3, 1)},
	}

	usage := Usage(budgets, txs)
	if len(usage) != 1 {
		t.Fatalf("len = %d", len(usage))
	}
	if !usage[0].Spent.Equal(decimal.NewFromInt(75)) {
		t.Errorf("Spent = %s, want 75", usage[0].Spent)
	}
	if usage[0].Percent != 37.5 {
		t.Errorf("Percent = %f, want 37.5", usage[0].Percent)
	}
}
