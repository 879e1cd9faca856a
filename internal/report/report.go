// Package report derives display figures from report endpoint data.
package report

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/pfm/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Percent returns amount as a percentage of total, or 0 when total is zero.
func Percent(amount, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return amount.Div(total).Mul(hundred).InexactFloat64()
}

// Total sums the values of points.
func Total(points []model.ReportPoint) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range points {
		sum = sum.Add(p.Value)
	}
	return sum
}

// Shares converts a category distribution into per-category percentages,
// preserving input order. Every share is 0 when the values sum to zero.
func Shares(points []model.ReportPoint) []model.CategoryShare {
	total := Total(points)
	out := make([]model.CategoryShare, 0, len(points))
	for _, p := range points {
		out = append(out, model.CategoryShare{
			Category: p.Name,
			Amount:   p.Value,
			Percent:  Percent(p.Value, total),
		})
	}
	return out
}

// SortByAmount orders shares largest first, breaking ties by name.
func SortByAmount(shares []model.CategoryShare) {
	sort.SliceStable(shares, func(i, j int) bool {
		if c := shares[i].Amount.Cmp(shares[j].Amount); c != 0 {
			return c > 0
		}
		return shares[i].Category < shares[j].Category
	})
}

// CategoryTotals groups expense transactions by category. It backs the
// budget usage view, which has no server endpoint of its own.
func CategoryTotals(txs []model.Transaction, from, to model.Date) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.Type != model.Expense {
			continue
		}
		if !from.IsZero() && tx.Date.Before(from.Time) {
			continue
		}
		if !to.IsZero() && tx.Date.After(to.Time) {
			continue
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}
	return totals
}

// BudgetUsage is how much of a budget has been spent.
type BudgetUsage struct {
	Budget  model.Budget
	Spent   decimal.Decimal
	Percent float64
}

// Usage matches each budget with the expenses in its category and window.
func Usage(budgets []model.Budget, txs []model.Transaction) []BudgetUsage {
	out := make([]BudgetUsage, 0, len(budgets))
	for _, b := range budgets {
		spent := CategoryTotals(txs, b.StartDate, b.EndDate)[b.Category]
		out = append(out, BudgetUsage{
			Budget:  b,
			Spent:   spent,
			Percent: Percent(spent, b.Amount),
		})
	}
	return out
}
