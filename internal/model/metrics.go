package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Summary holds the server-computed dashboard totals.
type Summary struct {
	TotalBalance  decimal.Decimal `json:"total_balance"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
}

// ReportPoint is one labeled value from a report endpoint.
// For spending patterns Name is a month label ("Jan 2025"); for category
// distribution it is the category.
type ReportPoint struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// CategoryShare is a category's slice of total spending.
type CategoryShare struct {
	Category string
	Amount   decimal.Decimal
	Percent  float64 // 0-100
}

// Period selects the window for report endpoints.
type Period string

const (
	Period3Months Period = "3months"
	Period6Months Period = "6months"
	Period1Year   Period = "1year"
)

// DefaultPeriod matches the server's default window.
const DefaultPeriod = Period6Months

// Periods lists the supported report windows in display order.
var Periods = []Period{Period3Months, Period6Months, Period1Year}

// ParsePeriod validates a period string. Empty selects DefaultPeriod.
func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return DefaultPeriod, nil
	}
	for _, p := range Periods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown period %q (want 3months, 6months or 1year)", s)
}

// Label returns a short human label for the period.
func (p Period) Label() string {
	switch p {
	case Period3Months:
		return "3 months"
	case Period1Year:
		return "1 year"
	default:
		return "6 months"
	}
}
