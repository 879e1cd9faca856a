// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/pfm/internal/model"
)

// FormatMoney formats an amount with exactly two decimals.
// e.g., 100.5 -> "$100.50", -4.5 -> "-$4.50"
func FormatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// FormatMoneyGrouped is FormatMoney with thousands separators.
// e.g., 1234567.8 -> "$1,234,567.80"
func FormatMoneyGrouped(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + "$" + fixed
	}
	return sign + "$" + FormatNumber(n) + "." + frac
}

// FormatSigned formats a transaction amount with an explicit sign:
// "+$10.00" for income, "-$10.00" for expenses.
func FormatSigned(tx model.Transaction) string {
	if tx.Type == model.Expense {
		return "-" + FormatMoney(tx.Amount.Abs())
	}
	return "+" + FormatMoney(tx.Amount.Abs())
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-100 value with one decimal.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatDate renders a calendar date, or "-" when unset.
func FormatDate(d model.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

// FormatRange renders a budget window.
func FormatRange(start, end model.Date) string {
	return FormatDate(start) + " → " + FormatDate(end)
}

// Truncate shortens s to at most n runes, marking the cut with "…".
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
