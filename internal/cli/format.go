// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/stmtburn/internal/model"
)

// FormatMoney formats an amount with two decimals, comma-grouped
// thousands and the currency suffix.
// e.g., -1234.5 -> "-1,234.50 EUR"
func FormatMoney(d decimal.Decimal) string {
	return FormatAmount(d) + " " + model.Currency
}

// FormatAmount is FormatMoney without the currency.
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err == nil {
		intPart = FormatNumber(n)
	}
	out := intPart + "." + frac
	if neg && out != "0.00" {
		out = "-" + out
	}
	return out
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

// FormatPercent formats a 0-100 percentage with two decimals.
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(2) + "%"
}

// FormatDate formats a booking date as dd.mm.yyyy, the way statements print it.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}

// FormatPeriod renders a statement period, or "-" when unknown.
func FormatPeriod(from, to time.Time) string {
	if from.IsZero() && to.IsZero() {
		return "-"
	}
	return FormatDate(from) + " - " + FormatDate(to)
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
