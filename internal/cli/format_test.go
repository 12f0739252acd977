package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00 EUR"},
		{"9.99", "9.99 EUR"},
		{"-10.96", "-10.96 EUR"},
		{"1234.5", "1,234.50 EUR"},
		{"-2100000", "-2,100,000.00 EUR"},
		{"10.005", "10.01 EUR"},
		{"-0.001", "0.00 EUR"},
	}
	for _, tt := range tests {
		if got := FormatMoney(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatMoney(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-45678, "-45,678"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(decimal.RequireFromString("33.3")); got != "33.30%" {
		t.Errorf("FormatPercent = %q", got)
	}
}

func TestFormatPeriod(t *testing.T) {
	from := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC)
	if got := FormatPeriod(from, to); got != "01.10.2025 - 31.10.2025" {
		t.Errorf("FormatPeriod = %q", got)
	}
	if got := FormatPeriod(time.Time{}, time.Time{}); got != "-" {
		t.Errorf("FormatPeriod(zero) = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Príjemca", 20, "Príjemca"},
		{"Príjemca", 5, "Príj…"},
		{"abc", 1, "…"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestRenderTable_AlignsMultibyteCells(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Kategória", "Suma"},
		Rows: [][]string{
			{"Potraviny", "10.96"},
			{"---"},
			{"Reštaurácie", "1,234.00"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	want := lipgloss.Width(lines[0])
	for i, l := range lines {
		if w := lipgloss.Width(l); w != want {
			t.Errorf("line %d width %d, want %d: %q", i, w, want, l)
		}
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Errorf("RenderTable(empty) = %q", got)
	}
}
