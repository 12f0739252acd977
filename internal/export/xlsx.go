// Package export writes analyzed statements to spreadsheet files.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/stmtburn/internal/model"
	"github.com/theirongolddev/stmtburn/internal/pipeline"
)

// Sheet names, in workbook order.
const (
	SheetSummary       = "Summary"
	SheetCategories    = "Categories"
	SheetSubscriptions = "Subscriptions"
	SheetTransactions  = "Transactions"
)

var (
	summaryHeader       = []any{"Statement", "From", "To", "Expenses", "Income", "Net", "Food", "Restaurants", "Subscriptions", "Transactions", "Skipped"}
	categoriesHeader    = []any{"Statement", "Code", "Category", "Amount", "Share %"}
	subscriptionsHeader = []any{"Statement", "Merchant", "Avg amount", "Occurrences"}
	transactionsHeader  = []any{"Statement", "Date", "Amount", "Currency", "Counterparty", "Category", "Code", "Subscription", "Description"}
)

// numFmtFixed2 is the built-in "0.00" number format.
const numFmtFixed2 = 2

// Workbook builds a workbook with one row per statement on the summary
// sheet and the per-statement details on the others. The caller must
// Close the returned file.
func Workbook(reports []pipeline.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		_ = f.Close()
		return nil, err
	}
	for _, name := range []string{SheetCategories, SheetSubscriptions, SheetTransactions} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	w := &sheetWriter{f: f, next: map[string]int{}}
	w.row(SheetSummary, summaryHeader)
	w.row(SheetCategories, categoriesHeader)
	w.row(SheetSubscriptions, subscriptionsHeader)
	w.row(SheetTransactions, transactionsHeader)

	for _, r := range reports {
		name := r.File.Name
		if name == "" {
			name = r.File.Path
		}
		s := r.Summary
		w.row(SheetSummary, []any{
			name, date(r.Statement.PeriodFrom), date(r.Statement.PeriodTo),
			money(s.TotalExpenses), money(s.TotalIncome), money(s.Net()),
			money(s.FoodExpenses), money(s.RestaurantExpenses), money(s.SubscriptionsExpenses),
			len(r.Transactions), len(r.Statement.Skipped),
		})
		for _, c := range s.Categories {
			w.row(SheetCategories, []any{name, c.Code, c.Name, money(c.Amount), money(c.Percentage)})
		}
		for _, sub := range s.SubscriptionsTop {
			w.row(SheetSubscriptions, []any{name, sub.Merchant, money(sub.AvgAmount), sub.Occurrences})
		}
		for _, tx := range r.Transactions {
			w.row(SheetTransactions, transactionRow(name, tx))
		}
	}
	if w.err != nil {
		_ = f.Close()
		return nil, w.err
	}

	if err := formatColumns(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Write builds the workbook and writes it to out.
func Write(out io.Writer, reports []pipeline.Report) error {
	f, err := Workbook(reports)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// SaveAs builds the workbook and saves it at path.
func SaveAs(path string, reports []pipeline.Report) error {
	f, err := Workbook(reports)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

type sheetWriter struct {
	f    *excelize.File
	next map[string]int // next 1-based row per sheet
	err  error
}

func (w *sheetWriter) row(sheet string, values []any) {
	if w.err != nil {
		return
	}
	n := w.next[sheet] + 1
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("%s row %d: %w", sheet, n, err)
		return
	}
	w.next[sheet] = n
}

func transactionRow(statement string, tx model.Transaction) []any {
	code := tx.CategoryCode
	if code == "" {
		code = model.UncategorizedCode
	}
	return []any{
		statement, date(tx.BookedAt), money(tx.Amount), tx.Currency, tx.Counterparty,
		tx.CategoryName, code, tx.Subscription, tx.Description,
	}
}

// money converts to float64 only at the spreadsheet boundary. Amounts
// carry two decimals, which float64 displays exactly under "0.00".
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func formatColumns(f *excelize.File) error {
	style, err := f.NewStyle(&excelize.Style{NumFmt: numFmtFixed2})
	if err != nil {
		return fmt.Errorf("creating number style: %w", err)
	}
	moneyCols := map[string]string{
		SheetSummary:       "D:I",
		SheetCategories:    "D:E",
		SheetSubscriptions: "C:C",
		SheetTransactions:  "C:C",
	}
	for sheet, cols := range moneyCols {
		if err := f.SetColStyle(sheet, cols, style); err != nil {
			return fmt.Errorf("styling %s: %w", sheet, err)
		}
		if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetTransactions, "I", "I", 60)
}
