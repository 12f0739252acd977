package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/stmtburn/internal/cli"
	"github.com/theirongolddev/stmtburn/internal/pipeline"
	"github.com/theirongolddev/stmtburn/internal/tui/components"
	"github.com/theirongolddev/stmtburn/internal/tui/theme"
)

func renderOverview(r pipeline.Report, cw int) string {
	t := theme.Active
	s := r.Summary

	netColor := t.Income
	if s.Net().IsNegative() {
		netColor = t.Expense
	}

	totals := components.MetricCardRow([]components.Metric{
		{Label: "Expenses", Value: cli.FormatMoney(s.TotalExpenses), Color: t.Expense},
		{Label: "Income", Value: cli.FormatMoney(s.TotalIncome), Color: t.Income},
		{Label: "Net", Value: cli.FormatMoney(s.Net()), Color: netColor},
		{Label: "Transactions", Value: strconv.Itoa(len(r.Transactions)), Note: skippedNote(r)},
	}, cw)

	focus := components.MetricCardRow([]components.Metric{
		{Label: "Food", Value: cli.FormatMoney(s.FoodExpenses)},
		{Label: "Restaurants", Value: cli.FormatMoney(s.RestaurantExpenses)},
		{Label: "Subscriptions", Value: cli.FormatMoney(s.SubscriptionsExpenses), Color: t.Recurring},
	}, cw)

	insightStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(components.CardInnerWidth(cw))
	insight := components.ContentCard("Insight", insightStyle.Render(s.Insight), cw)

	controls := components.ContentCard("Statement", controlTotals(r), cw)

	return strings.Join([]string{totals, focus, insight, controls}, "\n")
}

func skippedNote(r pipeline.Report) string {
	if n := len(r.Statement.Skipped); n > 0 {
		return fmt.Sprintf("%d skipped", n)
	}
	return ""
}

// controlTotals shows the parser's debit and credit sums next to the
// classified totals so a mismatch is easy to spot.
func controlTotals(r pipeline.Report) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	lines := []string{
		label.Render(fmt.Sprintf("%-16s", "File")) + value.Render(r.File.Path),
		label.Render(fmt.Sprintf("%-16s", "Period")) + value.Render(cli.FormatPeriod(r.Statement.PeriodFrom, r.Statement.PeriodTo)),
		label.Render(fmt.Sprintf("%-16s", "Debits")) + value.Render(cli.FormatMoney(r.Statement.Debits)),
		label.Render(fmt.Sprintf("%-16s", "Credits")) + value.Render(cli.FormatMoney(r.Statement.Credits)),
	}
	return strings.Join(lines, "\n")
}
