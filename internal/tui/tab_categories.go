package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/stmtburn/internal/cli"
	"github.com/theirongolddev/stmtburn/internal/pipeline"
	"github.com/theirongolddev/stmtburn/internal/tui/components"
	"github.com/theirongolddev/stmtburn/internal/tui/theme"
)

var hundred = decimal.NewFromInt(100)

func renderCategories(r pipeline.Report, cw int) string {
	t := theme.Active
	cats := r.Summary.Categories
	if len(cats) == 0 {
		return components.ContentCard("Categories", "No expenses in this statement.", cw)
	}

	inner := components.CardInnerWidth(cw)
	const labelW, valueW = 24, 28
	barW := max(inner-labelW-valueW-2, 10)

	amountStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	lines := make([]string, 0, len(cats))
	for _, c := range cats {
		share, _ := c.Percentage.Div(hundred).Float64()
		value := cli.FormatPercent(c.Percentage) + amountStyle.Render("  "+cli.FormatMoney(c.Amount))
		lines = append(lines, components.ShareBar(c.Name, value, share, labelW, barW))
	}

	title := "Expenses by category · " + cli.FormatMoney(r.Summary.TotalExpenses)
	return components.ContentCard(title, strings.Join(lines, "\n"), cw)
}
