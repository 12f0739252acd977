package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/stmtburn/internal/cli"
	"github.com/theirongolddev/stmtburn/internal/pipeline"
	"github.com/theirongolddev/stmtburn/internal/tui/components"
	"github.com/theirongolddev/stmtburn/internal/tui/theme"
)

func renderSubscriptions(r pipeline.Report, cw int) string {
	t := theme.Active
	top := r.Summary.SubscriptionsTop

	if len(top) == 0 {
		return components.ContentCard("Subscriptions", "No recurring charges detected.", cw)
	}

	head := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	merchant := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	amount := lipgloss.NewStyle().Foreground(t.Recurring).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	nameW := max(components.CardInnerWidth(cw)-30, 16)

	lines := []string{head.Render(fmt.Sprintf("%-*s %16s %10s", nameW, "Merchant", "Average", "Charges"))}
	for _, s := range top {
		lines = append(lines,
			merchant.Render(fmt.Sprintf("%-*s ", nameW, cli.Truncate(s.Merchant, nameW)))+
				amount.Render(fmt.Sprintf("%16s", cli.FormatMoney(s.AvgAmount)))+
				dim.Render(fmt.Sprintf(" %10d", s.Occurrences)))
	}

	var charges []string
	for _, tx := range r.Transactions {
		if tx.Subscription {
			charges = append(charges, dim.Render(cli.FormatDate(tx.BookedAt))+"  "+
				merchant.Render(cli.Truncate(counterpartyOrUnknown(tx.Counterparty), nameW))+"  "+
				amount.Render(cli.FormatMoney(tx.Amount)))
		}
	}

	return strings.Join([]string{
		components.ContentCard("Top subscriptions", strings.Join(lines, "\n"), cw),
		components.ContentCard("Recurring charges", strings.Join(charges, "\n"), cw),
	}, "\n")
}

func counterpartyOrUnknown(s string) string {
	if s == "" {
		return pipeline.UnknownMerchant
	}
	return s
}
