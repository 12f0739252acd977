package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/stmtburn/internal/cli"
	"github.com/theirongolddev/stmtburn/internal/model"
	"github.com/theirongolddev/stmtburn/internal/tui/theme"
)

// rows taken by the list header and search line
const txChrome = 3

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "description, merchant or category"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

// visibleTransactions applies the expenses toggle and the search query.
func (a App) visibleTransactions() []model.Transaction {
	r := a.report()
	if r == nil {
		return nil
	}
	q := strings.ToLower(a.tx.query)
	var out []model.Transaction
	for _, tx := range r.Transactions {
		if a.tx.expensesOnly && !tx.IsExpense() {
			continue
		}
		if q != "" {
			hay := strings.ToLower(tx.Description + " " + tx.Counterparty + " " + tx.CategoryName + " " + tx.CategoryCode)
			if !strings.Contains(hay, q) {
				continue
			}
		}
		out = append(out, tx)
	}
	return out
}

func (a *App) moveCursor(delta int) {
	n := len(a.visibleTransactions())
	a.tx.cursor = min(max(a.tx.cursor+delta, 0), max(n-1, 0))
	a.tx.offset = scrollWindow(a.tx.cursor, a.tx.offset, a.listHeight(), n)
}

// updateTransactionsKey handles keys specific to the transactions tab.
func (a *App) updateTransactionsKey(key string) (bool, tea.Cmd) {
	switch key {
	case "j", "down":
		a.moveCursor(1)
	case "k", "up":
		a.moveCursor(-1)
	case "g", "home":
		a.tx.cursor = 0
		a.tx.offset = 0
	case "G", "end":
		a.moveCursor(len(a.visibleTransactions()))
	case "ctrl+d", "pgdown":
		a.moveCursor(max(a.listHeight()/2, 1))
	case "ctrl+u", "pgup":
		a.moveCursor(-max(a.listHeight()/2, 1))
	case "e":
		a.tx.expensesOnly = !a.tx.expensesOnly
		a.tx.cursor = 0
		a.tx.offset = 0
	case "/":
		a.tx.searching = true
		a.tx.search = newSearchInput()
		a.tx.search.SetValue(a.tx.query)
		return true, a.tx.search.Focus()
	case "esc":
		if a.tx.query == "" {
			return false, nil
		}
		a.tx.query = ""
		a.tx.cursor = 0
		a.tx.offset = 0
	default:
		return false, nil
	}
	return true, nil
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.tx.query = strings.TrimSpace(a.tx.search.Value())
		a.tx.searching = false
		a.tx.cursor = 0
		a.tx.offset = 0
		return a, nil
	case "esc":
		a.tx.searching = false
		return a, nil
	}
	var cmd tea.Cmd
	a.tx.search, cmd = a.tx.search.Update(msg)
	return a, cmd
}

// listHeight is the number of transaction rows that fit under the tab bar,
// statement line and status bar.
func (a App) listHeight() int {
	return max(a.height-3, minContentHeight) - txChrome
}

// scrollWindow returns the first visible row so cursor stays on screen.
func scrollWindow(cursor, offset, height, n int) int {
	if height <= 0 || n <= height {
		return 0
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+height {
		offset = cursor - height + 1
	}
	return min(max(offset, 0), n-height)
}

func (a App) renderTransactions(cw, h int) string {
	t := theme.Active
	txs := a.visibleTransactions()

	dim := lipgloss.NewStyle().Foreground(t.TextDim)
	head := lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)
	accent := lipgloss.NewStyle().Foreground(t.Accent)

	// search / filter line
	var filter string
	switch {
	case a.tx.searching:
		filter = " " + a.tx.search.View()
	case a.tx.query != "":
		filter = dim.Render(" search: ") + accent.Render(a.tx.query) + dim.Render("  (esc clears)")
	default:
		filter = dim.Render(" / to search")
	}
	if a.tx.expensesOnly {
		filter += accent.Render("  expenses only")
	}
	filter += dim.Render(fmt.Sprintf("  %d shown", len(txs)))

	const dateW, amountW, catW, flagW = 10, 16, 20, 2
	descW := max(cw-dateW-amountW-catW-flagW-6, 12)

	lines := []string{
		filter,
		head.Render(fmt.Sprintf(" %-*s %*s  %-*s %-*s %-*s", dateW, "Date", amountW, "Amount", catW, "Category", flagW, "", descW, "Description")),
	}

	listH := h - txChrome
	offset := scrollWindow(a.tx.cursor, a.tx.offset, listH, len(txs))
	end := min(offset+listH, len(txs))

	for i := offset; i < end; i++ {
		tx := txs[i]
		amountColor := t.Income
		if tx.IsExpense() {
			amountColor = t.Expense
		}
		desc := tx.Description
		if tx.Counterparty != "" {
			desc = tx.Counterparty + " · " + desc
		}
		flags := ""
		if tx.Subscription {
			flags = "↻"
		}

		line := " " + fmt.Sprintf("%-*s ", dateW, cli.FormatDate(tx.BookedAt)) +
			lipgloss.NewStyle().Foreground(amountColor).Render(fmt.Sprintf("%*s", amountW, cli.FormatMoney(tx.Amount))) +
			"  " + fmt.Sprintf("%-*s ", catW, cli.Truncate(tx.CategoryName, catW)) +
			lipgloss.NewStyle().Foreground(t.Recurring).Render(fmt.Sprintf("%-*s", flagW, flags)) + " " +
			cli.Truncate(desc, descW)

		if i == a.tx.cursor {
			line = lipgloss.NewStyle().Background(t.Selection).Width(cw).Render(line)
		}
		lines = append(lines, line)
	}

	if len(txs) == 0 {
		lines = append(lines, dim.Render(" no matching transactions"))
	}
	return strings.Join(lines, "\n")
}
