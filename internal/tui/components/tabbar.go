package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/stmtburn/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune // shortcut, always the lowercase first letter
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o'},
	{Name: "Categories", Key: 'c'},
	{Name: "Subscriptions", Key: 's'},
	{Name: "Transactions", Key: 't'},
}

// tabSep is rendered between tabs.
const tabSep = " "

// TabWidth is the rendered width of tab i. Inactive tabs show their
// shortcut as "[x]" in place of the first letter.
func TabWidth(i, activeIdx int) int {
	w := len(Tabs[i].Name) + 2 // horizontal padding
	if i != activeIdx {
		w += 2 // brackets
	}
	return w
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Selection).
		Bold(true).
		Padding(0, 1)
	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)
	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)
	pad := lipgloss.NewStyle().Background(t.Surface)

	var parts []string
	for i, tab := range Tabs {
		if i == activeIdx {
			parts = append(parts, activeStyle.Render(tab.Name))
			continue
		}
		parts = append(parts, pad.Render(" ")+
			inactiveStyle.Render("[")+keyStyle.Render(tab.Name[:1])+inactiveStyle.Render("]")+
			inactiveStyle.Render(tab.Name[1:])+pad.Render(" "))
	}

	row := strings.Join(parts, pad.Render(tabSep))
	if fill := width - lipgloss.Width(row); fill > 0 {
		row += pad.Render(strings.Repeat(" ", fill))
	}
	return row
}

// TabAtX returns the tab under column x, or -1.
func TabAtX(x, activeIdx int) int {
	pos := 0
	for i := range Tabs {
		w := TabWidth(i, activeIdx)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + len(tabSep)
	}
	return -1
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
