package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/stmtburn/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar with key hints on the left
// and info on the right.
func RenderStatusBar(width int, info string, warn string) string {
	t := theme.Active

	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	infoStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface)

	left := hintStyle.Render(" [?]help  [ ]statement  [r]eload  [q]uit")
	right := infoStyle.Render(info + " ")
	if warn != "" {
		right = warnStyle.Render(warn+"  ") + right
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	fill := lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", padding))
	return left + fill + right
}
