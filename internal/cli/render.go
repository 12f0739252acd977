package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Palette shared by all non-interactive commands.
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	incomeStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	expenseStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	barStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
	// LeftCols is the number of leading left-aligned text columns. The
	// rest are right-aligned amounts. Zero means one.
	LeftCols int
}

const titleWidth = 55

// RenderTitle renders title centered in a rounded box.
func RenderTitle(title string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(titleWidth).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(titleStyle.Render(Truncate(title, titleWidth-2)))
}

// RenderTable renders a bordered table with headers and rows. A row of
// exactly "---" draws a separator.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}
	widths := t.columnWidths()
	leftCols := max(t.LeftCols, 1)

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}

	b.WriteString(rule(widths, "╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(tableRow(widths, t.Headers, headerStyle, len(widths)))
		b.WriteString(rule(widths, "├", "┼", "┤"))
	}
	for _, row := range t.Rows {
		if isSeparator(row) {
			b.WriteString(rule(widths, "├", "┼", "┤"))
			continue
		}
		b.WriteString(tableRow(widths, row, valueStyle, leftCols))
	}
	b.WriteString(rule(widths, "╰", "┴", "╯"))

	return b.String()
}

func (t Table) columnWidths() []int {
	n := len(t.Headers)
	if n == 0 {
		n = len(t.Rows[0])
	}
	widths := make([]int, n)
	if t.Widths != nil {
		copy(widths, t.Widths)
		return widths
	}
	grow := func(cells []string) {
		for i, cell := range cells {
			if i < n {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	grow(t.Headers)
	for _, row := range t.Rows {
		if !isSeparator(row) {
			grow(row)
		}
	}
	return widths
}

// rule draws a horizontal border line using the given corner and joint runes.
func rule(widths []int, left, joint, right string) string {
	segs := make([]string, len(widths))
	for i, w := range widths {
		segs[i] = strings.Repeat("─", w+2)
	}
	return dimStyle.Render(left+strings.Join(segs, joint)+right) + "\n"
}

// tableRow renders one row. The first leftCols cells are left-aligned.
func tableRow(widths []int, cells []string, style lipgloss.Style, leftCols int) string {
	bar := dimStyle.Render("│")
	var b strings.Builder
	b.WriteString(bar)
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i < leftCols {
			cell = padRight(cell, w)
		} else {
			cell = padLeft(cell, w)
		}
		b.WriteString(style.Render(" " + cell + " "))
		b.WriteString(bar)
	}
	b.WriteString("\n")
	return b.String()
}

// RenderProgressBar renders a simple text progress bar.
func RenderProgressBar(current, total int, width int) string {
	if total <= 0 {
		return ""
	}

	filled := current * width / total
	filled = min(max(filled, 0), width)

	return fmt.Sprintf("[%s] %s/%s",
		mutedStyle.Render(strings.Repeat("█", filled)+strings.Repeat("░", width-filled)),
		FormatNumber(int64(current)), FormatNumber(int64(total)))
}

// RenderHorizontalBar renders a horizontal bar chart entry.
func RenderHorizontalBar(label string, value, maxValue decimal.Decimal, maxWidth int) string {
	if !maxValue.IsPositive() {
		return fmt.Sprintf("  %s", label)
	}
	barLen := int(value.Mul(decimal.NewFromInt(int64(maxWidth))).Div(maxValue).IntPart())
	barLen = min(max(barLen, 0), maxWidth)
	bar := strings.Repeat("█", barLen)
	return fmt.Sprintf("  %s %s", padRight(label, 22), barStyle.Render(bar))
}

// RenderAmount colors an amount by sign.
func RenderAmount(d decimal.Decimal) string {
	s := FormatMoney(d)
	switch {
	case d.IsNegative():
		return expenseStyle.Render(s)
	case d.IsPositive():
		return incomeStyle.Render(s)
	default:
		return mutedStyle.Render(s)
	}
}

// RenderKeyValue renders a label and value on one line.
func RenderKeyValue(label, value string) string {
	return "  " + mutedStyle.Render(padRight(label, 22)) + " " + value
}

// RenderWarning renders a one-line warning.
func RenderWarning(msg string) string {
	return "  " + warnStyle.Render(msg)
}

func isSeparator(row []string) bool {
	return len(row) == 1 && row[0] == "---"
}

func padRight(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

func padLeft(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return strings.Repeat(" ", w-n) + s
	}
	return s
}
