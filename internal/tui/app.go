// Package tui provides the interactive Bubble Tea browser for analyzed statements.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/stmtburn/internal/cli"
	"github.com/theirongolddev/stmtburn/internal/pipeline"
	"github.com/theirongolddev/stmtburn/internal/tui/components"
	"github.com/theirongolddev/stmtburn/internal/tui/theme"
)

// Loader runs the statement pipeline. progress may be nil.
type Loader func(ctx context.Context, progress pipeline.ProgressFunc) (*pipeline.LedgerLoadResult, error)

// DataLoadedMsg is sent when the data pipeline finishes.
type DataLoadedMsg struct {
	Result   *pipeline.LedgerLoadResult
	Err      error
	LoadTime time.Duration
}

// ProgressMsg reports file parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// reloadedMsg carries the result of a background reload.
type reloadedMsg DataLoadedMsg

const (
	tabOverview = iota
	tabCategories
	tabSubscriptions
	tabTransactions
)

// App is the root Bubble Tea model.
type App struct {
	ctx  context.Context
	load Loader

	// Data
	result    *pipeline.LedgerLoadResult
	loadErr   error
	loaded    bool
	loadTime  time.Duration
	reloading bool

	// UI state
	width     int
	height    int
	activeTab int
	stmt      int // index into result.Reports
	showHelp  bool

	tx txState

	// Loading, channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

// txState is the transactions tab state.
type txState struct {
	cursor       int
	offset       int
	expensesOnly bool
	searching    bool
	search       textinput.Model
	query        string // committed search, matched case-insensitively
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5
)

// NewApp creates a new TUI app model.
func NewApp(ctx context.Context, load Loader) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		ctx:     ctx,
		load:    load,
		spinner: sp,
		loadSub: make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.ctx, a.load, a.loadSub),
		a.spinner.Tick,
	)
}

func (a App) reports() []pipeline.Report {
	if a.result == nil {
		return nil
	}
	return a.result.Reports
}

// report returns the selected statement, or nil when none loaded.
func (a App) report() *pipeline.Report {
	rs := a.reports()
	if a.stmt < 0 || a.stmt >= len(rs) {
		return nil
	}
	return &rs[a.stmt]
}

func (a *App) selectStatement(i int) {
	n := len(a.reports())
	if n == 0 {
		return
	}
	a.stmt = (i + n) % n
	a.tx.cursor = 0
	a.tx.offset = 0
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabTransactions {
				a.moveCursor(-1)
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabTransactions {
				a.moveCursor(1)
			}
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := components.TabAtX(msg.X, a.activeTab); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case DataLoadedMsg:
		a.applyResult(msg)
		a.loaded = true
		return a, nil

	case reloadedMsg:
		a.reloading = false
		a.applyResult(DataLoadedMsg(msg))
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	if a.tx.searching {
		var cmd tea.Cmd
		a.tx.search, cmd = a.tx.search.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) applyResult(msg DataLoadedMsg) {
	a.loadErr = msg.Err
	a.loadTime = msg.LoadTime
	if msg.Err != nil {
		return
	}
	a.result = msg.Result
	if a.stmt >= len(a.reports()) {
		a.stmt = 0
	}
	a.tx.cursor = min(a.tx.cursor, max(len(a.visibleTransactions())-1, 0))
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global: quit
	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	// Search mode intercepts all keys when active
	if a.tx.searching {
		return a.updateSearch(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if a.activeTab == tabTransactions {
		if handled, cmd := a.updateTransactionsKey(key); handled {
			return a, cmd
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.reloading {
			a.reloading = true
			return a, reloadCmd(a.ctx, a.load)
		}
	case "]", "n":
		a.selectStatement(a.stmt + 1)
	case "[", "p":
		a.selectStatement(a.stmt - 1)
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if len(key) == 1 {
			if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  stmtburn needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

// onSurface styles text drawn inside a modal card.
func onSurface(fg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(fg).Background(theme.Active.Surface)
}

// modal centers body in a bordered card that fills the whole screen.
func (a App) modal(body string, padY, padX int) string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(padY, padX).
		Render(body)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoading() string {
	t := theme.Active
	muted := onSurface(t.TextMuted)
	count := onSurface(t.TextPrimary)

	var b strings.Builder
	b.WriteString(onSurface(t.AccentBright).Bold(true).Render("◈ stmtburn"))
	b.WriteString(muted.Render(" · where the money went") + "\n\n")
	b.WriteString(a.spinner.View())

	if a.progressMax == 0 {
		b.WriteString(muted.Render(" Looking for statements..."))
		return a.modal(b.String(), 2, 4)
	}
	barW := min(max(a.width-40, 20), 40)
	b.WriteString(muted.Render(" Parsing statements\n\n"))
	b.WriteString(components.ProgressBar(float64(a.progress)/float64(a.progressMax), barW) + "\n")
	b.WriteString(count.Render(cli.FormatNumber(int64(a.progress))) +
		muted.Render(" / ") +
		count.Render(cli.FormatNumber(int64(a.progressMax))))
	return a.modal(b.String(), 2, 4)
}

var helpBindings = []struct{ key, desc string }{
	{"o c s t", "Jump to tab"},
	{"← →", "Previous / Next tab"},
	{"[ ]", "Previous / Next statement"},
	{"j k g G", "Move in transactions"},
	{"/", "Search transactions"},
	{"e", "Toggle expenses only"},
	{"Esc", "Clear search"},
	{"r", "Reload statements"},
	{"?", "Toggle help"},
	{"q", "Quit"},
}

func (a App) viewHelp() string {
	t := theme.Active
	key := onSurface(t.Accent).Bold(true)
	desc := onSurface(t.TextMuted)

	var b strings.Builder
	b.WriteString(onSurface(t.AccentBright).Bold(true).Render("◈ Keys") + "\n\n")
	for _, bind := range helpBindings {
		b.WriteString("  " + key.Render(fmt.Sprintf("%-10s", bind.key)) + "  " + desc.Render(bind.desc) + "\n")
	}
	b.WriteString("\n" + onSurface(t.TextDim).Render("Any key closes this"))
	return a.modal(b.String(), 1, 3)
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.renderStatementLine(w)
	statusBar := components.RenderStatusBar(w, a.statusInfo(), a.statusWarning())

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	r := a.report()
	switch {
	case a.loadErr != nil:
		content = "\n  " + lipgloss.NewStyle().Foreground(t.Expense).Render("Loading failed: "+a.loadErr.Error())
	case r == nil:
		content = "\n  No statements found. Pass .txt files or set --dir."
	default:
		switch a.activeTab {
		case tabOverview:
			content = renderOverview(*r, cw)
		case tabCategories:
			content = renderCategories(*r, cw)
		case tabSubscriptions:
			content = renderSubscriptions(*r, cw)
		case tabTransactions:
			content = a.renderTransactions(cw, contentH)
		}
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (a App) renderStatementLine(w int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	row := lipgloss.NewStyle().Background(t.Surface).Width(w)

	r := a.report()
	if r == nil {
		return row.Render(dim.Render(" no statement"))
	}
	line := dim.Render(fmt.Sprintf(" %d/%d ", a.stmt+1, len(a.reports()))) + accent.Render(r.File.Name)
	if r.Statement.HasPeriod() {
		line += dim.Render("  " + cli.FormatPeriod(r.Statement.PeriodFrom, r.Statement.PeriodTo))
	}
	if a.result.RunID != "" && !r.Seen {
		line += lipgloss.NewStyle().Foreground(t.Recurring).Background(t.Surface).Render("  new")
	}
	return row.Render(line)
}

func (a App) statusInfo() string {
	info := fmt.Sprintf("Loaded in %.1fs", a.loadTime.Seconds())
	if a.reloading {
		info = "Reloading..."
	}
	return info
}

func (a App) statusWarning() string {
	if a.result == nil {
		return ""
	}
	var parts []string
	if n := a.result.SkippedRecords; n > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped records", n))
	}
	if n := a.result.FileErrors; n > 0 {
		parts = append(parts, fmt.Sprintf("%d unreadable files", n))
	}
	return strings.Join(parts, ", ")
}

// loadDataCmd starts the pipeline in a background goroutine. It streams
// ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(ctx context.Context, load Loader, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking send so workers aren't stalled. A dropped update
			// is caught up by the next one.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			res, err := load(ctx, progressFn)
			sub <- DataLoadedMsg{Result: res, Err: err, LoadTime: time.Since(start)}
		}()

		// Block until the first message (either ProgressMsg or DataLoadedMsg)
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// reloadCmd reruns the pipeline without progress UI.
func reloadCmd(ctx context.Context, load Loader) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		res, err := load(ctx, nil)
		return reloadedMsg{Result: res, Err: err, LoadTime: time.Since(start)}
	}
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > limit {
		lines = lines[:limit]
	}
	return strings.Join(lines, "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Count(s, "\n") + 1
	if lines >= h {
		return s
	}
	return s + strings.Repeat("\n", h-lines)
}
