package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/stmtburn/internal/pipeline"
	"github.com/theirongolddev/stmtburn/internal/tui"
	"github.com/theirongolddev/stmtburn/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [statement.txt | dir]...",
	Short: "Browse analyzed statements interactively",
	Args:  cobra.ArbitraryArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	theme.SetActive(appCfg.Output.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	if appCfg.Output.Theme != theme.Terminal.Name {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}

	// The TUI owns the terminal; log lines would tear the screen.
	appLog = zerolog.Nop()

	load := func(ctx context.Context, progress pipeline.ProgressFunc) (*pipeline.LedgerLoadResult, error) {
		files, err := resolveFiles(args)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return &pipeline.LedgerLoadResult{}, nil
		}
		return runPipeline(ctx, files, progress, func(string) {})
	}

	p := tea.NewProgram(tui.NewApp(cmd.Context(), load), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
