package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/stmtburn/internal/config"
	"github.com/theirongolddev/stmtburn/internal/source"
	"github.com/theirongolddev/stmtburn/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	Args:  cobra.NoArgs,
	// setup has to run even when the existing config does not validate
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Start from the file on disk so env and flag overrides are not persisted.
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	dir := cfg.General.StatementsDir
	workers := strconv.Itoa(cfg.General.Workers)
	format := cfg.Output.Format
	themeName := cfg.Output.Theme
	level := cfg.Logging.Level
	ledger := cfg.General.Ledger

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to stmtburn").
				Description("Point it at a folder of .txt bank statements."),
			huh.NewInput().
				Title("Statements directory").
				Placeholder("current directory").
				Value(&dir).
				Validate(validateStatementsDir),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Parallel workers").
				Options(
					huh.NewOption("All CPUs", "0"),
					huh.NewOption("1", "1"),
					huh.NewOption("2", "2"),
					huh.NewOption("4", "4"),
					huh.NewOption("8", "8"),
				).
				Value(&workers),
			huh.NewConfirm().
				Title("Keep a run ledger?").
				Description("Remembers which statements you already looked at. No amounts are stored.").
				Value(&ledger),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default output").
				Options(
					huh.NewOption("Tables", config.FormatTable),
					huh.NewOption("JSON", config.FormatJSON),
				).
				Value(&format),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&themeName),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("Errors only", "error"),
					huh.NewOption("Warnings (skipped records)", "warn"),
					huh.NewOption("Info (statement totals)", "info"),
					huh.NewOption("Debug", "debug"),
				).
				Value(&level),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	cfg.General.StatementsDir = dir
	cfg.General.Workers, _ = strconv.Atoi(workers)
	cfg.General.Ledger = ledger
	cfg.Output.Format = format
	cfg.Output.Theme = themeName
	cfg.Logging.Level = level

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	if dir != "" {
		if files, err := source.ScanDir(dir); err == nil {
			fmt.Printf("  Found %d statements in %s\n", len(files), dir)
		}
	}
	fmt.Println("  Run `stmtburn setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func validateStatementsDir(dir string) error {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot open %s", dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
