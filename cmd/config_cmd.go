package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/stmtburn/internal/classify"
	"github.com/theirongolddev/stmtburn/internal/config"
	"github.com/theirongolddev/stmtburn/internal/pipeline"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	if isJSON() {
		return writeJSON(cfg)
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Statements dir: %s\n", statementsDir())
	if cfg.General.Workers > 0 {
		fmt.Printf("    Workers:        %d\n", cfg.General.Workers)
	} else {
		fmt.Println("    Workers:        all CPUs")
	}
	if cfg.General.Ledger {
		fmt.Printf("    Ledger:         %s\n", pipeline.LedgerPath())
	} else {
		fmt.Println("    Ledger:         off")
	}
	fmt.Println()

	fmt.Println("  [Output]")
	fmt.Printf("    Format: %s\n", cfg.Output.Format)
	fmt.Printf("    Theme:  %s\n", cfg.Output.Theme)
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level: %s\n", cfg.Logging.Level)
	fmt.Println()

	income, expense := classify.Default().Rules()
	fmt.Println("  [Rules]")
	fmt.Printf("    Built-in: %d income, %d expense\n", income, expense)
	for _, r := range cfg.Rules {
		fmt.Printf("    %-22s %s\n", strings.ToUpper(r.Category), strings.Join(r.Keywords, ", "))
	}
	fmt.Println()

	fmt.Printf("  Environment overrides: %s, %s, %s, %s\n",
		config.EnvStatementsDir, config.EnvWorkers, config.EnvLogLevel, config.EnvOutputFormat)
	fmt.Println("  Run `stmtburn setup` to reconfigure.")
	return nil
}
