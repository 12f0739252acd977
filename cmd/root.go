// Package cmd implements the stmtburn CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/stmtburn/internal/cli"
	"github.com/theirongolddev/stmtburn/internal/config"
	"github.com/theirongolddev/stmtburn/internal/logger"
	"github.com/theirongolddev/stmtburn/internal/pipeline"
	"github.com/theirongolddev/stmtburn/internal/source"
	"github.com/theirongolddev/stmtburn/internal/store"
)

var (
	flagDir      string
	flagName     string
	flagWorkers  int
	flagQuiet    bool
	flagNoLedger bool
	flagLogLevel string
	flagJSON     bool
)

// Effective settings, resolved once per invocation in initRuntime.
var (
	appCfg = config.DefaultConfig()
	appLog = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "stmtburn [statement.txt | dir]...",
	Short: "Bank statement spending analyzer",
	Long: "Parse plain-text bank statements, categorize transactions, detect\n" +
		"recurring charges and summarize where the money went.",
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: initRuntime,
	RunE:              runSummary,
	SilenceUsage:      true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDir, "dir", "d", "", "Statements directory (default: config or current dir)")
	rootCmd.PersistentFlags().StringVarP(&flagName, "name", "n", "", "Only statements whose file name contains this (case-insensitive)")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "Statements parsed in parallel (0 = all CPUs)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagNoLedger, "no-ledger", false, "Do not read or record the run ledger")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print JSON instead of tables")
}

// initRuntime merges config file, .env, environment and flags, in that
// order of increasing precedence, and builds the logger.
func initRuntime(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg, err = config.ApplyEnv(cfg)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.General.StatementsDir = flagDir
	}
	if flags.Changed("workers") {
		cfg.General.Workers = flagWorkers
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = flagLogLevel
	}
	if flagJSON {
		cfg.Output.Format = config.FormatJSON
	}
	if flagNoLedger {
		cfg.General.Ledger = false
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration (%s): %w", config.Path(), err)
	}
	lvl, err := logger.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}

	appCfg = cfg
	appLog = logger.New(lvl)
	cmd.SetContext(logger.WithContext(cmd.Context(), appLog))
	return nil
}

func statementsDir() string {
	if appCfg.General.StatementsDir != "" {
		return appCfg.General.StatementsDir
	}
	return "."
}

// resolveFiles turns positional arguments into statement files. Directories
// are scanned; no arguments means the configured statements directory. A file
// named more than once is kept at its first position.
func resolveFiles(args []string) ([]source.DiscoveredFile, error) {
	var files []source.DiscoveredFile
	seen := make(map[string]bool)
	add := func(df source.DiscoveredFile) {
		if !seen[df.Path] {
			seen[df.Path] = true
			files = append(files, df)
		}
	}
	if len(args) == 0 {
		args = []string{statementsDir()}
	}
	for _, arg := range args {
		// the ledger keys statements by path, so keep it stable across cwds
		if abs, err := filepath.Abs(arg); err == nil {
			arg = abs
		}
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			found, err := source.ScanDir(arg)
			if err != nil {
				return nil, err
			}
			for _, df := range found {
				add(df)
			}
			continue
		}
		df, err := source.Discover(arg)
		if err != nil {
			return nil, err
		}
		add(df)
	}
	if flagName != "" {
		files = source.FindByNamePart(files, flagName)
	}
	return files, nil
}

func pipelineOptions(progress pipeline.ProgressFunc) (pipeline.Options, error) {
	classifier, err := appCfg.Classifier()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Workers:  appCfg.General.Workers,
		Parser:   source.NewParser(appLog),
		Analyzer: pipeline.NewAnalyzer(classifier, appLog),
		Progress: progress,
		Log:      &appLog,
	}, nil
}

func isJSON() bool {
	return appCfg.Output.Format == config.FormatJSON
}

// loadData is the shared data loading path used by the report commands.
func loadData(ctx context.Context, args []string) (*pipeline.LedgerLoadResult, error) {
	files, err := resolveFiles(args)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return &pipeline.LedgerLoadResult{}, nil
	}

	quiet := flagQuiet || isJSON()
	if !quiet {
		fmt.Fprintf(os.Stderr, "  Found %d statements\n", len(files))
	}
	progressFn := func(current, total int) {
		if quiet {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Parsing %s", cli.RenderProgressBar(current, total, 20))
	}
	notice := func(msg string) {
		if !quiet {
			fmt.Fprintf(os.Stderr, "\n  %s\n", msg)
		}
	}

	lr, err := runPipeline(ctx, files, progressFn, notice)
	if err != nil {
		return nil, err
	}
	if !quiet {
		if lr.RunID != "" {
			fmt.Fprintf(os.Stderr, "\r  Parsed %d statements (%d new since last run)    \n",
				lr.ParsedFiles, lr.NewFiles)
		} else {
			fmt.Fprintf(os.Stderr, "\r  Parsed %d statements    \n", lr.ParsedFiles)
		}
	}
	return lr, nil
}

// runPipeline parses and analyzes files, recording the run in the ledger
// when it is enabled and reachable. Ledger trouble never fails the run.
func runPipeline(ctx context.Context, files []source.DiscoveredFile, progress pipeline.ProgressFunc, notice func(string)) (*pipeline.LedgerLoadResult, error) {
	opts, err := pipelineOptions(progress)
	if err != nil {
		return nil, err
	}

	if appCfg.General.Ledger {
		ledger, err := store.Open(pipeline.LedgerPath())
		if err != nil {
			appLog.Warn().Err(err).Msg("ledger unavailable")
			notice("Ledger unavailable, this run will not be recorded")
		} else {
			defer ledger.Close()

			lr, err := pipeline.LoadWithLedger(ctx, files, ledger, opts)
			if err == nil {
				if lr.LedgerErr != nil {
					appLog.Warn().Err(lr.LedgerErr).Msg("run not recorded")
				}
				return lr, nil
			}
			if ctx.Err() != nil {
				return nil, err
			}
			appLog.Warn().Err(err).Msg("ledger error")
			notice("Ledger error, parsing without it")
		}
	}

	result, err := pipeline.Load(ctx, files, opts)
	if err != nil {
		return nil, err
	}
	return &pipeline.LedgerLoadResult{LoadResult: *result}, nil
}

// printLoadWarnings reports files and records that were left out.
func printLoadWarnings(lr *pipeline.LedgerLoadResult) {
	if lr.FileErrors > 0 {
		fmt.Fprintln(os.Stderr, cli.RenderWarning(fmt.Sprintf("%d files could not be read", lr.FileErrors)))
	}
	if lr.SkippedRecords > 0 {
		fmt.Fprintln(os.Stderr, cli.RenderWarning(fmt.Sprintf("%d records skipped", lr.SkippedRecords)))
	}
}

func printNoStatements() {
	fmt.Printf("\n  No statements found in %s\n", statementsDir())
	fmt.Println("  Pass statement files or set --dir.")
}
