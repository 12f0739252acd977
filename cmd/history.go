package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/stmtburn/internal/cli"
	"github.com/theirongolddev/stmtburn/internal/pipeline"
	"github.com/theirongolddev/stmtburn/internal/store"
)

var (
	flagHistoryLimit int
	flagForget       string
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Past runs recorded in the ledger",
	Long: "List recent runs, or the statements of one run when a run ID\n" +
		"(or a unique prefix of it) is given.",
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of runs to show")
	historyCmd.Flags().StringVar(&flagForget, "forget", "", "Forget a statement file so the next run reports it as new")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, args []string) error {
	ledger, err := store.Open(pipeline.LedgerPath())
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer ledger.Close()

	if flagForget != "" {
		path := flagForget
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if err := ledger.ForgetFile(path); err != nil {
			return fmt.Errorf("forgetting %s: %w", path, err)
		}
		fmt.Printf("  Forgot %s\n", path)
		return nil
	}

	if len(args) == 1 {
		return showRun(ledger, args[0])
	}

	runs, err := ledger.RecentRuns(flagHistoryLimit)
	if err != nil {
		return err
	}
	total, err := ledger.RunCount()
	if err != nil {
		return err
	}

	if isJSON() {
		return writeJSON(runs)
	}

	if len(runs) == 0 {
		fmt.Println("\n  No runs recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			shortID(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(r.Statements),
			cli.FormatNumber(int64(r.Transactions)),
			strconv.Itoa(r.SkippedRecords),
			strconv.Itoa(r.FileErrors),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    fmt.Sprintf("Runs (%d of %d)", len(runs), total),
		Headers:  []string{"Run", "Started", "Statements", "Transactions", "Skipped", "Errors"},
		Rows:     rows,
		LeftCols: 2,
	}))
	fmt.Printf("\n  Ledger: %s\n", pipeline.LedgerPath())
	return nil
}

func showRun(ledger *store.Ledger, prefix string) error {
	runs, err := ledger.RecentRuns(1000)
	if err != nil {
		return err
	}
	var match []store.Run
	for _, r := range runs {
		if strings.HasPrefix(r.ID, prefix) {
			match = append(match, r)
		}
	}
	switch len(match) {
	case 0:
		return fmt.Errorf("no run matches %q", prefix)
	case 1:
	default:
		return fmt.Errorf("run id %q is ambiguous (%d matches)", prefix, len(match))
	}

	stmts, err := ledger.StatementRuns(match[0].ID)
	if err != nil {
		return err
	}
	if isJSON() {
		return writeJSON(stmts)
	}

	rows := make([][]string, 0, len(stmts))
	for _, s := range stmts {
		rows = append(rows, []string{
			filepath.Base(s.FilePath),
			cli.FormatPeriod(s.PeriodFrom, s.PeriodTo),
			strconv.Itoa(s.Transactions),
			strconv.Itoa(s.SkippedRecords),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    "Run " + match[0].ID,
		Headers:  []string{"Statement", "Period", "Transactions", "Skipped"},
		Rows:     rows,
		LeftCols: 2,
	}))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
