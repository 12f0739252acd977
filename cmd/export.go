package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/stmtburn/internal/export"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export [statement.txt | dir]...",
	Short: "Write summaries, categories and transactions to an .xlsx workbook",
	Long: "Write one workbook covering every loaded statement. Use -o - to\n" +
		"write the workbook to stdout.",
	Args: cobra.ArbitraryArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "stmtburn.xlsx", "Output file, or - for stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if flagExportOut != "-" && !strings.EqualFold(filepath.Ext(flagExportOut), ".xlsx") {
		return fmt.Errorf("output %q: want an .xlsx file", flagExportOut)
	}

	lr, err := loadData(cmd.Context(), args)
	if err != nil {
		return err
	}
	if lr.TotalFiles == 0 {
		printNoStatements()
		return nil
	}

	if flagExportOut == "-" {
		return export.Write(os.Stdout, lr.Reports)
	}
	if err := export.SaveAs(flagExportOut, lr.Reports); err != nil {
		return err
	}
	appLog.Info().Str("file", flagExportOut).Int("statements", len(lr.Reports)).Msg("workbook written")
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %d statements to %s\n", len(lr.Reports), flagExportOut)
	}
	printLoadWarnings(lr)
	return nil
}
