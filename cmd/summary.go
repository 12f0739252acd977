package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/stmtburn/internal/cli"
	"github.com/theirongolddev/stmtburn/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [statement.txt | dir]...",
	Short: "Monthly summary per statement",
	Args:  cobra.ArbitraryArgs,
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	lr, err := loadData(cmd.Context(), args)
	if err != nil {
		return err
	}
	tracked := lr.RunID != ""

	if isJSON() {
		out := make([]reportJSON, 0, len(lr.Reports))
		for _, r := range lr.Reports {
			out = append(out, toReportJSON(r, tracked))
		}
		return writeJSON(out)
	}

	if lr.TotalFiles == 0 {
		printNoStatements()
		return nil
	}

	for _, r := range lr.Reports {
		renderSummary(r, tracked)
	}
	printLoadWarnings(lr)
	return nil
}

func renderSummary(r pipeline.Report, tracked bool) {
	s := r.Summary

	fmt.Println()
	fmt.Println(cli.RenderTitle(reportTitle(r, tracked)))
	fmt.Println()

	rows := [][]string{
		{"Expenses", cli.FormatMoney(s.TotalExpenses)},
		{"Income", cli.FormatMoney(s.TotalIncome)},
		{"---"},
		{"Food", cli.FormatMoney(s.FoodExpenses)},
		{"Restaurants", cli.FormatMoney(s.RestaurantExpenses)},
		{"Subscriptions", cli.FormatMoney(s.SubscriptionsExpenses)},
		{"---"},
		{"Transactions", strconv.Itoa(len(r.Transactions))},
	}
	if n := len(r.Statement.Skipped); n > 0 {
		rows = append(rows, []string{"Skipped records", strconv.Itoa(n)})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if len(s.SubscriptionsTop) > 0 {
		fmt.Println()
		fmt.Print(cli.RenderTable(subscriptionsTable(s.SubscriptionsTop)))
	}

	fmt.Println()
	fmt.Println(cli.RenderKeyValue("Net", cli.RenderAmount(s.Net())))
	fmt.Println("  " + s.Insight)
}
