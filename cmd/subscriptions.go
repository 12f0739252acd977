package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/stmtburn/internal/cli"
	"github.com/theirongolddev/stmtburn/internal/model"
	"github.com/theirongolddev/stmtburn/internal/pipeline"
)

var flagAllCharges bool

var subscriptionsCmd = &cobra.Command{
	Use:     "subscriptions [statement.txt | dir]...",
	Aliases: []string{"subs"},
	Short:   "Recurring charges detected in each statement",
	Args:    cobra.ArbitraryArgs,
	RunE:    runSubscriptions,
}

func init() {
	subscriptionsCmd.Flags().BoolVar(&flagAllCharges, "all", false, "List every recurring charge, not just the top merchants")
	rootCmd.AddCommand(subscriptionsCmd)
}

func runSubscriptions(cmd *cobra.Command, args []string) error {
	lr, err := loadData(cmd.Context(), args)
	if err != nil {
		return err
	}

	if isJSON() {
		out := make(map[string][]model.SubscriptionSummary, len(lr.Reports))
		for _, r := range lr.Reports {
			out[r.File.Path] = r.Summary.SubscriptionsTop
		}
		return writeJSON(out)
	}

	if lr.TotalFiles == 0 {
		printNoStatements()
		return nil
	}

	tracked := lr.RunID != ""
	for _, r := range lr.Reports {
		fmt.Println()
		fmt.Println(cli.RenderTitle(reportTitle(r, tracked)))
		fmt.Println()

		if len(r.Summary.SubscriptionsTop) == 0 {
			fmt.Println("  No recurring charges detected.")
			continue
		}
		fmt.Print(cli.RenderTable(subscriptionsTable(r.Summary.SubscriptionsTop)))

		if flagAllCharges {
			fmt.Println()
			fmt.Print(cli.RenderTable(chargesTable(r)))
		}
	}
	printLoadWarnings(lr)
	return nil
}

func subscriptionsTable(subs []model.SubscriptionSummary) cli.Table {
	rows := make([][]string, 0, len(subs))
	for _, s := range subs {
		rows = append(rows, []string{
			cli.Truncate(s.Merchant, 32),
			cli.FormatMoney(s.AvgAmount),
			strconv.Itoa(s.Occurrences),
		})
	}
	return cli.Table{
		Title:   "Top subscriptions",
		Headers: []string{"Merchant", "Average", "Charges"},
		Rows:    rows,
	}
}

func chargesTable(r pipeline.Report) cli.Table {
	var rows [][]string
	for _, tx := range r.Transactions {
		if !tx.Subscription {
			continue
		}
		merchant := tx.Counterparty
		if merchant == "" {
			merchant = pipeline.UnknownMerchant
		}
		rows = append(rows, []string{
			cli.FormatDate(tx.BookedAt),
			cli.Truncate(merchant, 32),
			cli.FormatMoney(tx.Amount),
		})
	}
	return cli.Table{
		Title:    "Recurring charges",
		Headers:  []string{"Date", "Merchant", "Amount"},
		LeftCols: 2,
		Rows:    rows,
	}
}
