package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/stmtburn/internal/cli"
	"github.com/theirongolddev/stmtburn/internal/model"
)

var flagBars bool

var categoriesCmd = &cobra.Command{
	Use:   "categories [statement.txt | dir]...",
	Short: "Expense breakdown by category",
	Args:  cobra.ArbitraryArgs,
	RunE:  runCategories,
}

func init() {
	categoriesCmd.Flags().BoolVar(&flagBars, "bars", false, "Draw a bar chart below the table")
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	lr, err := loadData(cmd.Context(), args)
	if err != nil {
		return err
	}

	if isJSON() {
		out := make(map[string][]model.CategorySummary, len(lr.Reports))
		for _, r := range lr.Reports {
			out[r.File.Path] = r.Summary.Categories
		}
		return writeJSON(out)
	}

	if lr.TotalFiles == 0 {
		printNoStatements()
		return nil
	}

	tracked := lr.RunID != ""
	for _, r := range lr.Reports {
		cats := r.Summary.Categories

		fmt.Println()
		fmt.Println(cli.RenderTitle(reportTitle(r, tracked)))
		fmt.Println()

		if len(cats) == 0 {
			fmt.Println("  No expenses in this statement.")
			continue
		}

		rows := make([][]string, 0, len(cats)+2)
		for _, c := range cats {
			rows = append(rows, []string{c.Name, c.Code, cli.FormatMoney(c.Amount), cli.FormatPercent(c.Percentage)})
		}
		rows = append(rows, []string{"---"})
		rows = append(rows, []string{"Total", "", cli.FormatMoney(r.Summary.TotalExpenses), ""})

		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Category", "Code", "Amount", "Share"},
			Rows:    rows,
		}))

		if flagBars {
			fmt.Println()
			top := cats[0].Amount
			for _, c := range cats {
				fmt.Println(cli.RenderHorizontalBar(cli.Truncate(c.Name, 22), c.Amount, top, 30))
			}
		}
	}
	printLoadWarnings(lr)
	return nil
}
