package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/stmtburn/internal/cli"
	"github.com/theirongolddev/stmtburn/internal/model"
)

var (
	flagExpensesOnly bool
	flagCategory     string
)

var transactionsCmd = &cobra.Command{
	Use:     "transactions [statement.txt | dir]...",
	Aliases: []string{"tx"},
	Short:   "Parsed transactions with category and recurring flags",
	Args:    cobra.ArbitraryArgs,
	RunE:    runTransactions,
}

func init() {
	transactionsCmd.Flags().BoolVar(&flagExpensesOnly, "expenses", false, "Only expenses")
	transactionsCmd.Flags().StringVar(&flagCategory, "category", "", "Only this category code (e.g. FOOD_GROCERIES)")
	rootCmd.AddCommand(transactionsCmd)
}

func runTransactions(cmd *cobra.Command, args []string) error {
	var only *model.Category
	if flagCategory != "" {
		c, ok := model.LookupCategory(flagCategory)
		if !ok {
			return fmt.Errorf("unknown category %q (see `stmtburn categories --help`)", flagCategory)
		}
		only = &c
	}

	lr, err := loadData(cmd.Context(), args)
	if err != nil {
		return err
	}

	keep := func(tx model.Transaction) bool {
		if flagExpensesOnly && !tx.IsExpense() {
			return false
		}
		if only != nil && tx.CategoryCode != only.Code {
			return false
		}
		return true
	}

	if isJSON() {
		out := make(map[string][]model.Transaction, len(lr.Reports))
		for _, r := range lr.Reports {
			txs := make([]model.Transaction, 0, len(r.Transactions))
			for _, tx := range r.Transactions {
				if keep(tx) {
					txs = append(txs, tx)
				}
			}
			out[r.File.Path] = txs
		}
		return writeJSON(out)
	}

	if lr.TotalFiles == 0 {
		printNoStatements()
		return nil
	}

	tracked := lr.RunID != ""
	for _, r := range lr.Reports {
		var rows [][]string
		for _, tx := range r.Transactions {
			if !keep(tx) {
				continue
			}
			rows = append(rows, []string{
				cli.FormatDate(tx.BookedAt),
				cli.Truncate(tx.Description, 36),
				cli.Truncate(tx.Counterparty, 24),
				cli.FormatMoney(tx.Amount),
				tx.CategoryCode,
				flags(tx),
			})
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle(reportTitle(r, tracked)))
		fmt.Println()
		if len(rows) == 0 {
			fmt.Println("  No matching transactions.")
			continue
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers:  []string{"Date", "Description", "Counterparty", "Amount", "Category", "Flags"},
			LeftCols: 3,
			Rows:     rows,
		}))
	}
	printLoadWarnings(lr)
	return nil
}

// flags renders S for subscription and R for regular.
func flags(tx model.Transaction) string {
	out := ""
	if tx.Subscription {
		out += "S"
	}
	if tx.Regular {
		out += "R"
	}
	return out
}
