package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/theirongolddev/stmtburn/internal/classify"
	"github.com/theirongolddev/stmtburn/internal/model"
	"github.com/theirongolddev/stmtburn/internal/source"
)

// previewCount is how many transactions are logged at debug level when an
// analysis starts.
const previewCount = 5

// Report is the outcome of processing one statement.
type Report struct {
	File         source.DiscoveredFile
	Statement    source.Statement    // as parsed, before classification
	Transactions []model.Transaction // classified and flagged
	Summary      model.MonthlySummary

	// Seen is set when the run ledger already knew this exact file.
	Seen bool
}

// Analyzer runs classification, subscription detection and aggregation.
// It is safe for concurrent use.
type Analyzer struct {
	classifier *classify.Classifier
	log        zerolog.Logger
}

// NewAnalyzer returns an Analyzer. A nil classifier means classify.Default().
func NewAnalyzer(c *classify.Classifier, log zerolog.Logger) *Analyzer {
	if c == nil {
		c = classify.Default()
	}
	return &Analyzer{classifier: c, log: log}
}

// Analyze classifies txs, flags subscriptions and summarizes the result.
// txs is not modified.
func (a *Analyzer) Analyze(txs []model.Transaction) ([]model.Transaction, model.MonthlySummary) {
	a.log.Debug().Int("transactions", len(txs)).Msg("starting analysis")
	for i, tx := range txs {
		if i == previewCount {
			break
		}
		a.log.Debug().
			Time("booked_at", tx.BookedAt).
			Str("amount", tx.Amount.StringFixed(2)).
			Str("currency", tx.Currency).
			Str("counterparty", tx.Counterparty).
			Str("description", tx.Description).
			Msg("transaction")
	}

	flagged := DetectSubscriptions(a.classifier.Annotate(txs))
	summary := Summarize(flagged)

	a.log.Debug().
		Str("total_expenses", summary.TotalExpenses.StringFixed(2)).
		Str("total_income", summary.TotalIncome.StringFixed(2)).
		Int("categories", len(summary.Categories)).
		Msg("analysis done")

	return flagged, summary
}

// Report analyzes an already parsed statement.
func (a *Analyzer) Report(df source.DiscoveredFile, st source.Statement) Report {
	txs, summary := a.Analyze(st.Transactions)
	return Report{
		File:         df,
		Statement:    st,
		Transactions: txs,
		Summary:      summary,
	}
}

// ProcessText runs the whole chain on the text of one statement with the
// built-in rules and no logging.
func ProcessText(text string) Report {
	a := NewAnalyzer(nil, zerolog.Nop())
	return a.Report(source.DiscoveredFile{}, source.Parse(text))
}
