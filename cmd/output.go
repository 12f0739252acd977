package cmd

import (
	"encoding/json"
	"os"
	"time"

	"github.com/theirongolddev/stmtburn/internal/cli"
	"github.com/theirongolddev/stmtburn/internal/model"
	"github.com/theirongolddev/stmtburn/internal/pipeline"
)

// reportJSON is the --json shape of one analyzed statement.
type reportJSON struct {
	File           string               `json:"file"`
	PeriodFrom     string               `json:"periodFrom,omitempty"`
	PeriodTo       string               `json:"periodTo,omitempty"`
	New            *bool                `json:"new,omitempty"` // nil without a ledger
	Transactions   int                  `json:"transactions"`
	SkippedRecords int                  `json:"skippedRecords"`
	Summary        model.MonthlySummary `json:"summary"`
}

func toReportJSON(r pipeline.Report, tracked bool) reportJSON {
	out := reportJSON{
		File:           r.File.Path,
		Transactions:   len(r.Transactions),
		SkippedRecords: len(r.Statement.Skipped),
		Summary:        r.Summary,
	}
	if tracked {
		isNew := !r.Seen
		out.New = &isNew
	}
	if r.Statement.HasPeriod() {
		out.PeriodFrom = r.Statement.PeriodFrom.Format(time.DateOnly)
		out.PeriodTo = r.Statement.PeriodTo.Format(time.DateOnly)
	}
	return out
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func reportTitle(r pipeline.Report, tracked bool) string {
	title := r.File.Name
	if title == "" {
		title = r.File.Path
	}
	if r.Statement.HasPeriod() {
		title += "  " + cli.FormatPeriod(r.Statement.PeriodFrom, r.Statement.PeriodTo)
	}
	if tracked && !r.Seen {
		title += "  (new)"
	}
	return title
}
