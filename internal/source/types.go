package source

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/stmtburn/internal/model"
)

// Record failure kinds. A RecordError matches one of these with errors.Is.
var (
	ErrUnparseableRecord = errors.New("no amount marker in record")
	ErrMalformedDecimal  = errors.New("malformed decimal token")
	ErrMalformedDate     = errors.New("malformed date")
)

// RecordError describes one skipped record. It never aborts a statement.
type RecordError struct {
	Line int    // 1-based line number of the head line
	Head string // the head line as it appeared in the statement
	Kind error  // one of the Err* kinds above
	Err  error  // underlying cause, may be nil
}

func (e RecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %v: %v", e.Line, e.Kind, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Kind)
}

func (e RecordError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Statement is the parsed content of one statement document.
type Statement struct {
	// Period bounds from the "Obdobie od ... do ..." line; zero when absent.
	PeriodFrom time.Time
	PeriodTo   time.Time

	Transactions []model.Transaction // document order
	Skipped      []RecordError

	// Control totals: absolute sum of expenses and sum of income.
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

// HasPeriod reports whether the statement declared its period.
func (s Statement) HasPeriod() bool {
	return !s.PeriodFrom.IsZero() && !s.PeriodTo.IsZero()
}

// DiscoveredFile is a statement text file found on disk.
type DiscoveredFile struct {
	Path    string
	Name    string // base name without extension
	MtimeNs int64
	Size    int64
}

// ParseResult holds the output of parsing a single statement file.
type ParseResult struct {
	File      DiscoveredFile
	Statement Statement
	Err       error
}
