// Package source discovers and parses Tatra banka statement text.
package source

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/stmtburn/internal/model"
)

const dateLayout = "02.01.2006"

// dateTokenLen is len("dd.mm.yyyy").
const dateTokenLen = 10

// Counterparty field labels, lowercase.
var (
	merchantLabels = []string{"miesto platby"}
	receiverLabels = []string{"príjemca", "prijemca"}
	payerLabels    = []string{"platiteľ", "platitel"}
)

// Sign phrases, lowercase. Expense phrases are checked first.
var (
	expensePhrases = []string{"odoslaná platba", "odoslana platba", "výber z bankomatu", "vyber z bankomatu"}
	incomePhrases  = []string{"prijatá platba", "prijata platba", "visa direct", "vklad hotovosti"}
)

type parseState int

const (
	scanningForHead parseState = iota
	inBlock
)

type line struct {
	no   int
	text string
}

// Parser turns statement text into transactions.
// A Parser holds no per-document state and is safe for concurrent use.
type Parser struct {
	log zerolog.Logger
}

// NewParser returns a Parser that reports skipped records to log.
func NewParser(log zerolog.Logger) *Parser {
	return &Parser{log: log}
}

// Parse parses text without logging.
func Parse(text string) Statement {
	return NewParser(zerolog.Nop()).Parse(text)
}

// Parse reads the text of one statement.
//
// Records start at a head line beginning with a dd.mm.yyyy date. A head that
// ends with an amount is complete on its own; otherwise the amount comes from
// the first "Suma:" marker in the block of lines up to the next head. Records
// that cannot be resolved are reported in Statement.Skipped and never stop
// the scan.
func (p *Parser) Parse(text string) Statement {
	st := Statement{
		Transactions: []model.Transaction{},
		Debits:       decimal.Zero,
		Credits:      decimal.Zero,
	}

	lines := splitLines(text)

	state := scanningForHead
	var head line
	var block []line

	for i := 0; i < len(lines); i++ {
		ln := lines[i]
		if st.PeriodFrom.IsZero() {
			if from, to, ok := parsePeriod(ln.text); ok {
				st.PeriodFrom, st.PeriodTo = from, to
			}
		}

		isHead := isHeadLine(ln.text)

		switch state {
		case scanningForHead:
			if !isHead {
				continue
			}
			head, block = ln, nil
			state = inBlock

		case inBlock:
			if isHead {
				p.finishRecord(&st, head, block)
				head, block = ln, nil
				continue
			}
			block = append(block, ln)
		}
	}
	if state == inBlock {
		p.finishRecord(&st, head, block)
	}

	for _, tx := range st.Transactions {
		if tx.IsExpense() {
			st.Debits = st.Debits.Add(tx.Amount.Abs())
		} else if tx.IsIncome() {
			st.Credits = st.Credits.Add(tx.Amount)
		}
	}

	p.log.Info().
		Int("transactions", len(st.Transactions)).
		Int("skipped", len(st.Skipped)).
		Time("period_from", st.PeriodFrom).
		Time("period_to", st.PeriodTo).
		Str("debits", st.Debits.StringFixed(2)).
		Str("credits", st.Credits.StringFixed(2)).
		Msg("parsed statement")

	return st
}

// finishRecord resolves one head line and its block into a transaction,
// or records why it could not.
func (p *Parser) finishRecord(st *Statement, head line, block []line) {
	skip := func(kind, cause error) {
		re := RecordError{Line: head.no, Head: head.text, Kind: kind, Err: cause}
		st.Skipped = append(st.Skipped, re)
		p.log.Warn().
			Int("line", head.no).
			Str("head", head.text).
			Str("reason", kind.Error()).
			Msg("skipping record")
	}

	bookedAt, err := time.ParseInLocation(dateLayout, head.text[:dateTokenLen], time.UTC)
	if err != nil {
		skip(ErrMalformedDate, err)
		return
	}

	// A grouped head token such as "12.10.25" is not an amount by itself;
	// the block's Suma marker still decides the record.
	var amount decimal.Decimal
	if tok, neg, found, headMalformed := trailingAmount(head.text, dateTokenLen); found {
		v, err := parseAmount(tok)
		if err != nil {
			skip(ErrMalformedDecimal, err)
			return
		}
		amount = v
		if neg {
			amount = amount.Neg()
		}
	} else {
		tok, neg, ok, malformed := findSuma(block)
		switch {
		case malformed, !ok && headMalformed:
			skip(ErrMalformedDecimal, nil)
			return
		case !ok:
			skip(ErrUnparseableRecord, nil)
			return
		}
		v, err := parseAmount(tok)
		if err != nil {
			skip(ErrMalformedDecimal, err)
			return
		}
		amount = v
		if neg || expenseByContext(block) {
			amount = amount.Neg()
		} else if !incomeByContext(block) {
			p.log.Debug().Int("line", head.no).Str("head", head.text).Msg("ambiguous sign, booking as income")
		}
	}

	st.Transactions = append(st.Transactions, model.Transaction{
		BookedAt:     bookedAt,
		Amount:       amount,
		Currency:     model.Currency,
		Description:  head.text,
		Counterparty: resolveCounterparty(block, amount),
	})
}

// splitLines trims every line and drops blank ones, keeping 1-based line
// numbers. LF, CRLF and lone CR all end a line.
func splitLines(text string) []line {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	raw := strings.Split(text, "\n")
	out := make([]line, 0, len(raw))
	for i, r := range raw {
		t := strings.TrimSpace(r)
		if t == "" {
			continue
		}
		out = append(out, line{no: i + 1, text: t})
	}
	return out
}

// isHeadLine reports whether s starts with a dd.mm.yyyy token that is not
// followed by a word character.
func isHeadLine(s string) bool {
	if len(s) < dateTokenLen {
		return false
	}
	for i := 0; i < dateTokenLen; i++ {
		c := s[i]
		switch i {
		case 2, 5:
			if c != '.' {
				return false
			}
		default:
			if !isDigit(c) {
				return false
			}
		}
	}
	if len(s) == dateTokenLen {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[dateTokenLen:])
	return !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
}

// trailingAmount looks for "<digits>[.,]<2 digits>[-]" at the end of s,
// starting no earlier than minStart. malformed is set when the token is the
// tail of a grouped number such as "1.234,56".
func trailingAmount(s string, minStart int) (tok string, neg, found, malformed bool) {
	end := len(s)
	for end > 0 && isSpace(s[end-1]) {
		end--
	}
	if end > 0 && s[end-1] == '-' {
		neg = true
		end--
	}
	// two fraction digits and a separator
	if end-3 < minStart || !isDigit(s[end-1]) || !isDigit(s[end-2]) || !isSep(s[end-3]) {
		return "", false, false, false
	}
	start := end - 3
	for start > minStart && isDigit(s[start-1]) {
		start--
	}
	if start == end-3 {
		return "", false, false, false
	}
	if isGrouped(s, start) {
		return "", neg, false, true
	}
	return s[start:end], neg, true, false
}

// findSuma returns the first "suma[:] <amount>[-]" marker in the block.
func findSuma(block []line) (tok string, neg, ok, malformed bool) {
	for _, ln := range block {
		if tok, neg, ok, malformed := scanSuma(ln.text); ok || malformed {
			return tok, neg, ok, malformed
		}
	}
	return "", false, false, false
}

// scanSuma matches the marker case-insensitively at every "suma" occurrence
// in s until one is followed by an amount.
func scanSuma(s string) (tok string, neg, ok, malformed bool) {
	for i := 0; i+4 <= len(s); i++ {
		if !hasFoldPrefix(s[i:], "suma") {
			continue
		}
		j := i + 4
		for j < len(s) && isSpace(s[j]) {
			j++
		}
		if j < len(s) && s[j] == ':' {
			j++
		}
		for j < len(s) && isSpace(s[j]) {
			j++
		}
		start := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j == start || j+3 > len(s) || !isSep(s[j]) || !isDigit(s[j+1]) || !isDigit(s[j+2]) {
			continue
		}
		end := j + 3
		if end < len(s) && isDigit(s[end]) {
			// more digits after the fraction, e.g. "Suma: 1.234,56" or "10.965"
			return "", false, false, true
		}
		if end+1 < len(s) && isSep(s[end]) && isDigit(s[end+1]) {
			// grouped thousands, e.g. "Suma: 1.234.567,00"
			return "", false, false, true
		}
		return s[start:end], end < len(s) && s[end] == '-', true, false
	}
	return "", false, false, false
}

// isGrouped reports whether the digit run starting at start is preceded by a
// digit group separator, which would make the token only part of the number.
func isGrouped(s string, start int) bool {
	return start >= 2 && isSep(s[start-1]) && isDigit(s[start-2])
}

func parseAmount(tok string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.Replace(tok, ",", ".", 1))
}

func expenseByContext(block []line) bool {
	return blockContains(block, expensePhrases)
}

func incomeByContext(block []line) bool {
	return blockContains(block, incomePhrases)
}

func blockContains(block []line, phrases []string) bool {
	texts := make([]string, len(block))
	for i, ln := range block {
		texts[i] = ln.text
	}
	lower := strings.ToLower(strings.Join(texts, " "))
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// resolveCounterparty prefers the merchant line, then the receiver for
// expenses or the payer for income. A later line of the same kind wins.
func resolveCounterparty(block []line, amount decimal.Decimal) string {
	var merchant, receiver, payer string
	for _, ln := range block {
		lower := strings.ToLower(ln.text)
		switch {
		case hasAnyPrefix(lower, merchantLabels):
			if v := fieldValue(ln.text, lower, merchantLabels); v != "" {
				merchant = v
			}
		case hasAnyPrefix(lower, receiverLabels):
			if v := fieldValue(ln.text, lower, receiverLabels); v != "" {
				receiver = v
			}
		case hasAnyPrefix(lower, payerLabels):
			if v := fieldValue(ln.text, lower, payerLabels); v != "" {
				payer = v
			}
		}
	}

	switch {
	case merchant != "":
		return merchant
	case amount.IsNegative():
		return receiver
	case amount.IsPositive():
		return payer
	}
	return ""
}

// fieldValue returns the text after the label's colon, or after the label
// itself when the line has no colon.
func fieldValue(text, lower string, labels []string) string {
	if idx := strings.IndexByte(text, ':'); idx >= 0 {
		return strings.TrimSpace(text[idx+1:])
	}
	for _, l := range labels {
		if strings.HasPrefix(lower, l) && len(l) <= len(text) {
			return strings.TrimSpace(text[len(l):])
		}
	}
	return ""
}

// parsePeriod recognizes "Obdobie od dd.mm.yyyy do dd.mm.yyyy" anywhere in s.
func parsePeriod(s string) (from, to time.Time, ok bool) {
	idx := strings.Index(s, "Obdobie")
	if idx < 0 {
		return time.Time{}, time.Time{}, false
	}
	f := strings.Fields(s[idx:])
	if len(f) < 5 || f[0] != "Obdobie" || f[1] != "od" || f[3] != "do" {
		return time.Time{}, time.Time{}, false
	}
	from, err := time.ParseInLocation(dateLayout, f[2], time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	to, err = time.ParseInLocation(dateLayout, f[4], time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// hasFoldPrefix is an ASCII-only case-insensitive HasPrefix.
func hasFoldPrefix(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if s[i]|0x20 != prefix[i] {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isSep(c byte) bool   { return c == '.' || c == ',' }

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
