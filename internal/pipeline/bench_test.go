package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/stmtburn/internal/source"
	"github.com/theirongolddev/stmtburn/internal/store"
)

// syntheticStatement builds a year of card payments, rent and salary.
func syntheticStatement(n int) string {
	var b strings.Builder
	b.WriteString("Obdobie od 01.01.2025 do 31.12.2025\n\n")
	merchants := []string{"LIDL", "NETFLIX.COM", "BOLT.EU", "DOXXBET", "O2 Slovakia"}
	for i := 0; i < n; i++ {
		d := 1 + i%28
		m := 1 + (i/28)%12
		fmt.Fprintf(&b, "%02d.%02d.2025 AP nákup POS %d.%02d-\n", d, m, 1+i%90, i%100)
		fmt.Fprintf(&b, "Miesto platby: %s\n\n", merchants[i%len(merchants)])
		if i%40 == 0 {
			fmt.Fprintf(&b, "%02d.%02d.2025 Platba 0200/000000-4862337457\nPrijatá platba\nPlatiteľ: ACME mzda\nSuma: 2100,00 EUR\n\n", d, m)
		}
	}
	return b.String()
}

func benchFiles(b *testing.B, count, records int) []source.DiscoveredFile {
	b.Helper()
	dir := b.TempDir()
	text := syntheticStatement(records)
	for i := 0; i < count; i++ {
		path := filepath.Join(dir, fmt.Sprintf("vypis_%03d.txt", i))
		if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
			b.Fatal(err)
		}
	}
	files, err := source.ScanDir(dir)
	if err != nil {
		b.Fatal(err)
	}
	return files
}

func BenchmarkParse(b *testing.B) {
	text := syntheticStatement(2000)
	p := source.NewParser(zerolog.Nop())
	b.SetBytes(int64(len(text)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		st := p.Parse(text)
		if len(st.Transactions) == 0 {
			b.Fatal("no transactions parsed")
		}
	}
}

func BenchmarkProcessText(b *testing.B) {
	text := syntheticStatement(2000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r := ProcessText(text)
		_ = r
	}
}

func BenchmarkLoad(b *testing.B) {
	files := benchFiles(b, 24, 300)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		res, err := Load(context.Background(), files, Options{})
		if err != nil {
			b.Fatal(err)
		}
		_ = res
	}
}

func BenchmarkLoadWithLedger(b *testing.B) {
	files := benchFiles(b, 24, 300)
	ledger, err := store.Open(filepath.Join(b.TempDir(), "ledger.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer func() { _ = ledger.Close() }()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := LoadWithLedger(context.Background(), files, ledger, Options{})
		if err != nil {
			b.Fatal(err)
		}
		if res.LedgerErr != nil {
			b.Fatal(res.LedgerErr)
		}
	}
}
