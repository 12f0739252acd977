package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/stmtburn/internal/pipeline"
	"github.com/theirongolddev/stmtburn/internal/source"
)

const statement = `Obdobie od 01.10.2025 do 31.10.2025

01.10.2025 AP nákup POS 10.96-
Miesto platby: LIDL DAKUJEME ZA NAKUP

14.10.2025 Platba 0200/000000-4862337457
Prijatá platba
Platiteľ: ACME s.r.o. mzda
Suma: 2100,00 EUR

20.10.2025 Platba bez sumy
Nejaky popis
`

func report(name string) pipeline.Report {
	r := pipeline.ProcessText(statement)
	r.File = source.DiscoveredFile{Path: "/tmp/" + name, Name: name}
	return r
}

func TestWrite_Sheets(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []pipeline.Report{report("oktober.txt"), report("november.txt")}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetCategories, SheetSubscriptions, SheetTransactions}, f.GetSheetList())

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, "Statement", summary[0][0])
	assert.Equal(t, "oktober.txt", summary[1][0])
	assert.Equal(t, "2025-10-01", summary[1][1])
	assert.Equal(t, "2025-10-31", summary[1][2])
	assert.Equal(t, "2", summary[1][9])
	assert.Equal(t, "1", summary[1][10])
	assert.Equal(t, "november.txt", summary[2][0])

	txs, err := f.GetRows(SheetTransactions)
	require.NoError(t, err)
	require.Len(t, txs, 5)
	assert.Equal(t, "2025-10-01", txs[1][1])
	assert.Equal(t, "-10.96", txs[1][2])
	assert.Equal(t, "LIDL DAKUJEME ZA NAKUP", txs[1][4])
	assert.Equal(t, "FOOD_GROCERIES", txs[1][6])

	cats, err := f.GetRows(SheetCategories)
	require.NoError(t, err)
	require.Len(t, cats, 3, "one expense category per statement")
	assert.Equal(t, "FOOD_GROCERIES", cats[1][1])

	subs, err := f.GetRows(SheetSubscriptions)
	require.NoError(t, err)
	assert.Len(t, subs, 1, "header only")
}

func TestSaveAs_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, SaveAs(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(summaryHeader))
}
