package ledger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeFixtureWorkbook creates a small ledger file: header row with a merged
// JUNE pair, two parent rows with children.
func writeFixtureWorkbook(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	cells := map[string]interface{}{
		"A1": "PARENT", "C1": "JUNE",
		"A2": "John Tan", "B2": "Alice Tan",
		"A3": "Mary Lim", "B3": "Ben Lim",
	}
	for cell, v := range cells {
		require.NoError(t, f.SetCellValue(sheet, cell, v))
	}
	require.NoError(t, f.MergeCell(sheet, "C1", "D1"))

	path := filepath.Join(dir, "ledger.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestOpenAndRoster(t *testing.T) {
	path := writeFixtureWorkbook(t, t.TempDir())

	wb, err := Open(path, "")
	require.NoError(t, err)
	defer wb.Close()

	parents, children, err := wb.Roster()
	require.NoError(t, err)
	assert.Equal(t, []string{"John Tan", "Mary Lim"}, parents)
	assert.Equal(t, []string{"Alice Tan", "Ben Lim"}, children)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.xlsx"), "")
	require.Error(t, err)

	var accessErr *AccessError
	require.ErrorAs(t, err, &accessErr)
	assert.Equal(t, "file not found", accessErr.Reason)
	assert.NotEmpty(t, accessErr.Hint)
}

func TestOpenUnknownSheet(t *testing.T) {
	path := writeFixtureWorkbook(t, t.TempDir())

	_, err := Open(path, "NoSuchSheet")
	require.Error(t, err)

	var accessErr *AccessError
	require.ErrorAs(t, err, &accessErr)
	assert.Contains(t, accessErr.Reason, "NoSuchSheet")
}

func TestExcelGridRoundTrip(t *testing.T) {
	path := writeFixtureWorkbook(t, t.TempDir())

	wb, err := Open(path, "")
	require.NoError(t, err)
	defer wb.Close()
	g := wb.Grid()

	assert.Equal(t, "PARENT", g.Value(1, 1))
	assert.Equal(t, "JUNE", g.Value(1, 3))

	regions, err := g.MergeRegions()
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, MergeRegion{StartRow: 1, StartCol: 3, EndRow: 1, EndCol: 4}, regions[0])

	colmap, err := Analyze(g)
	require.NoError(t, err)
	assert.Equal(t, ColumnSpan{DateCol: 3, AmountCol: 4}, colmap["JUNE"])
}

func TestExcelGridInsertCols(t *testing.T) {
	path := writeFixtureWorkbook(t, t.TempDir())

	wb, err := Open(path, "")
	require.NoError(t, err)
	defer wb.Close()
	g := wb.Grid()

	require.NoError(t, g.InsertCols(3, 2))
	require.NoError(t, g.SetValue(1, 3, "SEPTEMBER"))
	require.NoError(t, g.Merge(MergeRegion{StartRow: 1, StartCol: 3, EndRow: 1, EndCol: 4}))

	// The JUNE block shifted right with its merge.
	assert.Equal(t, "JUNE", g.Value(1, 5))

	colmap, err := Analyze(g)
	require.NoError(t, err)
	assert.Equal(t, ColumnSpan{DateCol: 3, AmountCol: 4}, colmap["SEPTEMBER"])
	assert.Equal(t, ColumnSpan{DateCol: 5, AmountCol: 6}, colmap["JUNE"])
}

func TestBackupCreatesSiblingCopy(t *testing.T) {
	dir := t.TempDir()
	path := writeFixtureWorkbook(t, dir)

	wb, err := Open(path, "")
	require.NoError(t, err)
	defer wb.Close()

	backupPath, err := wb.Backup()
	require.NoError(t, err)
	assert.Contains(t, backupPath, ".backup_")

	// The backup is a readable workbook with the same content.
	copied, err := excelize.OpenFile(backupPath)
	require.NoError(t, err)
	defer copied.Close()
	v, err := copied.GetCellValue(copied.GetSheetName(0), "A2")
	require.NoError(t, err)
	assert.Equal(t, "John Tan", v)
}

func TestSaveRoundTrip(t *testing.T) {
	path := writeFixtureWorkbook(t, t.TempDir())

	wb, err := Open(path, "")
	require.NoError(t, err)
	require.NoError(t, wb.Grid().SetValue(2, 3, "01/06/2024"))
	require.NoError(t, wb.Save())
	require.NoError(t, wb.Close())

	reopened, err := OpenReadOnly(path, "")
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, "01/06/2024", reopened.Grid().Value(2, 3))
}
