// =============================================================================
// Fee Ledger Reconciler - Grid Abstraction
// =============================================================================
//
// The structure analyzer and mutation engine only need a small surface of
// any spreadsheet backend: read/write a cell, know the used extent, insert
// columns, and manage rectangular merge regions plus two kinds of visual
// marking. That surface is the Grid interface; the excelize adapter
// implements it over the real workbook and MemoryGrid implements it over a
// plain map for tests.
//
// Rows and columns are 1-based throughout, matching spreadsheet convention.
//
// =============================================================================

package ledger

import "fmt"

// =============================================================================
// MERGE REGIONS
// =============================================================================

// MergeRegion is a rectangular merged-cell region.
type MergeRegion struct {
	StartRow, StartCol int
	EndRow, EndCol     int
}

// Cols returns the column span of the region.
func (r MergeRegion) Cols() int { return r.EndCol - r.StartCol + 1 }

// IntersectsRow reports whether the region covers the given row.
func (r MergeRegion) IntersectsRow(row int) bool {
	return r.StartRow <= row && row <= r.EndRow
}

// =============================================================================
// FILLS
// =============================================================================

// Fill identifies the visual marking applied to a written cell.
type Fill int

const (
	// FillNone leaves the cell unmarked.
	FillNone Fill = iota

	// FillUpdated marks a date/amount cell written into an existing row.
	FillUpdated

	// FillNewParent marks the key cell of a newly created parent row.
	FillNewParent
)

// =============================================================================
// GRID INTERFACE
// =============================================================================

// Grid is the minimal spreadsheet surface the ledger engines run against.
type Grid interface {
	// Value returns the cell text at (row, col); out-of-range cells read as
	// empty.
	Value(row, col int) string

	// SetValue writes a value at (row, col), extending the grid as needed.
	SetValue(row, col int, value interface{}) error

	// MaxRow returns the last used row, 0 for an empty grid.
	MaxRow() int

	// MaxCol returns the last used column, 0 for an empty grid.
	MaxCol() int

	// InsertCols inserts count empty columns at col, shifting col and
	// everything after it right.
	InsertCols(col, count int) error

	// Merge declares a merged region.
	Merge(region MergeRegion) error

	// MergeRegions lists the current merged regions.
	MergeRegions() ([]MergeRegion, error)

	// StyleMonthHeader applies the month-header look (bold, centered) to a
	// region.
	StyleMonthHeader(region MergeRegion) error

	// Highlight applies a fill marking to a single cell.
	Highlight(row, col int, fill Fill) error
}

// =============================================================================
// IN-MEMORY GRID
// =============================================================================

// cellRef addresses one cell in the in-memory grid.
type cellRef struct{ row, col int }

// MemoryGrid is a map-backed Grid used by tests and dry runs. It records
// merges, header styles and fills so assertions can inspect them.
type MemoryGrid struct {
	cells  map[cellRef]string
	merges []MergeRegion
	fills  map[cellRef]Fill
	styled []MergeRegion
	maxRow int
	maxCol int
}

// NewMemoryGrid creates an empty in-memory grid.
func NewMemoryGrid() *MemoryGrid {
	return &MemoryGrid{
		cells: make(map[cellRef]string),
		fills: make(map[cellRef]Fill),
	}
}

// NewMemoryGridFromRows builds a grid from row-major data, row 1 first.
func NewMemoryGridFromRows(rows [][]string) *MemoryGrid {
	g := NewMemoryGrid()
	for ri, row := range rows {
		for ci, v := range row {
			if v != "" {
				_ = g.SetValue(ri+1, ci+1, v)
			}
		}
	}
	return g
}

// NewPlanGrid snapshots another grid's content and merges into a MemoryGrid.
// Dry runs mutate the snapshot, leaving the source untouched.
func NewPlanGrid(src Grid) *MemoryGrid {
	g := NewMemoryGrid()
	for r := 1; r <= src.MaxRow(); r++ {
		for c := 1; c <= src.MaxCol(); c++ {
			if v := src.Value(r, c); v != "" {
				_ = g.SetValue(r, c, v)
			}
		}
	}
	if regions, err := src.MergeRegions(); err == nil {
		g.merges = append(g.merges, regions...)
	}
	return g
}

// Value implements Grid.
func (g *MemoryGrid) Value(row, col int) string {
	return g.cells[cellRef{row, col}]
}

// SetValue implements Grid. Values are stored in their string form, which is
// all the analyzer and tests ever read back.
func (g *MemoryGrid) SetValue(row, col int, value interface{}) error {
	g.cells[cellRef{row, col}] = stringify(value)
	if row > g.maxRow {
		g.maxRow = row
	}
	if col > g.maxCol {
		g.maxCol = col
	}
	return nil
}

// MaxRow implements Grid.
func (g *MemoryGrid) MaxRow() int { return g.maxRow }

// MaxCol implements Grid.
func (g *MemoryGrid) MaxCol() int { return g.maxCol }

// InsertCols implements Grid: cells, fills and merge regions at or after col
// shift right by count.
func (g *MemoryGrid) InsertCols(col, count int) error {
	shifted := make(map[cellRef]string, len(g.cells))
	for ref, v := range g.cells {
		if ref.col >= col {
			ref.col += count
		}
		shifted[ref] = v
	}
	g.cells = shifted

	shiftedFills := make(map[cellRef]Fill, len(g.fills))
	for ref, f := range g.fills {
		if ref.col >= col {
			ref.col += count
		}
		shiftedFills[ref] = f
	}
	g.fills = shiftedFills

	for i := range g.merges {
		if g.merges[i].StartCol >= col {
			g.merges[i].StartCol += count
			g.merges[i].EndCol += count
		}
	}
	for i := range g.styled {
		if g.styled[i].StartCol >= col {
			g.styled[i].StartCol += count
			g.styled[i].EndCol += count
		}
	}

	if g.maxCol >= col {
		g.maxCol += count
	}
	return nil
}

// Merge implements Grid.
func (g *MemoryGrid) Merge(region MergeRegion) error {
	g.merges = append(g.merges, region)
	return nil
}

// MergeRegions implements Grid.
func (g *MemoryGrid) MergeRegions() ([]MergeRegion, error) {
	out := make([]MergeRegion, len(g.merges))
	copy(out, g.merges)
	return out, nil
}

// StyleMonthHeader implements Grid by recording the styled region.
func (g *MemoryGrid) StyleMonthHeader(region MergeRegion) error {
	g.styled = append(g.styled, region)
	return nil
}

// Highlight implements Grid by recording the fill.
func (g *MemoryGrid) Highlight(row, col int, fill Fill) error {
	g.fills[cellRef{row, col}] = fill
	return nil
}

// FillAt reports the fill recorded for a cell. Test helper.
func (g *MemoryGrid) FillAt(row, col int) Fill {
	return g.fills[cellRef{row, col}]
}

// stringify renders a written value the way a spreadsheet displays it.
func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
