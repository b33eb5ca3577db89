// =============================================================================
// Fee Ledger Reconciler - Excelize Grid Adapter
// =============================================================================
//
// Implements the Grid interface over an excelize workbook sheet. Style IDs
// for the month header and the two highlight fills are created lazily and
// cached per adapter, since excelize style creation is not free.
//
// =============================================================================

package ledger

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Highlight fill colors: yellow for updated cells, green for newly created
// parent rows.
const (
	fillUpdatedColor   = "FFFF00"
	fillNewParentColor = "C6EFCE"
)

// ExcelGrid adapts one worksheet of an excelize workbook to the Grid
// interface.
type ExcelGrid struct {
	f     *excelize.File
	sheet string

	headerStyle    int
	updatedStyle   int
	newParentStyle int
}

// NewExcelGrid wraps a worksheet as a Grid.
func NewExcelGrid(f *excelize.File, sheet string) *ExcelGrid {
	return &ExcelGrid{f: f, sheet: sheet, headerStyle: -1, updatedStyle: -1, newParentStyle: -1}
}

// Value implements Grid. Read errors surface as empty cells; the analyzer
// treats unreadable and blank alike.
func (g *ExcelGrid) Value(row, col int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	v, err := g.f.GetCellValue(g.sheet, name)
	if err != nil {
		return ""
	}
	return v
}

// SetValue implements Grid.
func (g *ExcelGrid) SetValue(row, col int, value interface{}) error {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid cell (%d,%d): %w", row, col, err)
	}
	if err := g.f.SetCellValue(g.sheet, name, value); err != nil {
		return fmt.Errorf("failed to write cell %s: %w", name, err)
	}
	return nil
}

// MaxRow implements Grid.
func (g *ExcelGrid) MaxRow() int {
	rows, err := g.f.GetRows(g.sheet)
	if err != nil {
		return 0
	}
	return len(rows)
}

// MaxCol implements Grid.
func (g *ExcelGrid) MaxCol() int {
	cols, err := g.f.GetCols(g.sheet)
	if err != nil {
		return 0
	}
	return len(cols)
}

// InsertCols implements Grid.
func (g *ExcelGrid) InsertCols(col, count int) error {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return fmt.Errorf("invalid column %d: %w", col, err)
	}
	if err := g.f.InsertCols(g.sheet, name, count); err != nil {
		return fmt.Errorf("failed to insert %d column(s) at %s: %w", count, name, err)
	}
	return nil
}

// Merge implements Grid.
func (g *ExcelGrid) Merge(region MergeRegion) error {
	start, err := excelize.CoordinatesToCellName(region.StartCol, region.StartRow)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(region.EndCol, region.EndRow)
	if err != nil {
		return err
	}
	if err := g.f.MergeCell(g.sheet, start, end); err != nil {
		return fmt.Errorf("failed to merge %s:%s: %w", start, end, err)
	}
	return nil
}

// MergeRegions implements Grid.
func (g *ExcelGrid) MergeRegions() ([]MergeRegion, error) {
	cells, err := g.f.GetMergeCells(g.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read merged cells: %w", err)
	}

	regions := make([]MergeRegion, 0, len(cells))
	for _, mc := range cells {
		sc, sr, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			continue
		}
		ec, er, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			continue
		}
		regions = append(regions, MergeRegion{StartRow: sr, StartCol: sc, EndRow: er, EndCol: ec})
	}
	return regions, nil
}

// StyleMonthHeader implements Grid: bold, horizontally and vertically
// centered.
func (g *ExcelGrid) StyleMonthHeader(region MergeRegion) error {
	if g.headerStyle < 0 {
		id, err := g.f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		})
		if err != nil {
			return fmt.Errorf("failed to create header style: %w", err)
		}
		g.headerStyle = id
	}
	return g.setStyle(region, g.headerStyle)
}

// Highlight implements Grid.
func (g *ExcelGrid) Highlight(row, col int, fill Fill) error {
	var id int
	var err error
	switch fill {
	case FillUpdated:
		if g.updatedStyle < 0 {
			g.updatedStyle, err = g.fillStyle(fillUpdatedColor)
		}
		id = g.updatedStyle
	case FillNewParent:
		if g.newParentStyle < 0 {
			g.newParentStyle, err = g.fillStyle(fillNewParentColor)
		}
		id = g.newParentStyle
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create fill style: %w", err)
	}
	return g.setStyle(MergeRegion{StartRow: row, StartCol: col, EndRow: row, EndCol: col}, id)
}

// fillStyle creates a solid pattern fill style.
func (g *ExcelGrid) fillStyle(color string) (int, error) {
	return g.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
	})
}

// setStyle applies a style ID across a region.
func (g *ExcelGrid) setStyle(region MergeRegion, styleID int) error {
	start, err := excelize.CoordinatesToCellName(region.StartCol, region.StartRow)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(region.EndCol, region.EndRow)
	if err != nil {
		return err
	}
	if err := g.f.SetCellStyle(g.sheet, start, end, styleID); err != nil {
		return fmt.Errorf("failed to style %s:%s: %w", start, end, err)
	}
	return nil
}
