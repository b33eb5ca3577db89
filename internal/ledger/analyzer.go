// =============================================================================
// Fee Ledger Reconciler - Ledger Structure Analyzer
// =============================================================================
//
// Derives the month column map from a ledger's header row. Month headers
// come in two shapes: a merged region spanning exactly the (date, amount)
// column pair, or a plain header cell whose neighbour holds the amounts.
// Merged regions are scanned first; plain cells fill in months the merge
// scan did not claim. Column 1 is the parent key column and is never a
// month header.
//
// The map is rebuilt by full re-scan whenever the header changes; no
// incremental updates are trusted across insertions.
//
// =============================================================================

package ledger

import (
	"sort"
	"strings"

	"github.com/feeledger/reconciler/internal/types"
)

// =============================================================================
// COLUMN MAP
// =============================================================================

// ColumnSpan is the (date, amount) column pair of one month. The two columns
// are always contiguous with the date on the left.
type ColumnSpan struct {
	DateCol   int
	AmountCol int
}

// ColumnMap maps full upper-case month names to their column spans.
type ColumnMap map[string]ColumnSpan

// SortedMonths returns the mapped month names ordered by date column,
// left to right.
func (m ColumnMap) SortedMonths() []string {
	months := make([]string, 0, len(m))
	for name := range m {
		months = append(months, name)
	}
	sort.Slice(months, func(i, j int) bool {
		return m[months[i]].DateCol < m[months[j]].DateCol
	})
	return months
}

// =============================================================================
// ANALYSIS
// =============================================================================

// Analyze scans the header row and builds the month column map.
func Analyze(g Grid) (ColumnMap, error) {
	colmap := make(ColumnMap)

	// Pass 1: merged regions intersecting the header row. Only regions
	// spanning exactly two columns qualify; wider merges are titles or
	// decoration.
	regions, err := g.MergeRegions()
	if err != nil {
		return nil, err
	}
	for _, r := range regions {
		if !r.IntersectsRow(1) || r.Cols() != 2 || r.StartCol <= 1 {
			continue
		}
		name := headerText(g.Value(1, r.StartCol))
		if types.MonthOrder(name) == 0 {
			continue
		}
		if _, exists := colmap[name]; exists {
			continue
		}
		colmap[name] = ColumnSpan{DateCol: r.StartCol, AmountCol: r.StartCol + 1}
	}

	// Pass 2: plain header cells, left to right, for months the merge scan
	// did not map. The amount column is assumed to follow immediately and
	// must exist.
	maxCol := g.MaxCol()
	for col := 2; col < maxCol; col++ {
		name := headerText(g.Value(1, col))
		if types.MonthOrder(name) == 0 {
			continue
		}
		if _, exists := colmap[name]; exists {
			continue
		}
		colmap[name] = ColumnSpan{DateCol: col, AmountCol: col + 1}
	}

	return colmap, nil
}

// headerText canonicalizes a header cell: trimmed and upper-cased.
func headerText(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
