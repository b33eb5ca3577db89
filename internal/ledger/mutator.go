// =============================================================================
// Fee Ledger Reconciler - Ledger Mutation Engine
// =============================================================================
//
// Writes a batch of match results into the ledger grid. The run is strictly
// sequential and single-writer: column insertion invalidates every computed
// column position, so the engine re-runs the structure analyzer after each
// month insertion rather than trusting incremental offsets.
//
// RUN STEPS:
//   1. Pre-scan the incoming rows for the set of distinct months required
//   2. Insert each missing month (reverse-chronological left-to-right
//      layout), re-analyzing the header after every insertion
//   3. Per row, in input order: resolve or create the parent row, then
//      write the (date, amount) pair into the first row at or below the
//      parent where both cells are empty
//   4. Aggregate statistics; row-level failures are counted, never fatal
//
// Every written cell is highlighted and appended to the highlight log.
//
// =============================================================================

package ledger

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/feeledger/reconciler/internal/types"
)

// =============================================================================
// RESULT TYPES
// =============================================================================

// ApplyResult reports one mutation run.
type ApplyResult struct {
	// RunID identifies the run in logs and summaries.
	RunID string

	// Stats aggregates the per-run counters.
	Stats types.MutationStats

	// Highlights is the append-only log of written cells.
	Highlights []types.HighlightRecord

	// MonthsCreated lists the months inserted during the run, in insertion
	// order.
	MonthsCreated []string

	// Warnings carries non-fatal anomalies (skipped rows, defensive check
	// failures).
	Warnings []string
}

// =============================================================================
// ENGINE
// =============================================================================

// Mutator applies match results to one ledger grid.
type Mutator struct {
	grid   Grid
	colmap ColumnMap
	log    *slog.Logger
}

// NewMutator creates a mutation engine over a grid. A nil logger falls back
// to slog.Default.
func NewMutator(g Grid, logger *slog.Logger) *Mutator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mutator{grid: g, log: logger}
}

// ColumnMap exposes the engine's current column map. Used by tests to check
// that a fresh analysis reproduces it exactly.
func (m *Mutator) ColumnMap() ColumnMap {
	return m.colmap
}

// Apply runs the full mutation sequence for a batch of match results.
func (m *Mutator) Apply(rows []types.MatchResult) (*ApplyResult, error) {
	result := &ApplyResult{RunID: uuid.NewString()}

	colmap, err := Analyze(m.grid)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze ledger structure: %w", err)
	}
	m.colmap = colmap

	// Step 1: distinct months required by this batch, in first-seen order.
	required := requiredMonths(rows)

	// Step 2: insert what is missing, re-analyzing after every insertion.
	for _, month := range required {
		if _, ok := m.colmap[month]; ok {
			continue
		}
		if err := m.insertMonth(month); err != nil {
			return nil, fmt.Errorf("failed to insert month %s: %w", month, err)
		}
		result.MonthsCreated = append(result.MonthsCreated, month)
		result.Stats.MonthsCreated++

		m.colmap, err = Analyze(m.grid)
		if err != nil {
			return nil, fmt.Errorf("failed to re-analyze ledger after inserting %s: %w", month, err)
		}
	}

	// Defensive check: every required month must now be mapped. Not
	// expected to fail in correct operation; log and continue.
	for _, month := range required {
		if _, ok := m.colmap[month]; !ok {
			warn := fmt.Sprintf("month %s still missing after insertion", month)
			m.log.Warn("ledger structure check failed", "run_id", result.RunID, "month", month)
			result.Warnings = append(result.Warnings, warn)
		}
	}

	// Step 3: write rows in input order.
	for _, row := range rows {
		result.Stats.RowsProcessed++
		if err := m.applyRow(row, result); err != nil {
			result.Stats.Errors++
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: %v", row.SourceLine, err))
			m.log.Warn("row skipped", "run_id", result.RunID, "line", row.SourceLine, "error", err)
		}
	}

	return result, nil
}

// requiredMonths collects the distinct full month names the batch needs,
// preserving first-seen order.
func requiredMonths(rows []types.MatchResult) []string {
	var months []string
	seen := make(map[string]bool)
	for _, row := range rows {
		if !row.Matched {
			continue
		}
		name := types.MonthNameFromCode(row.Month)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		months = append(months, name)
	}
	return months
}

// =============================================================================
// MONTH INSERTION
// =============================================================================

// insertMonth inserts a 2-column month block, keeping the header in
// reverse-chronological left-to-right order (latest month leftmost).
func (m *Mutator) insertMonth(name string) error {
	order := types.MonthOrder(name)
	if order == 0 {
		return fmt.Errorf("%q is not a month", name)
	}

	at := m.insertionColumn(order)
	if err := m.grid.InsertCols(at, 2); err != nil {
		return err
	}
	if err := m.grid.SetValue(1, at, name); err != nil {
		return err
	}
	region := MergeRegion{StartRow: 1, StartCol: at, EndRow: 1, EndCol: at + 1}
	if err := m.grid.Merge(region); err != nil {
		return err
	}
	if err := m.grid.StyleMonthHeader(region); err != nil {
		return err
	}

	// Shift the tracked map past the insertion point. The caller re-analyzes
	// regardless; the shifted map exists so the no-drift property can be
	// checked against the fresh scan.
	for month, span := range m.colmap {
		if span.DateCol >= at {
			m.colmap[month] = ColumnSpan{DateCol: span.DateCol + 2, AmountCol: span.AmountCol + 2}
		}
	}

	m.log.Debug("month inserted", "month", name, "column", at)
	return nil
}

// insertionColumn picks the column for a new month of the given calendar
// order. In the latest-first layout every calendar-earlier month sits to the
// right of where the new month belongs, so the block goes at the leftmost of
// them (tie-break on column index, which is deterministic because spans
// never overlap). A month earlier than everything present goes after the
// rightmost existing block, and the first month ever goes directly after
// the parent column.
func (m *Mutator) insertionColumn(order int) int {
	if len(m.colmap) == 0 {
		return 2
	}

	leftmostEarlier, rightmost := 0, 0
	for month, span := range m.colmap {
		if span.DateCol > rightmost {
			rightmost = span.DateCol
		}
		if types.MonthOrder(month) < order {
			if leftmostEarlier == 0 || span.DateCol < leftmostEarlier {
				leftmostEarlier = span.DateCol
			}
		}
	}
	if leftmostEarlier != 0 {
		return leftmostEarlier
	}
	return rightmost + 2
}

// =============================================================================
// ROW APPLICATION
// =============================================================================

// applyRow writes one match result into the grid.
func (m *Mutator) applyRow(row types.MatchResult, result *ApplyResult) error {
	if !row.Matched || row.Parent == "" || row.Parent == types.NoMatchFound {
		return fmt.Errorf("no matched parent")
	}
	monthName := types.MonthNameFromCode(row.Month)
	if monthName == "" {
		return fmt.Errorf("no billing month resolved")
	}
	span, ok := m.colmap[monthName]
	if !ok {
		return fmt.Errorf("month %s not present in ledger", monthName)
	}

	parentRow, created, err := m.findOrCreateParentRow(row.Parent)
	if err != nil {
		return err
	}
	if created {
		result.Stats.ParentsCreated++
		if err := m.grid.Highlight(parentRow, 1, FillNewParent); err != nil {
			return err
		}
		result.Highlights = append(result.Highlights, types.HighlightRecord{
			Row: parentRow, Col: 1, Kind: types.CellParent, Value: row.Parent,
			Parent: row.Parent, Month: monthName, NewParent: true,
		})
	}

	targetRow := m.firstFreeRow(parentRow, span)

	if err := m.grid.SetValue(targetRow, span.DateCol, row.TransactionDate); err != nil {
		return err
	}
	if err := m.grid.SetValue(targetRow, span.AmountCol, row.Amount.InexactFloat64()); err != nil {
		return err
	}
	for _, cell := range []struct {
		col  int
		kind types.CellKind
		val  string
	}{
		{span.DateCol, types.CellDate, row.TransactionDate},
		{span.AmountCol, types.CellAmount, row.Amount.String()},
	} {
		if err := m.grid.Highlight(targetRow, cell.col, FillUpdated); err != nil {
			return err
		}
		result.Highlights = append(result.Highlights, types.HighlightRecord{
			Row: targetRow, Col: cell.col, Kind: cell.kind, Value: cell.val,
			Parent: row.Parent, Month: monthName, NewParent: created,
		})
	}

	result.Stats.EntriesUpdated++
	return nil
}

// findOrCreateParentRow locates the parent's row by case-insensitive match
// on column 1 (first match wins), appending a new row after the current last
// row when the parent is unknown.
func (m *Mutator) findOrCreateParentRow(parent string) (int, bool, error) {
	key := types.NormalizeKey(parent)
	maxRow := m.grid.MaxRow()
	for r := 2; r <= maxRow; r++ {
		if types.NormalizeKey(m.grid.Value(r, 1)) == key {
			return r, false, nil
		}
	}

	newRow := maxRow + 1
	if newRow < 2 {
		newRow = 2
	}
	if err := m.grid.SetValue(newRow, 1, parent); err != nil {
		return 0, false, err
	}
	return newRow, true, nil
}

// firstFreeRow scans from the parent's row downward for the first row where
// both the date and amount cell of the month pair are empty. The scan may
// extend past the current last row; rows beyond it are empty by definition.
func (m *Mutator) firstFreeRow(parentRow int, span ColumnSpan) int {
	maxRow := m.grid.MaxRow()
	for r := parentRow; r <= maxRow; r++ {
		if m.grid.Value(r, span.DateCol) == "" && m.grid.Value(r, span.AmountCol) == "" {
			return r
		}
	}
	return maxRow + 1
}
