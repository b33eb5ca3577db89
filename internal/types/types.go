// =============================================================================
// Fee Ledger Reconciler - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - statement
//   - match
//   - reconcile
//   - ledger
//
// =============================================================================

package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL VALUES
// =============================================================================

// Sentinel strings distinguish "searched, not found" from "not attempted".
// They are part of the display contract consumed by the table/report layer,
// so the exact spelling matters.
const (
	// NoMatchFound is reported when no parent in the roster reached the
	// matching threshold for a transaction row.
	NoMatchFound = "NO MATCH FOUND"

	// NoChildMatchFound is reported when parent matching succeeded (or was
	// attempted) but no child in the roster reached the threshold.
	NoChildMatchFound = "NO CHILD MATCH FOUND"

	// NoMonthFound is reported when neither the reference text nor the
	// transaction date yielded a billing month.
	NoMonthFound = "NO MONTH FOUND"
)

// =============================================================================
// TRANSACTION TYPES
// =============================================================================

// TransactionRow represents one raw line from a bank statement.
// Fields are positional; the statement package knows which positions carry
// the date, the reference fragments and the amount. A row is immutable once
// read.
type TransactionRow struct {
	// Fields contains the raw string fields in statement order.
	Fields []string

	// SourceLine is the 1-based line number in the source file.
	// Useful for error reporting.
	SourceLine int
}

// MatchResult is the outcome of running one transaction row through the
// matching pipeline. It is created once per row and never mutated afterwards.
type MatchResult struct {
	// Parent is the matched parent roster entry (original spelling), or the
	// NoMatchFound sentinel.
	Parent string

	// ParentScore is the 0-100 confidence for the parent match.
	ParentScore int

	// Child is the matched child roster entry, or the NoChildMatchFound
	// sentinel.
	Child string

	// ChildScore is the 0-100 confidence for the child match.
	ChildScore int

	// Month is the 3-letter billing month code (e.g. "Jun"), or the
	// NoMonthFound sentinel.
	Month string

	// MonthConfidence is 95 when the month came from the reference text,
	// 80 when it fell back to the transaction date, 0 otherwise.
	MonthConfidence int

	// TransactionDate is the raw date field from the statement row.
	TransactionDate string

	// Amount is the cleaned statement amount. Unparsable input parses to
	// zero; the row is still recorded.
	Amount decimal.Decimal

	// Reference is the display text assembled from the non-blank reference
	// fragments.
	Reference string

	// Matched reports whether a parent was found at or above the threshold.
	Matched bool

	// SourceLine is carried over from the TransactionRow.
	SourceLine int
}

// =============================================================================
// LEDGER MUTATION TYPES
// =============================================================================

// CellKind identifies which half of a month column pair a written cell
// belongs to.
type CellKind string

const (
	// CellDate marks the date cell of a month pair.
	CellDate CellKind = "date"

	// CellAmount marks the amount cell of a month pair.
	CellAmount CellKind = "amount"

	// CellParent marks the key cell of a newly created parent row.
	CellParent CellKind = "parent"
)

// HighlightRecord is one entry in the append-only log of cells written during
// a mutation run. The log is used only for reporting and highlighting; it is
// never read back into matching logic.
type HighlightRecord struct {
	// Row is the 1-based spreadsheet row of the written cell.
	Row int

	// Col is the 1-based spreadsheet column of the written cell.
	Col int

	// Kind reports whether the cell holds a date or an amount.
	Kind CellKind

	// Value is the written value, as a string, for reporting.
	Value string

	// Parent is the ledger row key the write belongs to.
	Parent string

	// Month is the full month name of the column pair.
	Month string

	// NewParent is true when the write created the parent row itself.
	NewParent bool
}

// MutationStats aggregates per-run statistics from the ledger mutation
// engine. Row-level failures are counted here, not fatal to the run.
type MutationStats struct {
	RowsProcessed  int
	EntriesUpdated int
	MonthsCreated  int
	ParentsCreated int
	Errors         int
}

// =============================================================================
// STRING HELPERS
// =============================================================================

// NormalizeKey produces the case-insensitive, trimmed form used to compare
// parent names when locating ledger rows.
func NormalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
