// =============================================================================
// Fee Ledger Reconciler - Match Result Report
// =============================================================================
//
// Serializes a matching run for the table-display consumers: a CSV file of
// MatchResult rows. Sentinel strings pass through verbatim; they are part of
// the display contract.
//
// =============================================================================

package reconcile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// reportHeader is the CSV column layout of a match report.
var reportHeader = []string{
	"line", "date", "reference", "amount",
	"parent", "parent_score", "child", "child_score",
	"month", "month_confidence", "matched",
}

// WriteCSV writes the match results to a CSV file.
func (r *Result) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := r.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}

// WriteTo streams the match results as CSV to any writer.
func (r *Result) WriteTo(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return err
	}

	for _, m := range r.Matches {
		record := []string{
			strconv.Itoa(m.SourceLine),
			m.TransactionDate,
			m.Reference,
			m.Amount.String(),
			m.Parent,
			strconv.Itoa(m.ParentScore),
			m.Child,
			strconv.Itoa(m.ChildScore),
			m.Month,
			strconv.Itoa(m.MonthConfidence),
			strconv.FormatBool(m.Matched),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
