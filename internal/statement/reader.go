// =============================================================================
// Fee Ledger Reconciler - Bank Statement Reader
// =============================================================================
//
// Reads bank-statement CSV exports into positional TransactionRows and
// exposes the field accessors the matching pipeline needs: the transaction
// date, the non-blank reference fragments, and the cleaned amount.
//
// The statement layout (delimiter, header rows, field positions) comes from
// configuration; nothing here assumes a particular bank's export beyond the
// positional convention.
//
// AMOUNT CLEANING:
//   Currency markers ("$", "RM") and thousands separators are stripped
//   before the numeric parse. An unparsable or blank amount cleans to zero;
//   the row is still recorded so it shows up as unmatched rather than
//   silently disappearing.
//
// =============================================================================

package statement

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/feeledger/reconciler/internal/config"
	"github.com/feeledger/reconciler/internal/textnorm"
	"github.com/feeledger/reconciler/internal/types"
)

// currencyRe strips currency markers and separators before the numeric
// parse. "RM" is matched as a prefix token so names containing those letters
// in reference fields are unaffected (amounts are their own field anyway).
var currencyRe = regexp.MustCompile(`(?i)(RM|\$|,|\s)`)

// =============================================================================
// READER
// =============================================================================

// Reader parses statement files according to the configured layout.
type Reader struct {
	cfg config.StatementConfig
}

// NewReader creates a Reader for the given statement settings.
func NewReader(cfg config.StatementConfig) *Reader {
	return &Reader{cfg: cfg}
}

// Read parses a statement CSV file into transaction rows. Header rows are
// skipped and fully blank lines dropped; everything else is kept verbatim.
func (r *Reader) Read(path string) ([]types.TransactionRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement file: %w", err)
	}
	defer file.Close()

	rows, err := r.ReadFrom(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rows, nil
}

// ReadFrom parses statement rows from any reader. Split out of Read so tests
// can feed in-memory data.
func (r *Reader) ReadFrom(src io.Reader) ([]types.TransactionRow, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1 // statement exports have ragged rows
	reader.LazyQuotes = true
	if r.cfg.Delimiter != "" {
		reader.Comma = rune(r.cfg.Delimiter[0])
	}

	var rows []types.TransactionRow
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read error at line %d: %w", line+1, err)
		}
		line++

		if line <= r.cfg.HeaderRows {
			continue
		}
		if isBlank(record) {
			continue
		}

		rows = append(rows, types.TransactionRow{
			Fields:     record,
			SourceLine: line,
		})
	}
	return rows, nil
}

// =============================================================================
// FIELD ACCESSORS
// =============================================================================

// Date returns the raw transaction date field of a row.
func (r *Reader) Date(row types.TransactionRow) string {
	return field(row, r.cfg.DateField)
}

// Fragments returns the non-blank reference fragments of a row, with the
// formula-quoting artifact stripped but otherwise raw: the candidate
// extractor needs original casing and spacing.
func (r *Reader) Fragments(row types.TransactionRow) []string {
	var frags []string
	for _, pos := range r.cfg.ReferenceFields {
		f := textnorm.StripFormulaQuote(strings.TrimSpace(field(row, pos)))
		if f != "" {
			frags = append(frags, f)
		}
	}
	return frags
}

// Amount returns the cleaned transaction amount of a row.
func (r *Reader) Amount(row types.TransactionRow) decimal.Decimal {
	return CleanAmount(field(row, r.cfg.AmountField))
}

// CleanAmount strips currency markers and separators and parses the result.
// Blank or unparsable input yields zero.
func CleanAmount(raw string) decimal.Decimal {
	cleaned := currencyRe.ReplaceAllString(textnorm.StripFormulaQuote(strings.TrimSpace(raw)), "")
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// HELPERS
// =============================================================================

// field returns the row field at pos, or "" when the row is too short.
func field(row types.TransactionRow, pos int) string {
	if pos < 0 || pos >= len(row.Fields) {
		return ""
	}
	return strings.TrimSpace(row.Fields[pos])
}

// isBlank reports whether every field of a record is empty.
func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
