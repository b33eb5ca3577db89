// =============================================================================
// Fee Ledger Reconciler - Ledger Workbook
// =============================================================================
//
// File-level handling of the fee ledger spreadsheet: opening with exclusive
// access verification, roster extraction, pre-mutation backup, and in-place
// save. Access failures are surfaced as *AccessError values carrying a
// remediation hint, so the CLI can report them without a stack of wrapped
// causes; nothing is written when opening fails.
//
// LEDGER LAYOUT:
//   - Row 1 holds headers; column 1 is reserved as the parent-name key
//   - Column 1 from row 2 down = parent roster, column 2 = child roster
//   - Month headers are a merged 2-column region or two adjacent cells,
//     spanning a (date, amount) pair
//
// =============================================================================

package ledger

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/feeledger/reconciler/pkg/utils"
)

// =============================================================================
// ACCESS ERRORS
// =============================================================================

// AccessError is a structured ledger access failure: what went wrong and
// what the operator can do about it. It always occurs before any write is
// committed.
type AccessError struct {
	// Path is the ledger file involved.
	Path string

	// Reason is a short explanation of the failure.
	Reason string

	// Hint suggests a remediation, when one is known.
	Hint string
}

// Error implements the error interface.
func (e *AccessError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("ledger %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("ledger %s: %s (%s)", e.Path, e.Reason, e.Hint)
}

// =============================================================================
// WORKBOOK
// =============================================================================

// Workbook is an open ledger spreadsheet.
type Workbook struct {
	// Path is the file the workbook was opened from and will be saved to.
	Path string

	// Sheet is the worksheet holding the ledger.
	Sheet string

	file *excelize.File
}

// Open opens a ledger workbook and verifies exclusive access. An empty
// sheetName selects the workbook's first sheet.
func Open(path, sheetName string) (*Workbook, error) {
	return open(path, sheetName, true)
}

// OpenReadOnly opens a ledger workbook without the exclusive-access probe.
// Used by match-only runs, which never write the file.
func OpenReadOnly(path, sheetName string) (*Workbook, error) {
	return open(path, sheetName, false)
}

func open(path, sheetName string, probe bool) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &AccessError{Path: path, Reason: "file not found", Hint: "check the --ledger path"}
		}
		return nil, &AccessError{Path: path, Reason: err.Error()}
	}

	// Advisory open-for-append probe: mutation invalidates every computed
	// column position, so a concurrent writer (commonly the file open in a
	// spreadsheet application) must be ruled out up front.
	if probe {
		if err := probeLock(path); err != nil {
			return nil, &AccessError{
				Path:   path,
				Reason: "file is locked or not writable",
				Hint:   "close the file in your spreadsheet application and retry",
			}
		}
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &AccessError{
			Path:   path,
			Reason: fmt.Sprintf("cannot read workbook: %v", err),
			Hint:   "the file may be corrupt or not an .xlsx workbook",
		}
	}

	sheet := sheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		f.Close()
		return nil, &AccessError{
			Path:   path,
			Reason: fmt.Sprintf("worksheet %q not found", sheet),
			Hint:   "set ledger.sheet_name in the config",
		}
	}

	return &Workbook{Path: path, Sheet: sheet, file: f}, nil
}

// probeLock opens the file for appending and immediately closes it.
func probeLock(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	return f.Close()
}

// Grid returns the mutation-facing view of the ledger sheet.
func (w *Workbook) Grid() Grid {
	return NewExcelGrid(w.file, w.Sheet)
}

// =============================================================================
// ROSTER EXTRACTION
// =============================================================================

// Roster reads the parent and child name lists. Parents come from column 1
// and children from column 2, starting at row 2, with blanks dropped and
// order preserved. The lists are read fresh each run; nothing is cached.
func (w *Workbook) Roster() (parents, children []string, err error) {
	rows, err := w.file.GetRows(w.Sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read ledger rows: %w", err)
	}

	for i, row := range rows {
		if i == 0 {
			continue // header row
		}
		if len(row) > 0 {
			if name := strings.TrimSpace(row[0]); name != "" {
				parents = append(parents, name)
			}
		}
		if len(row) > 1 {
			if name := strings.TrimSpace(row[1]); name != "" {
				children = append(children, name)
			}
		}
	}
	return parents, children, nil
}

// =============================================================================
// BACKUP AND SAVE
// =============================================================================

// Backup writes a timestamped sibling copy of the ledger file and returns
// its path. Called before the first mutation of a run.
func (w *Workbook) Backup() (string, error) {
	backupPath := fmt.Sprintf("%s.backup_%s", w.Path, time.Now().Format("20060102_150405"))
	if err := utils.CopyFile(w.Path, backupPath); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	return backupPath, nil
}

// Save writes the workbook back to its original path.
func (w *Workbook) Save() error {
	if err := w.file.SaveAs(w.Path); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

// Close releases the underlying workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}
