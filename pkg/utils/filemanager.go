// =============================================================================
// Fee Ledger Reconciler - File Utilities
// =============================================================================
//
// File-level helpers shared by the ledger workbook and the CLI:
//   - Byte-exact file copying (used for pre-mutation backups)
//   - Existence checks
//   - Run summary log generation
//
// BACKUP STRATEGY:
//   The ledger backup is a plain sibling copy taken before the first
//   mutation of a run; the mutation engine never touches the original until
//   the backup is on disk.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// =============================================================================
// FILE OPERATIONS
// =============================================================================

// CopyFile copies a file from src to dst, preserving the source's mode.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source file: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}
	return out.Sync()
}

// FileExists reports whether a path exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains summary information about one reconciliation run.
type RunSummary struct {
	RunID          string
	StartTime      time.Time
	EndTime        time.Time
	StatementFile  string
	LedgerFile     string
	BackupFile     string
	RowsProcessed  int
	ParentMatched  int
	Unmatched      int
	EntriesUpdated int
	MonthsCreated  int
	ParentsCreated int
	Errors         int
	Warnings       []string
}

// WriteSummaryLog writes a run summary next to the ledger file and returns
// its path.
func WriteSummaryLog(summary RunSummary, dir string) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	summaryPath := filepath.Join(dir, fmt.Sprintf("reconcile_summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(writer, "Fee Ledger Reconciler - Run Summary\n")
	fmt.Fprintf(writer, "================================================================================\n\n")
	fmt.Fprintf(writer, "Run Information:\n")
	fmt.Fprintf(writer, "  Run ID:     %s\n", summary.RunID)
	fmt.Fprintf(writer, "  Start Time: %s\n", summary.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(writer, "  End Time:   %s\n", summary.EndTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(writer, "  Duration:   %s\n", duration.String())
	fmt.Fprintf(writer, "  Statement:  %s\n", summary.StatementFile)
	fmt.Fprintf(writer, "  Ledger:     %s\n", summary.LedgerFile)
	if summary.BackupFile != "" {
		fmt.Fprintf(writer, "  Backup:     %s\n", summary.BackupFile)
	}
	fmt.Fprintf(writer, "\nStatistics:\n")
	fmt.Fprintf(writer, "  Rows Processed:  %d\n", summary.RowsProcessed)
	fmt.Fprintf(writer, "  Parents Matched: %d\n", summary.ParentMatched)
	fmt.Fprintf(writer, "  Unmatched:       %d\n", summary.Unmatched)
	fmt.Fprintf(writer, "  Entries Written: %d\n", summary.EntriesUpdated)
	fmt.Fprintf(writer, "  Months Created:  %d\n", summary.MonthsCreated)
	fmt.Fprintf(writer, "  Parents Created: %d\n", summary.ParentsCreated)
	fmt.Fprintf(writer, "  Row Errors:      %d\n", summary.Errors)

	if len(summary.Warnings) > 0 {
		fmt.Fprintf(writer, "\nWarnings:\n")
		fmt.Fprintf(writer, "--------------------------------------------------------------------------------\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(writer, "  %s\n", w)
		}
	}

	fmt.Fprintf(writer, "\n================================================================================\nEnd of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}
	return summaryPath, nil
}
