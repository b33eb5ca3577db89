// =============================================================================
// Fee Ledger Reconciler - Apply Command
// =============================================================================
//
// This file defines the 'apply' command, which matches statement rows and
// writes the matched payments back into the ledger.
//
// COMMAND USAGE:
//   reconciler apply [flags]
//
// FLAGS:
//   --statement   : Path to the bank statement CSV (required)
//   --ledger      : Path to the fee ledger workbook (required)
//   --dry-run     : Match and plan mutations without writing the ledger
//
// MUTATION SAFETY:
//   The ledger is opened with an exclusive-access probe; a timestamped
//   backup copy is taken before the first write; nothing is saved when any
//   file-level failure occurs. Row-level failures are counted in the run
//   statistics and do not abort the run.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/feeledger/reconciler/internal/ledger"
	"github.com/feeledger/reconciler/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun simulates the mutation run without writing the ledger.
var dryRun bool

// writeSummary controls whether a summary log file is written next to the
// ledger.
var writeSummary bool

// =============================================================================
// APPLY COMMAND DEFINITION
// =============================================================================

// applyCmd represents the 'apply' command.
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Match statement rows and write them into the ledger",
	Long: `The apply command runs the full pipeline: match every statement row, then
write each matched payment's date and amount into the ledger under the
correct month column.

Missing month columns are inserted in reverse-chronological left-to-right
order (latest month leftmost); new parents are appended after the last
existing row. A timestamped backup of the ledger is created before the
first modification, and every written cell is highlighted for review.

With --dry-run the command reports what would change without touching the
file.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runApply()
	},
}

// init registers the apply command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringVar(&statementPath, "statement", "", "Path to the bank statement CSV (required)")
	applyCmd.Flags().StringVar(&ledgerPath, "ledger", "", "Path to the fee ledger workbook (required)")
	applyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Match and plan mutations without writing the ledger")
	applyCmd.Flags().BoolVar(&writeSummary, "summary", false, "Write a run summary log next to the ledger")
	applyCmd.MarkFlagRequired("statement")
	applyCmd.MarkFlagRequired("ledger")
}

// =============================================================================
// APPLY EXECUTION
// =============================================================================

// runApply executes the match-and-mutate pipeline.
func runApply() error {
	start := time.Now()

	// Exclusive access is verified at open time; mutation invalidates
	// computed column positions, so a concurrent writer must be ruled out
	// before anything happens.
	wb, err := ledger.Open(ledgerPath, cfg.Ledger.SheetName)
	if err != nil {
		return err
	}
	defer wb.Close()

	matchResult, err := matchStatement(wb)
	if err != nil {
		return err
	}
	printMatchStats(matchResult.Stats)

	if dryRun {
		fmt.Println("\nDry run: ledger not modified.")
		grid := ledger.NewPlanGrid(wb.Grid())
		mutation, err := ledger.NewMutator(grid, nil).Apply(matchResult.Matches)
		if err != nil {
			return err
		}
		printMutationResult(mutation)
		return nil
	}

	// Backup before the first mutation.
	backupPath := ""
	if cfg.Ledger.BackupEnabled() {
		backupPath, err = wb.Backup()
		if err != nil {
			return err
		}
		fmt.Printf("Backup created: %s\n", backupPath)
	}

	mutation, err := ledger.NewMutator(wb.Grid(), nil).Apply(matchResult.Matches)
	if err != nil {
		return err
	}

	if err := wb.Save(); err != nil {
		return err
	}
	printMutationResult(mutation)

	if writeSummary {
		summaryPath, err := utils.WriteSummaryLog(utils.RunSummary{
			RunID:          mutation.RunID,
			StartTime:      start,
			EndTime:        time.Now(),
			StatementFile:  statementPath,
			LedgerFile:     ledgerPath,
			BackupFile:     backupPath,
			RowsProcessed:  mutation.Stats.RowsProcessed,
			ParentMatched:  matchResult.Stats.ParentMatched,
			Unmatched:      matchResult.Stats.Unmatched,
			EntriesUpdated: mutation.Stats.EntriesUpdated,
			MonthsCreated:  mutation.Stats.MonthsCreated,
			ParentsCreated: mutation.Stats.ParentsCreated,
			Errors:         mutation.Stats.Errors,
			Warnings:       mutation.Warnings,
		}, filepath.Dir(ledgerPath))
		if err != nil {
			return err
		}
		fmt.Printf("Summary written to %s\n", summaryPath)
	}
	return nil
}

// printMutationResult prints the mutation statistics and highlight log size.
func printMutationResult(result *ledger.ApplyResult) {
	fmt.Println()
	fmt.Println("=== Ledger Update Summary ===")
	fmt.Printf("Run ID:          %s\n", result.RunID)
	fmt.Printf("Rows processed:  %d\n", result.Stats.RowsProcessed)
	fmt.Printf("Entries written: %d\n", result.Stats.EntriesUpdated)
	fmt.Printf("Months created:  %d", result.Stats.MonthsCreated)
	if len(result.MonthsCreated) > 0 {
		fmt.Printf(" (%s)", strings.Join(result.MonthsCreated, ", "))
	}
	fmt.Println()
	fmt.Printf("Parents created: %d\n", result.Stats.ParentsCreated)
	fmt.Printf("Row errors:      %d\n", result.Stats.Errors)
	fmt.Printf("Cells flagged:   %d\n", len(result.Highlights))
	for _, w := range result.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
}

