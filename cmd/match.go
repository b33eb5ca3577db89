// =============================================================================
// Fee Ledger Reconciler - Match Command
// =============================================================================
//
// This file defines the 'match' command, which runs the matching pipeline
// without touching the ledger file.
//
// COMMAND USAGE:
//   reconciler match [flags]
//
// FLAGS:
//   --statement   : Path to the bank statement CSV (required)
//   --ledger      : Path to the fee ledger workbook (required)
//   --out         : Optional path for a CSV report of the match results
//
// PIPELINE:
//   1. Read the parent/child roster from the ledger
//   2. Parse the statement rows
//   3. Match every row (parent, child, billing month)
//   4. Print the results table and run statistics
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/feeledger/reconciler/internal/ledger"
	"github.com/feeledger/reconciler/internal/reconcile"
	"github.com/feeledger/reconciler/internal/statement"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// statementPath is the bank statement CSV to match.
var statementPath string

// ledgerPath is the fee ledger workbook providing the roster.
var ledgerPath string

// outPath optionally receives a CSV report of the match results.
var outPath string

// =============================================================================
// MATCH COMMAND DEFINITION
// =============================================================================

// matchCmd represents the 'match' command.
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match statement rows against the ledger roster",
	Long: `The match command reads the parent and child rosters from the ledger's
first two columns, parses the bank statement, and runs every transaction row
through the matching pipeline. The ledger file is not modified.

Each row yields a parent, child and billing month with confidence scores;
unresolved fields carry sentinel values so the output always has one line
per transaction.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runMatch()
	},
}

// init registers the match command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringVar(&statementPath, "statement", "", "Path to the bank statement CSV (required)")
	matchCmd.Flags().StringVar(&ledgerPath, "ledger", "", "Path to the fee ledger workbook (required)")
	matchCmd.Flags().StringVar(&outPath, "out", "", "Write the match results to a CSV report")
	matchCmd.MarkFlagRequired("statement")
	matchCmd.MarkFlagRequired("ledger")
}

// =============================================================================
// MATCH EXECUTION
// =============================================================================

// runMatch executes the matching pipeline and reports the results.
func runMatch() error {
	wb, err := ledger.OpenReadOnly(ledgerPath, cfg.Ledger.SheetName)
	if err != nil {
		return err
	}
	defer wb.Close()

	result, err := matchStatement(wb)
	if err != nil {
		return err
	}

	if err := result.WriteTo(os.Stdout); err != nil {
		return fmt.Errorf("failed to print results: %w", err)
	}
	printMatchStats(result.Stats)

	if outPath != "" {
		if err := result.WriteCSV(outPath); err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", outPath)
	}
	return nil
}

// matchStatement runs roster extraction, statement parsing and the matching
// engine. Shared with the apply command.
func matchStatement(wb *ledger.Workbook) (*reconcile.Result, error) {
	parents, children, err := wb.Roster()
	if err != nil {
		return nil, err
	}
	if len(parents) == 0 {
		return nil, fmt.Errorf("ledger %s has no parent names in column 1", wb.Path)
	}

	rows, err := statement.NewReader(cfg.Statement).Read(statementPath)
	if err != nil {
		return nil, err
	}

	engine := reconcile.NewEngine(cfg, parents, children, nil)
	return engine.Run(rows), nil
}

// printMatchStats prints the run statistics block.
func printMatchStats(stats reconcile.Stats) {
	fmt.Println()
	fmt.Println("=== Matching Summary ===")
	fmt.Printf("Rows processed:  %d\n", stats.TotalProcessed)
	fmt.Printf("Parents matched: %d\n", stats.ParentMatched)
	fmt.Printf("Children found:  %d\n", stats.ChildMatched)
	fmt.Printf("Months resolved: %d\n", stats.MonthResolved)
	fmt.Printf("Unmatched:       %d\n", stats.Unmatched)
}
