// =============================================================================
// Fee Ledger Reconciler - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'match', 'apply') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (reconciler)
//   ├── matchCmd   (reconciler match)
//   ├── applyCmd   (reconciler apply)
//   └── versionCmd (reconciler version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/feeledger/reconciler/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// cfg is the loaded application configuration, available to all commands
// after PersistentPreRunE.
var cfg *config.Config

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "reconciler",

	Short: "Fee Ledger Reconciler - match bank statement rows against a fee ledger",

	Long: `Fee Ledger Reconciler matches bank-statement transaction rows against the
parent/child roster of a fee ledger spreadsheet, recovering payer name,
student name and billing month from unstructured reference text, and can
write the matched payments back into the ledger under the correct month
column.

Key Features:
  - Cascading fuzzy name matching with configurable threshold
  - Month extraction from reference text with date fallback
  - Dynamic discovery and extension of the ledger's month columns
  - Timestamped ledger backup before any modification
  - Written cells highlighted and logged for review

Example Usage:
  reconciler match --statement june.csv --ledger fees.xlsx
  reconciler apply --statement june.csv --ledger fees.xlsx --dry-run`,

	// PersistentPreRunE loads configuration and wires logging before any
	// subcommand runs.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		initLogger()
		return nil
	},

	// With no subcommand, print the help message.
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main() and only needs to happen once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	// --config flag: path to the configuration file.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (default is config.yaml)",
	)

	// --verbose flag: enables debug logging regardless of the configured
	// level.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initLogger configures the default slog logger from the loaded config.
func initLogger() {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
