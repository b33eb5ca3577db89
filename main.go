// =============================================================================
// Fee Ledger Reconciler - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Fee Ledger Reconciler CLI. It
// initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   reconciler match    - Match statement rows against the ledger roster
//   reconciler apply    - Match and write results back into the ledger
//   reconciler version  - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core matching and ledger-mutation logic
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/feeledger/reconciler/cmd"
)

// main is the entry point of the application. It calls the Execute function
// from the cmd package, which initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
