// =============================================================================
// Receipt PDF - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Receipt PDF CLI application. It
// delegates command execution to the cmd package.
//
// USAGE:
//   receipt                 - Generate a PDF receipt from data/input.csv
//   receipt validate        - Check the input and template without a PDF
//   receipt version         - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core logic (parsing, rendering, PDF output)
//   - pkg/           : Shared file utilities
//   - templates/     : The default HTML receipt template
//   - data/          : Sample input
//   - magefiles/     : Build and test targets (mage)
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/receipt-pdf/cmd"
)

func main() {
	cmd.Execute()
}
