// =============================================================================
// Receipt PDF - Version Command
// =============================================================================
//
// This file defines the 'version' command, which displays the application
// version and build information.
//
// COMMAND USAGE:
//   receipt version
//
// OUTPUT:
//   Receipt PDF
//   Version:    1.0.0
//   Build Date: 2026-10-19
//   Go Version: go1.24.11
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// =============================================================================
// VERSION INFORMATION
// =============================================================================
// These variables are set at build time using ldflags (see magefiles):
//   go build -ldflags "-X 'github.com/ginjaninja78/receipt-pdf/cmd.Version=1.0.0'"

// Version is the application version.
var Version = "1.0.0"

// BuildDate is the date the application was built.
var BuildDate = "unknown"

// newVersionCmd creates the 'version' command.
func newVersionCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the application version",
		Long:  `Display the application version, build date, and Go runtime version.`,
		Args:  cobra.NoArgs,

		// The version is printed even when the configuration is broken.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},

		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(app.stdout, "Receipt PDF")
			fmt.Fprintf(app.stdout, "Version:    %s\n", Version)
			fmt.Fprintf(app.stdout, "Build Date: %s\n", BuildDate)
			fmt.Fprintf(app.stdout, "Go Version: %s\n", runtime.Version())
		},
	}
}
