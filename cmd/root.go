// =============================================================================
// Receipt PDF - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Running the root
// command without a subcommand generates a receipt PDF.
//
// COBRA CLI STRUCTURE:
//   rootCmd (receipt)            generate a PDF receipt
//   ├── validateCmd (receipt validate)
//   └── versionCmd  (receipt version)
//
// OUTPUT CONTRACT:
//   stdout carries exactly one result line:
//     PDF created: <path>          on success (exit code 0)
//     Error: <message>             on an input or template problem (exit 1)
//     Unexpected error: <message>  on anything else (exit 1)
//   Logs go to stderr.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ginjaninja78/receipt-pdf/internal/apperror"
	"github.com/ginjaninja78/receipt-pdf/internal/config"
	"github.com/ginjaninja78/receipt-pdf/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// =============================================================================
// APPLICATION STATE
// =============================================================================

// cli holds the state shared by all commands of one invocation.
type cli struct {
	v *viper.Viper

	// cfgFile is the path given with --config.
	cfgFile string

	// verbose forces debug logging.
	verbose bool

	cfg    *config.Config
	logger *slog.Logger

	stdout io.Writer
	stderr io.Writer
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// newRootCmd builds the command tree for app.
func newRootCmd(app *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "receipt",
		Short: "Receipt PDF - Turn a CSV list of purchases into a PDF receipt",
		Long: `Receipt PDF reads a CSV file of purchased items (product, price, qty),
validates it, renders the items into an HTML template and converts the result
into a PDF receipt in the output directory.

Comma and semicolon separated files are detected automatically. An .xlsx
workbook may be used instead of a CSV file.

Example Usage:
  receipt                                   # data/input.csv -> output/check_<timestamp>.pdf
  receipt -i shop.csv -t my.html -o pdfs    # custom paths
  receipt --open                            # open the PDF when done
  receipt validate                          # check the input without writing a PDF`,

		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.initConfig()
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runGenerate(cmd.Context())
		},
	}

	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================
	// Persistent flags are available to this command and all subcommands.

	persistent := rootCmd.PersistentFlags()
	persistent.StringVar(&app.cfgFile, "config", "", "Path to a YAML configuration file (default ./receipt.yaml if present)")
	persistent.BoolVarP(&app.verbose, "verbose", "v", false, "Enable verbose output for debugging")
	persistent.StringP("input", "i", config.DefaultInput, "Path to the input CSV or .xlsx file")
	persistent.StringP("template", "t", config.DefaultTemplate, "Path to the HTML template")

	// ==========================================================================
	// LOCAL FLAGS
	// ==========================================================================

	local := rootCmd.Flags()
	local.StringP("output-dir", "o", config.DefaultOutputDir, "Directory for the generated PDF")
	local.Bool("open", false, "Open the PDF in the default viewer after it is created")

	// Flags win over environment variables and the config file.
	_ = app.v.BindPFlag("input", persistent.Lookup("input"))
	_ = app.v.BindPFlag("template", persistent.Lookup("template"))
	_ = app.v.BindPFlag("output_dir", local.Lookup("output-dir"))
	_ = app.v.BindPFlag("open", local.Lookup("open"))

	rootCmd.AddCommand(newValidateCmd(app), newVersionCmd(app))
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	return rootCmd
}

// initConfig loads the configuration and sets up logging.
func (app *cli) initConfig() error {
	cfg, err := config.Load(app.v, app.cfgFile)
	if err != nil {
		return err
	}

	if app.verbose {
		cfg.LogLevel = "debug"
	}

	app.cfg = cfg
	app.logger = logging.Setup(cfg.LogLevel, cfg.LogFormat, app.stderr)

	if used := app.v.ConfigFileUsed(); used != "" {
		app.logger.Debug("using config file", "path", used)
	}

	return nil
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI and exits with its status code.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line args and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := &cli{
		v:      viper.New(),
		stdout: stdout,
		stderr: stderr,
	}

	rootCmd := newRootCmd(app)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(stdout, err)
		return 1
	}

	return 0
}

// reportError prints err as a single line. Messages of domain errors are
// written for the user; anything else is flagged as unexpected.
func reportError(w io.Writer, err error) {
	if appErr, ok := apperror.As(err); ok {
		fmt.Fprintf(w, "Error: %s\n", appErr.Message)
		return
	}
	fmt.Fprintf(w, "Unexpected error: %v\n", err)
}
