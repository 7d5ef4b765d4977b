// =============================================================================
// Receipt PDF - Generate
// =============================================================================
//
// This file holds the default action of the root command: load the input,
// render the template, write the PDF and optionally open it.
//
// PROCESSING PIPELINE:
//   1. Load and validate the input file
//   2. Load and check the HTML template
//   3. Render the receipt HTML
//   4. Convert it to PDF with headless Chrome
//   5. Open the PDF (with --open)
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ginjaninja78/receipt-pdf/internal/config"
	"github.com/ginjaninja78/receipt-pdf/internal/converter"
	"github.com/ginjaninja78/receipt-pdf/internal/opener"
	"github.com/ginjaninja78/receipt-pdf/internal/pdfwriter"
)

// =============================================================================
// DEPENDENCIES
// =============================================================================
// Tests replace these to run without a browser or a desktop.

var newBackend = func(cfg *config.Config, logger *slog.Logger) pdfwriter.Backend {
	return &pdfwriter.RodBackend{
		BrowserBin: cfg.Browser.Bin,
		NoSandbox:  cfg.Browser.NoSandbox,
		Timeout:    cfg.Browser.Timeout,
		Logger:     logger,
	}
}

var newOpener = func() opener.Opener {
	return opener.New()
}

var now = time.Now

// =============================================================================
// GENERATE
// =============================================================================

// runGenerate produces one receipt PDF and prints its path.
func (app *cli) runGenerate(ctx context.Context) error {
	conv := converter.New(app.cfg, newBackend(app.cfg, app.logger), newOpener(), app.logger)
	conv.Now = now

	result, err := conv.Run(ctx)
	if err != nil {
		return err
	}

	app.logger.Debug("run finished",
		"items", len(result.Items),
		"opened", result.Opened,
		"duration", result.ProcessingTime)

	fmt.Fprintf(app.stdout, "PDF created: %s\n", result.OutputFile)
	return nil
}
