// =============================================================================
// Receipt PDF - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It orchestrates the whole
// pipeline for one run, from reading the input file to writing the PDF.
//
// CONVERSION PIPELINE:
//   1. Load and validate the input CSV (or .xlsx workbook)
//   2. Load the HTML template and check its placeholders
//   3. Render the receipt HTML
//   4. Convert the HTML to PDF and write it to the output directory
//   5. Optionally open the PDF in the default viewer
//
// Every step is terminal: the first failure stops the run and nothing is
// written. Only step 5 is allowed to fail; it is logged as a warning.
//
// =============================================================================

package converter

import (
	"context"
	"log/slog"
	"time"

	"github.com/ginjaninja78/receipt-pdf/internal/config"
	"github.com/ginjaninja78/receipt-pdf/internal/csvparser"
	"github.com/ginjaninja78/receipt-pdf/internal/opener"
	"github.com/ginjaninja78/receipt-pdf/internal/pdfwriter"
	"github.com/ginjaninja78/receipt-pdf/internal/render"
	"github.com/ginjaninja78/receipt-pdf/internal/types"
	"github.com/shopspring/decimal"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	// InputFile is the path of the input file that was processed.
	InputFile string

	// TemplateFile is the path of the HTML template used.
	TemplateFile string

	// OutputFile is the path to the generated PDF.
	// Empty for Check.
	OutputFile string

	// Items are the validated line items in input order.
	Items []types.LineItem

	// Total is the receipt total.
	Total decimal.Decimal

	// Delimiter is the detected CSV delimiter. Zero for workbooks.
	Delimiter rune

	// GeneratedAt is the timestamp printed on the receipt.
	GeneratedAt time.Time

	// Opened reports whether the PDF was handed to the viewer.
	Opened bool

	// ProcessingTime is the time taken by the run.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter turns one input file into one PDF receipt.
type Converter struct {
	// Input is the CSV or .xlsx file.
	Input string

	// Template is the HTML template file.
	Template string

	// Writer stores the PDF.
	Writer *pdfwriter.Writer

	// Opener shows the PDF after it is written. Nil disables opening.
	Opener opener.Opener

	// Now returns the current time. Tests pin it.
	Now func() time.Time

	logger *slog.Logger
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a Converter from the configuration.
//
// PARAMETERS:
//   - cfg: The loaded configuration.
//   - backend: The HTML to PDF backend.
//   - open: The viewer used when cfg.Open is set. May be nil otherwise.
//   - logger: Destination for progress logs. Nil uses slog.Default().
//
// RETURNS:
//   - A new Converter instance.
func New(cfg *config.Config, backend pdfwriter.Backend, open opener.Opener, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Converter{
		Input:    cfg.Input,
		Template: cfg.Template,
		Writer:   pdfwriter.NewWriter(cfg.OutputDir, backend, logger),
		Now:      time.Now,
		logger:   logger,
	}
	if cfg.Open {
		c.Opener = open
	}

	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// Run executes the full pipeline and writes the PDF.
//
// RETURNS:
//   - The Result of the run.
//   - The first error encountered. Domain failures are *apperror.Error.
func (c *Converter) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()

	result, html, err := c.prepare()
	if err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 4: WRITE THE PDF
	// =========================================================================

	outputFile, err := c.Writer.WriteAt(ctx, html, result.GeneratedAt)
	if err != nil {
		return nil, err
	}
	result.OutputFile = outputFile

	c.logger.Info("PDF written", "path", outputFile)

	// =========================================================================
	// STEP 5: OPEN (OPTIONAL)
	// =========================================================================
	// The PDF already exists at this point, so a viewer problem is only
	// worth a warning.

	if c.Opener != nil {
		if err := c.Opener.Open(ctx, outputFile); err != nil {
			c.logger.Warn("could not open PDF", "path", outputFile, "error", err)
		} else {
			result.Opened = true
		}
	}

	result.ProcessingTime = time.Since(startTime)
	return result, nil
}

// Check runs the pipeline up to and including rendering, without touching
// the PDF backend or the output directory.
func (c *Converter) Check() (*Result, error) {
	startTime := time.Now()

	result, _, err := c.prepare()
	if err != nil {
		return nil, err
	}

	result.ProcessingTime = time.Since(startTime)
	return result, nil
}

// prepare loads the input and template and renders the HTML.
func (c *Converter) prepare() (*Result, string, error) {
	// =========================================================================
	// STEP 1: LOAD INPUT
	// =========================================================================

	c.logger.Debug("loading input", "path", c.Input)

	data, err := csvparser.Parse(c.Input)
	if err != nil {
		return nil, "", err
	}

	c.logger.Info("loaded items",
		"path", c.Input,
		"items", len(data.Items),
		"total", data.Total.StringFixed(types.MoneyPlaces))

	// =========================================================================
	// STEP 2: LOAD TEMPLATE
	// =========================================================================

	tmpl, err := render.LoadTemplate(c.Template)
	if err != nil {
		return nil, "", err
	}

	c.logger.Debug("loaded template", "path", c.Template)

	// =========================================================================
	// STEP 3: RENDER HTML
	// =========================================================================

	receipt := types.Receipt{
		Items:       data.Items,
		Total:       data.Total,
		GeneratedAt: c.now(),
	}

	html, err := render.RenderReceipt(tmpl, receipt)
	if err != nil {
		return nil, "", err
	}

	result := &Result{
		InputFile:    c.Input,
		TemplateFile: c.Template,
		Items:        receipt.Items,
		Total:        receipt.Total,
		Delimiter:    data.Delimiter,
		GeneratedAt:  receipt.GeneratedAt,
	}

	return result, html, nil
}

func (c *Converter) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
