// =============================================================================
// Receipt PDF - PDF Writer Module
// =============================================================================
//
// This module turns the rendered receipt HTML into a PDF file in the output
// directory. The conversion itself is delegated to a Backend; the production
// backend drives headless Chrome (see rod.go).
//
// OUTPUT NAMING:
//   <output_dir>/check_<YYYYMMDD_HHMMSS>.pdf
//
//   If a file with that name already exists (two runs within one second), a
//   short random suffix is added. Existing receipts are never overwritten.
//
// ERRORS:
//   Any backend failure is reported as a single RenderBackend error with a
//   remediation hint. The writer never inspects the PDF bytes.
//
// =============================================================================

package pdfwriter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ginjaninja78/receipt-pdf/internal/apperror"
	"github.com/ginjaninja78/receipt-pdf/pkg/utils"
)

// DefaultNameFormat is the output file name format.
const DefaultNameFormat = "check_{timestamp}.pdf"

// backendHint is appended to every RenderBackend error.
const backendHint = "make sure Chrome or Chromium is installed (or set browser.bin in the config) and the template is valid HTML"

// =============================================================================
// BACKEND
// =============================================================================

// Backend converts an HTML document into PDF bytes.
type Backend interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context, html string) ([]byte, error)

// Render calls f.
func (f BackendFunc) Render(ctx context.Context, html string) ([]byte, error) {
	return f(ctx, html)
}

// =============================================================================
// WRITER
// =============================================================================

// Writer stores rendered receipts as PDF files.
type Writer struct {
	// Dir is the destination directory. It is created on demand.
	Dir string

	// NameFormat is expanded by utils.GenerateOutputFileName.
	// Default: DefaultNameFormat
	NameFormat string

	// Backend performs the HTML to PDF conversion.
	Backend Backend

	// Now returns the current time. Tests pin it.
	Now func() time.Time

	logger *slog.Logger
}

// NewWriter creates a Writer for dir using backend.
func NewWriter(dir string, backend Backend, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		Dir:        dir,
		NameFormat: DefaultNameFormat,
		Backend:    backend,
		Now:        time.Now,
		logger:     logger,
	}
}

// Write converts html to PDF and stores it in the output directory.
//
// RETURNS:
//   - The path of the new PDF file.
//   - A RenderBackend error if the backend is unavailable or fails.
//   - A plain error if the directory or file cannot be written.
func (w *Writer) Write(ctx context.Context, html string) (string, error) {
	return w.WriteAt(ctx, html, w.Now())
}

// WriteAt is Write with the file name timestamp taken from now.
func (w *Writer) WriteAt(ctx context.Context, html string, now time.Time) (string, error) {
	if err := utils.EnsureDirectory(w.Dir); err != nil {
		return "", err
	}

	name := utils.GenerateOutputFileName(w.nameFormat(), now, ".pdf")
	path := utils.UniquePath(w.Dir, name)

	w.logger.Debug("rendering PDF", "path", path, "html_bytes", len(html))

	pdf, err := w.Backend.Render(ctx, html)
	if err != nil {
		return "", backendError(err)
	}
	if len(pdf) == 0 {
		return "", apperror.New(apperror.RenderBackend,
			"PDF rendering produced an empty document; %s", backendHint)
	}

	if err := writeNew(path, pdf); err != nil {
		return "", err
	}

	w.logger.Debug("wrote PDF", "path", path, "bytes", len(pdf))
	return path, nil
}

func (w *Writer) nameFormat() string {
	if w.NameFormat == "" {
		return DefaultNameFormat
	}
	return w.NameFormat
}

// backendError wraps err as a RenderBackend error unless it already is one.
func backendError(err error) error {
	if apperror.IsKind(err, apperror.RenderBackend) {
		return err
	}
	return apperror.Wrap(apperror.RenderBackend, err, "PDF rendering failed; %s", backendHint)
}

// writeNew creates path exclusively and writes data to it.
func writeNew(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	_, writeErr := f.Write(data)
	closeErr := f.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
