package pdfwriter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ginjaninja78/receipt-pdf/internal/apperror"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultRenderTimeout bounds one browser launch plus render.
const DefaultRenderTimeout = 60 * time.Second

// RodBackend renders HTML to PDF with a headless Chrome driven by go-rod.
// A fresh browser is launched for each Render call and torn down afterwards.
type RodBackend struct {
	// BrowserBin is the Chrome/Chromium executable. Empty looks it up on
	// the system.
	BrowserBin string

	// NoSandbox disables the Chrome sandbox, needed when running as root
	// inside containers.
	NoSandbox bool

	// Timeout bounds the whole render. Zero uses DefaultRenderTimeout.
	Timeout time.Duration

	Logger *slog.Logger
}

// Render implements Backend.
func (b *RodBackend) Render(ctx context.Context, html string) ([]byte, error) {
	bin, err := b.browserBin()
	if err != nil {
		return nil, err
	}

	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	b.logger().Debug("launching browser", "bin", bin, "timeout", timeout)

	l := launcher.New().
		Context(ctx).
		Bin(bin).
		Headless(true).
		NoSandbox(b.NoSandbox)

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	// Cleanup waits for the browser process to exit, so it is only
	// deferred once the launch has succeeded.
	defer l.Cleanup()
	defer l.Kill()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}

	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("load HTML: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for page load: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{PrintBackground: true})
	if err != nil {
		return nil, fmt.Errorf("print to PDF: %w", err)
	}

	pdf, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read PDF stream: %w", err)
	}

	return pdf, nil
}

// browserBin resolves the browser executable.
func (b *RodBackend) browserBin() (string, error) {
	if b.BrowserBin != "" {
		return b.BrowserBin, nil
	}
	if path, ok := launcher.LookPath(); ok {
		return path, nil
	}
	return "", apperror.New(apperror.RenderBackend,
		"no Chrome or Chromium browser found for PDF rendering; %s", backendHint)
}

func (b *RodBackend) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}
