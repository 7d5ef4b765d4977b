package converter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ginjaninja78/receipt-pdf/internal/apperror"
	"github.com/ginjaninja78/receipt-pdf/internal/config"
	"github.com/ginjaninja78/receipt-pdf/internal/pdfwriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bundledTemplate = "../../templates/template.html"

var fixedNow = time.Date(2026, 10, 19, 14, 30, 22, 0, time.Local)

type fakeBackend struct {
	html  string
	calls int
	err   error
}

func (f *fakeBackend) Render(_ context.Context, html string) ([]byte, error) {
	f.calls++
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7 fake"), nil
}

type fakeOpener struct {
	paths []string
	err   error
}

func (f *fakeOpener) Open(_ context.Context, path string) error {
	f.paths = append(f.paths, path)
	return f.err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestConverter(t *testing.T, csv string, backend pdfwriter.Backend, open *fakeOpener) *Converter {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		Input:     writeFile(t, dir, "input.csv", csv),
		Template:  bundledTemplate,
		OutputDir: filepath.Join(dir, "output"),
		Open:      open != nil,
	}

	c := New(cfg, backend, nil, nil)
	if open != nil {
		c.Opener = open
	}
	c.Now = func() time.Time { return fixedNow }
	return c
}

func TestRun(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestConverter(t, "product,price,qty\nApple,1.50,2\nBread,0.99,3\n", backend, nil)

	result, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(c.Writer.Dir, "check_20261019_143022.pdf"), result.OutputFile)
	assert.FileExists(t, result.OutputFile)
	assert.Equal(t, "5.97", result.Total.StringFixed(2))
	assert.Len(t, result.Items, 2)
	assert.Equal(t, ',', result.Delimiter)
	assert.False(t, result.Opened)

	assert.Equal(t, 1, backend.calls)
	assert.Contains(t, backend.html, "Apple")
	assert.Contains(t, backend.html, "2.97")
	assert.Contains(t, backend.html, "5.97")
	assert.Contains(t, backend.html, "2026-10-19 14:30:22")
}

func TestRunSemicolonInput(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestConverter(t, "product;price;qty\nApple;1.50;2\n", backend, nil)

	result, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ';', result.Delimiter)
	assert.Equal(t, "3.00", result.Total.StringFixed(2))
	assert.Contains(t, backend.html, "3.00")
}

func TestRunOpensPDF(t *testing.T) {
	open := &fakeOpener{}
	c := newTestConverter(t, "product,price,qty\nApple,1.50,2\n", &fakeBackend{}, open)

	result, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Opened)
	assert.Equal(t, []string{result.OutputFile}, open.paths)
}

func TestRunOpenFailureIsNotFatal(t *testing.T) {
	open := &fakeOpener{err: errors.New("xdg-open: not found")}
	c := newTestConverter(t, "product,price,qty\nApple,1.50,2\n", &fakeBackend{}, open)

	result, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Opened)
	assert.FileExists(t, result.OutputFile)
}

func TestRunOpenDisabled(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Input:     writeFile(t, dir, "input.csv", "product,price,qty\nApple,1.50,2\n"),
		Template:  bundledTemplate,
		OutputDir: filepath.Join(dir, "output"),
	}

	c := New(cfg, &fakeBackend{}, &fakeOpener{}, nil)
	assert.Nil(t, c.Opener)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	tests := []struct {
		name     string
		csv      string
		template string
		wantKind apperror.Kind
	}{
		{
			name:     "invalid price",
			csv:      "product,price,qty\nApple,abc,2\n",
			wantKind: apperror.Format,
		},
		{
			name:     "header only",
			csv:      "product,price,qty\n",
			wantKind: apperror.NoData,
		},
		{
			name:     "template without total",
			csv:      "product,price,qty\nApple,1.50,2\n",
			template: "{{ range .items }}{{ .product }} {{ .price }} {{ .qty }}{{ end }}",
			wantKind: apperror.MissingPlaceholder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{}
			c := newTestConverter(t, tt.csv, backend, nil)
			if tt.template != "" {
				c.Template = writeFile(t, t.TempDir(), "template.html", tt.template)
			}

			result, err := c.Run(context.Background())
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.wantKind, apperror.KindOf(err))

			assert.Zero(t, backend.calls)
			assert.NoDirExists(t, c.Writer.Dir)
		})
	}
}

func TestRunMissingInput(t *testing.T) {
	c := newTestConverter(t, "product,price,qty\nApple,1.50,2\n", &fakeBackend{}, nil)
	c.Input = filepath.Join(t.TempDir(), "missing.csv")

	_, err := c.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperror.NotFound, apperror.KindOf(err))
}

func TestRunBackendFailure(t *testing.T) {
	backend := &fakeBackend{err: errors.New("chrome crashed")}
	c := newTestConverter(t, "product,price,qty\nApple,1.50,2\n", backend, nil)

	_, err := c.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperror.RenderBackend, apperror.KindOf(err))

	entries, readErr := os.ReadDir(c.Writer.Dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestCheck(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestConverter(t, "product,price,qty\nApple,1.50,2\nBread,0.99,3\n", backend, nil)

	result, err := c.Check()
	require.NoError(t, err)

	assert.Empty(t, result.OutputFile)
	assert.Equal(t, "5.97", result.Total.StringFixed(2))
	assert.Equal(t, fixedNow, result.GeneratedAt)
	assert.Zero(t, backend.calls)
	assert.NoDirExists(t, c.Writer.Dir)
}
