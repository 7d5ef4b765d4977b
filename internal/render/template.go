// =============================================================================
// Receipt PDF - Template Loader
// =============================================================================
//
// This module loads the HTML receipt template from disk, checks that the
// placeholders the receipt needs are present, and compiles it with Go's
// html/template.
//
// REQUIRED PLACEHOLDERS:
//   product, price, qty  - usually inside {{range .items}} ... {{end}}
//   total                - the grand total
//
//   A placeholder counts when a {{ ... }} action mentions the name as a whole
//   word, optionally behind one member path: {{.product}}, {{$item.product}}
//   and {{ .total }} all qualify.
//
// =============================================================================

package render

import (
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"

	"github.com/ginjaninja78/receipt-pdf/internal/apperror"
)

// RequiredPlaceholders lists the bindings every template must reference.
var RequiredPlaceholders = []string{"product", "price", "qty", "total"}

// placeholderPatterns holds one compiled pattern per required name.
var placeholderPatterns = compilePlaceholderPatterns(RequiredPlaceholders)

func compilePlaceholderPatterns(names []string) map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(names))
	for _, name := range names {
		patterns[name] = regexp.MustCompile(`\{\{[^}]*\b(?:\w+\.)?` + regexp.QuoteMeta(name) + `\b[^}]*\}\}`)
	}
	return patterns
}

// Template is a compiled receipt template.
type Template struct {
	tmpl *template.Template

	// Path is the file the template was loaded from.
	Path string
}

// LoadTemplate reads, checks and compiles the template at path.
//
// RETURNS:
//   - The compiled template.
//   - A NotFound error when the file does not exist.
//   - A MissingPlaceholder error naming the first absent placeholder.
//   - The html/template parse error, unchanged, when compilation fails.
func LoadTemplate(path string) (*Template, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperror.Wrap(apperror.NotFound, err, "template not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	return ParseTemplate(filepath.Base(path), string(content), path)
}

// ParseTemplate checks and compiles template text that is already in memory.
func ParseTemplate(name, text, path string) (*Template, error) {
	if err := CheckPlaceholders(text); err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return nil, err
	}

	return &Template{tmpl: tmpl, Path: path}, nil
}

// CheckPlaceholders verifies that text references every required placeholder.
func CheckPlaceholders(text string) error {
	for _, name := range RequiredPlaceholders {
		if !placeholderPatterns[name].MatchString(text) {
			return apperror.New(apperror.MissingPlaceholder,
				"template has no placeholder for '%s'; add it and try again", name)
		}
	}
	return nil
}
