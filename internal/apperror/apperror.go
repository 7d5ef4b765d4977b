// =============================================================================
// Receipt PDF - Error Taxonomy
// =============================================================================
//
// Every failure the receipt pipeline detects on its own is reported as an
// *Error carrying a Kind and a message written for the end user. The CLI
// prints the message on a single line; anything that is not an *Error is
// treated as unexpected.
//
// KINDS:
//   Delimiter          - the CSV delimiter could not be detected
//   NotFound           - the CSV, workbook or template does not exist
//   EmptyFile          - the input has no content
//   MissingColumns     - required header columns are absent
//   EmptyProduct       - a row has no product name
//   Format             - a price or quantity is malformed
//   NoData             - the input has a header but no rows
//   MissingPlaceholder - the template lacks a required binding
//   RenderBackend      - the PDF backend is unavailable or failed
//
// =============================================================================

package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure.
type Kind string

const (
	Delimiter          Kind = "DelimiterError"
	NotFound           Kind = "NotFoundError"
	EmptyFile          Kind = "EmptyFileError"
	MissingColumns     Kind = "MissingColumnsError"
	EmptyProduct       Kind = "EmptyProductError"
	Format             Kind = "FormatError"
	NoData             Kind = "NoDataError"
	MissingPlaceholder Kind = "MissingPlaceholderError"
	RenderBackend      Kind = "RenderBackendError"

	// Unexpected is returned by KindOf for errors outside the taxonomy.
	Unexpected Kind = "UnexpectedError"
)

// Error is a domain failure with a user-facing message.
type Error struct {
	// Kind is the failure category.
	Kind Kind

	// Message is shown to the user verbatim.
	Message string

	// Err is the underlying cause, if any. It is never shown to the user.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an *Error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error that keeps cause for logging.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf reports the Kind of err, or Unexpected when err is not a domain
// failure. KindOf(nil) returns the empty Kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return Unexpected
}

// IsKind reports whether err is a domain failure of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
