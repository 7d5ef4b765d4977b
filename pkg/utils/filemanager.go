// =============================================================================
// Receipt PDF - File Manager Utility
// =============================================================================
//
// This module provides the file helpers used around the PDF output:
//   - Directory management
//   - Timestamped output file naming
//   - Collision-free paths (an earlier receipt is never overwritten)
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the {timestamp} format used in file names.
const TimestampLayout = "20060102_150405"

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectory creates dir and any missing parents.
func EnsureDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName expands a file name format.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {timestamp} - now as YYYYMMDD_HHMMSS
//               {date}      - now as YYYYMMDD
//               {time}      - now as HHMMSS
//               {uuid}      - a random UUID
//   - now: The time used for the timestamp placeholders.
//   - ext: The extension to enforce, e.g. ".pdf".
//
// EXAMPLE:
//   format: "check_{timestamp}.pdf"
//   output: "check_20261019_143022.pdf"
func GenerateOutputFileName(format string, now time.Time, ext string) string {
	replacer := strings.NewReplacer(
		"{timestamp}", now.Format(TimestampLayout),
		"{date}", now.Format("20060102"),
		"{time}", now.Format("150405"),
		"{uuid}", uuid.NewString(),
	)
	name := replacer.Replace(format)

	if ext != "" && !strings.EqualFold(filepath.Ext(name), ext) {
		name += ext
	}

	return name
}

// UniquePath joins dir and name. If that file already exists a short random
// suffix is inserted before the extension until the path is free.
//
// EXAMPLE:
//   output/check_20261019_143022.pdf exists
//   -> output/check_20261019_143022_1b9d6bcd.pdf
func UniquePath(dir, name string) string {
	path := filepath.Join(dir, name)
	if !FileExists(path) {
		return path
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		candidate := filepath.Join(dir, base+"_"+suffix+ext)
		if !FileExists(candidate) {
			return candidate
		}
	}
}
