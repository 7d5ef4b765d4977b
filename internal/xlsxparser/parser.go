// =============================================================================
// Receipt PDF - Workbook Parser Module
// =============================================================================
//
// This module reads receipt items from Excel workbooks. Spreadsheet exports
// are common for shopping lists, so the loader accepts an .xlsx file wherever
// a CSV is accepted. Rows are returned as plain string records and validated
// by the same rules as CSV rows.
//
// SHEET SELECTION:
//   The first sheet of the workbook is used unless a sheet name is given.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Extension is the file extension handled by this package.
const Extension = ".xlsx"

// IsWorkbook reports whether path names an .xlsx workbook.
func IsWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Extension)
}

// ReadRecords returns every row of a worksheet as string records.
//
// PARAMETERS:
//   - path: The path to the .xlsx file.
//   - sheet: The worksheet name. Empty selects the first sheet.
//
// RETURNS:
//   - The rows in sheet order. Trailing empty cells are not included, which
//     matches how excelize reports rows.
//   - An error if the workbook cannot be opened or the sheet does not exist.
func ReadRecords(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	return rows, nil
}

// HasContent reports whether any cell in records holds a non-blank value.
func HasContent(records [][]string) bool {
	for _, row := range records {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return true
			}
		}
	}
	return false
}
