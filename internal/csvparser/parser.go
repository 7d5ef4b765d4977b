// =============================================================================
// Receipt PDF - CSV Parser Module
// =============================================================================
//
// This module loads the purchased items of a receipt from a CSV file (or an
// .xlsx workbook) and validates every row.
//
// LOADING STEPS (each failure is terminal):
//   1. The file must exist                          -> NotFound
//   2. The trimmed content must not be empty         -> EmptyFile
//   3. The delimiter must be detected (',' or ';')   -> Delimiter
//   4. The header must contain product, price, qty   -> MissingColumns
//   5. Every data row must validate                  -> EmptyProduct / Format
//   6. At least one data row must exist              -> NoData
//
// ORDERING:
//   Items keep the row order of the file. Identical products are neither
//   merged nor deduplicated.
//
// =============================================================================

package csvparser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/receipt-pdf/internal/apperror"
	"github.com/ginjaninja78/receipt-pdf/internal/types"
	"github.com/ginjaninja78/receipt-pdf/internal/validation"
	"github.com/ginjaninja78/receipt-pdf/internal/xlsxparser"
	"github.com/shopspring/decimal"
)

// utf8BOM is stripped from the start of the file before detection.
const utf8BOM = "\ufeff"

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// CSVData represents a loaded and validated input file.
type CSVData struct {
	// Items contains the validated line items in file order.
	Items []types.LineItem

	// Total is the rounded sum of all line totals.
	Total decimal.Decimal

	// Headers contains the raw header row.
	Headers []string

	// Delimiter is the detected field separator. Zero for workbooks.
	Delimiter rune

	// SourceFile is the path the data was read from.
	SourceFile string

	// RowCount is the number of data rows (excluding the header).
	RowCount int
}

// record is a raw row plus its 1-based line number in the source.
type record struct {
	fields []string
	line   int
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the file at filePath and returns its validated items.
// Paths ending in .xlsx are read as workbooks; everything else as CSV.
func Parse(filePath string) (*CSVData, error) {
	if err := checkExists(filePath); err != nil {
		return nil, err
	}

	if xlsxparser.IsWorkbook(filePath) {
		return parseWorkbook(filePath)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	data, err := ParseString(string(content))
	if err != nil {
		return nil, err
	}
	data.SourceFile = filePath

	return data, nil
}

// ParseString validates CSV content that is already in memory.
func ParseString(content string) (*CSVData, error) {
	content = strings.TrimPrefix(content, utf8BOM)
	if strings.TrimSpace(content) == "" {
		return nil, apperror.New(apperror.EmptyFile, "CSV file is empty; add data and try again")
	}

	delimiter, err := DetectDelimiter(content)
	if err != nil {
		return nil, err
	}

	records, err := readRecords(content, delimiter)
	if err != nil {
		return nil, err
	}

	data, err := buildItems(records)
	if err != nil {
		return nil, err
	}
	data.Delimiter = delimiter

	return data, nil
}

// parseWorkbook loads items from the first sheet of an .xlsx file.
func parseWorkbook(filePath string) (*CSVData, error) {
	rows, err := xlsxparser.ReadRecords(filePath, "")
	if err != nil {
		return nil, err
	}

	if !xlsxparser.HasContent(rows) {
		return nil, apperror.New(apperror.EmptyFile, "workbook is empty; add data and try again")
	}

	records := make([]record, 0, len(rows))
	for i, row := range rows {
		// Blank rows are skipped, as blank lines are in CSV.
		if len(row) == 0 {
			continue
		}
		records = append(records, record{fields: row, line: i + 1})
	}

	data, err := buildItems(records)
	if err != nil {
		return nil, err
	}
	data.SourceFile = filePath

	return data, nil
}

// checkExists maps a missing input to a NotFound error.
func checkExists(filePath string) error {
	info, err := os.Stat(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return apperror.Wrap(apperror.NotFound, err, "input file not found: %s", filePath)
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", filePath, err)
	}
	if info.IsDir() {
		return apperror.New(apperror.NotFound, "input file not found: %s is a directory", filePath)
	}
	return nil
}

// readRecords splits content into records, keeping line numbers for error
// reporting. Blank lines are skipped by the csv reader.
func readRecords(content string, delimiter rune) ([]record, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = delimiter

	// Rows may be shorter or longer than the header; short rows fail field
	// validation instead of failing the whole read.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []record
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperror.Wrap(apperror.Format, err, "malformed CSV: %v", err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record{fields: fields, line: line})
	}

	return records, nil
}

// buildItems validates the header and data rows and accumulates the total.
//
// The total is summed without intermediate rounding and rounded once at the
// end; each line total is already rounded to two decimals.
func buildItems(records []record) (*CSVData, error) {
	if len(records) == 0 {
		return nil, apperror.New(apperror.EmptyFile, "CSV file has no header row")
	}

	header, err := validation.ValidateHeaders(records[0].fields)
	if err != nil {
		return nil, err
	}

	items := make([]types.LineItem, 0, len(records)-1)
	for _, rec := range records[1:] {
		item, err := validation.ParseLineItem(rec.fields, header, rec.line)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, apperror.New(apperror.NoData, "CSV has no data rows after the header")
	}

	return &CSVData{
		Items:    items,
		Total:    types.SumLineTotals(items),
		Headers:  records[0].fields,
		RowCount: len(items),
	}, nil
}
