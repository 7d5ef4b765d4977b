// =============================================================================
// Receipt PDF - Validation Engine
// =============================================================================
//
// This module holds the field-level rules for receipt rows:
//   - Header validation (required columns, case-insensitive)
//   - Product names (trimmed, non-empty)
//   - Prices (dot decimal separator, non-negative, two decimals)
//   - Quantities (non-negative integers written with digits only)
//   - Line totals (price x quantity, rounded half-up)
//
// VALIDATION STRATEGY:
//   Validation is fail-fast. The first violation is returned as an
//   *apperror.Error and the caller stops processing the file. Every function
//   here is pure: the same input always yields the same value or failure.
//
// =============================================================================

package validation

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ginjaninja78/receipt-pdf/internal/apperror"
	"github.com/ginjaninja78/receipt-pdf/internal/types"
	"github.com/shopspring/decimal"
)

// =============================================================================
// REQUIRED COLUMNS
// =============================================================================

// Column names recognised in the header row.
const (
	ColumnProduct = "product"
	ColumnPrice   = "price"
	ColumnQty     = "qty"
)

// RequiredColumns lists the columns every input must provide.
var RequiredColumns = []string{ColumnProduct, ColumnPrice, ColumnQty}

// HeaderIndex maps a normalised column name to its position in a record.
type HeaderIndex map[string]int

// ValidateHeaders checks that headers contain every required column.
//
// PARAMETERS:
//   - headers: The raw header row.
//
// RETURNS:
//   - The index of each normalised column. When a name repeats, the first
//     occurrence wins.
//   - A MissingColumns error naming the absent columns in alphabetical order.
func ValidateHeaders(headers []string) (HeaderIndex, error) {
	index := make(HeaderIndex, len(headers))
	for i, header := range headers {
		name := normalizeHeader(header)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var missing []string
	for _, column := range RequiredColumns {
		if _, ok := index[column]; !ok {
			missing = append(missing, column)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, apperror.New(apperror.MissingColumns,
			"CSV is missing required columns: %s", strings.Join(missing, ", "))
	}

	return index, nil
}

// Field returns the value of column in record, or "" when the record is
// shorter than the header.
func (h HeaderIndex) Field(record []string, column string) string {
	i, ok := h[column]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

// normalizeHeader trims whitespace and lowercases a header cell.
func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

// =============================================================================
// FIELD PARSERS
// =============================================================================

// ParseProduct trims a product name and rejects empty values.
func ParseProduct(raw string) (string, error) {
	product := strings.TrimSpace(raw)
	if product == "" {
		return "", apperror.New(apperror.EmptyProduct, "product name is empty")
	}
	return product, nil
}

// ParsePrice parses a unit price.
//
// RULES:
//   - Whitespace around the value is ignored.
//   - A comma without a dot is an ambiguous decimal separator and is
//     rejected rather than guessed.
//   - Negative prices are rejected.
//   - The result is rounded half-up to two decimals.
func ParsePrice(raw string) (decimal.Decimal, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return decimal.Zero, apperror.New(apperror.Format, "price is missing")
	}

	if strings.Contains(text, ",") && !strings.Contains(text, ".") {
		return decimal.Zero, apperror.New(apperror.Format,
			"price must use '.' as the decimal separator, not ',': %s", text)
	}

	value, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, apperror.Wrap(apperror.Format, err, "invalid price: %s", text)
	}

	if value.IsNegative() {
		return decimal.Zero, apperror.New(apperror.Format, "price cannot be negative: %s", text)
	}

	return value.Round(types.MoneyPlaces), nil
}

// ParseQuantity parses a quantity written with ASCII digits only.
// Signs, fractions and anything non-numeric are rejected.
func ParseQuantity(raw string) (int64, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, apperror.New(apperror.Format, "quantity is missing")
	}

	if !isDigits(text) {
		return 0, apperror.New(apperror.Format,
			"quantity must be a non-negative integer: %s", text)
	}

	qty, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, apperror.Wrap(apperror.Format, err, "quantity is too large: %s", text)
	}

	return qty, nil
}

// isDigits reports whether s consists only of '0'-'9'.
func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// =============================================================================
// LINE TOTALS
// =============================================================================

// LineTotal returns price x qty rounded half-up to two decimals.
func LineTotal(price decimal.Decimal, qty int64) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(qty)).Round(types.MoneyPlaces)
}

// ParseLineItem validates one data row against the header index.
//
// PARAMETERS:
//   - record: The raw fields of the row.
//   - header: The validated header index.
//   - rowNumber: The 1-based row in the source, used in error messages.
func ParseLineItem(record []string, header HeaderIndex, rowNumber int) (types.LineItem, error) {
	product, err := ParseProduct(header.Field(record, ColumnProduct))
	if err != nil {
		return types.LineItem{}, atRow(err, rowNumber)
	}

	price, err := ParsePrice(header.Field(record, ColumnPrice))
	if err != nil {
		return types.LineItem{}, atRow(err, rowNumber)
	}

	qty, err := ParseQuantity(header.Field(record, ColumnQty))
	if err != nil {
		return types.LineItem{}, atRow(err, rowNumber)
	}

	return types.LineItem{
		Product:   product,
		UnitPrice: price,
		Quantity:  qty,
		LineTotal: LineTotal(price, qty),
		RowNumber: rowNumber,
	}, nil
}

// atRow prefixes a domain error message with its source row.
func atRow(err error, rowNumber int) error {
	appErr, ok := apperror.As(err)
	if !ok {
		return err
	}
	return &apperror.Error{
		Kind:    appErr.Kind,
		Message: "row " + strconv.Itoa(rowNumber) + ": " + appErr.Message,
		Err:     appErr.Err,
	}
}
