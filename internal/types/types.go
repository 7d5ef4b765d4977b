// =============================================================================
// Receipt PDF - Shared Types
// =============================================================================
//
// This package contains the receipt data model shared by the loaders, the
// renderer and the converter pipeline. Keeping it separate avoids import
// cycles between:
//   - csvparser
//   - validation
//   - render
//   - converter
//
// =============================================================================

package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of fractional digits kept for every amount.
const MoneyPlaces = 2

// =============================================================================
// LINE ITEM
// =============================================================================

// LineItem represents one purchased product on the receipt.
type LineItem struct {
	// Product is the trimmed, non-empty product name.
	Product string

	// UnitPrice is the non-negative price rounded to two decimals.
	UnitPrice decimal.Decimal

	// Quantity is the non-negative number of units.
	Quantity int64

	// LineTotal is UnitPrice x Quantity rounded half-up to two decimals.
	LineTotal decimal.Decimal

	// RowNumber is the 1-based row in the source file.
	// Useful for error reporting.
	RowNumber int
}

// =============================================================================
// RECEIPT
// =============================================================================

// Receipt is the full document handed to the renderer.
type Receipt struct {
	// Items preserves the source row order.
	Items []LineItem

	// Total is the sum of all line totals rounded half-up to two decimals.
	Total decimal.Decimal

	// GeneratedAt is the render timestamp.
	GeneratedAt time.Time
}

// SumLineTotals adds the line totals of items and rounds the result once.
func SumLineTotals(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal)
	}
	return total.Round(MoneyPlaces)
}
