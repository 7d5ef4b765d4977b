package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ginjaninja78/receipt-pdf/internal/types"
	"github.com/shopspring/decimal"
)

// TimestampLayout formats generated_at as YYYY-MM-DD HH:MM:SS.
const TimestampLayout = "2006-01-02 15:04:05"

// Render binds the receipt into the template and returns the HTML.
//
// Template data:
//
//	items         list of {product, price, qty, line_total}
//	total         grand total with two decimals
//	generated_at  now formatted with TimestampLayout
//
// The clock is passed in so that identical inputs render identical HTML.
func Render(t *Template, items []types.LineItem, total decimal.Decimal, now time.Time) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, templateData(items, total, now)); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

// RenderReceipt is Render for an assembled Receipt.
func RenderReceipt(t *Template, receipt types.Receipt) (string, error) {
	return Render(t, receipt.Items, receipt.Total, receipt.GeneratedAt)
}

func templateData(items []types.LineItem, total decimal.Decimal, now time.Time) map[string]any {
	rows := make([]map[string]any, len(items))
	for i, item := range items {
		rows[i] = map[string]any{
			"product":    item.Product,
			"price":      item.UnitPrice.StringFixed(types.MoneyPlaces),
			"qty":        item.Quantity,
			"line_total": item.LineTotal.StringFixed(types.MoneyPlaces),
		}
	}

	return map[string]any{
		"items":        rows,
		"total":        total.StringFixed(types.MoneyPlaces),
		"generated_at": now.Format(TimestampLayout),
	}
}
