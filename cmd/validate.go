// =============================================================================
// Receipt PDF - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It runs every check of a normal
// run (input file, template placeholders, rendering) but does not start the
// browser or write anything. The parsed receipt is printed as YAML.
//
// COMMAND USAGE:
//   receipt validate [-i input.csv] [-t template.html]
//
// OUTPUT:
//   input: data/input.csv
//   template: templates/template.html
//   delimiter: ','
//   items:
//     - row: 2
//       product: Apple
//       price: "1.50"
//       qty: 2
//       line_total: "3.00"
//   total: "3.00"
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/ginjaninja78/receipt-pdf/internal/converter"
	"github.com/ginjaninja78/receipt-pdf/internal/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// summary is the YAML document printed by validate.
type summary struct {
	Input     string        `yaml:"input"`
	Template  string        `yaml:"template"`
	Delimiter string        `yaml:"delimiter,omitempty"`
	Items     []summaryItem `yaml:"items"`
	Total     string        `yaml:"total"`
}

type summaryItem struct {
	Row       int    `yaml:"row"`
	Product   string `yaml:"product"`
	Price     string `yaml:"price"`
	Qty       int64  `yaml:"qty"`
	LineTotal string `yaml:"line_total"`
}

// newValidateCmd creates the 'validate' command.
func newValidateCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the input file and template without creating a PDF",
		Long: `The validate command loads the input file and the template exactly as a
normal run does and reports the same errors, but stops before PDF rendering.
On success the parsed items and total are printed as YAML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runValidate()
		},
	}
}

func (app *cli) runValidate() error {
	conv := converter.New(app.cfg, nil, nil, app.logger)
	conv.Now = now

	result, err := conv.Check()
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(app.stdout)
	enc.SetIndent(2)
	if err := enc.Encode(newSummary(result)); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return enc.Close()
}

func newSummary(result *converter.Result) summary {
	s := summary{
		Input:    result.InputFile,
		Template: result.TemplateFile,
		Items:    make([]summaryItem, len(result.Items)),
		Total:    result.Total.StringFixed(types.MoneyPlaces),
	}
	if result.Delimiter != 0 {
		s.Delimiter = string(result.Delimiter)
	}

	for i, item := range result.Items {
		s.Items[i] = summaryItem{
			Row:       item.RowNumber,
			Product:   item.Product,
			Price:     item.UnitPrice.StringFixed(types.MoneyPlaces),
			Qty:       item.Quantity,
			LineTotal: item.LineTotal.StringFixed(types.MoneyPlaces),
		}
	}

	return s
}
