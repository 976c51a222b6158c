// Package statstables renders tables of statistical results as LaTeX, HTML,
// and plain text.
//
// A [Table] holds raw cell values, one [Column] at a time, plus row specs,
// column groups, notes and custom lines. Formatting is deferred until
// rendering, so the same table can be emitted in every syntax:
//
//	t, _ := statstables.NewTable(statstables.DefaultFormatSpec(), statstables.Rows("a", "b")...)
//	_ = t.AddColumn(statstables.Column{ID: "x", Values: statstables.Floats(1000.456, math.NaN())})
//	statstables.Write(os.Stdout, statstables.LaTeX, t)
//
// # Cell Formatting
//
// A [FormatSpec] turns a [Value] into display text: fixed decimals with
// round-half-to-even, optional digit grouping (or locale-aware grouping
// through golang.org/x/text), percentages, a missing-value placeholder, and
// significance markers chosen from p-values by [Threshold] cutoffs.
//
// The spec used for a cell is the most specific one set:
//
//   - [Table.SetCellFormat]: one cell
//   - [Table.SetRowFormat]: one row
//   - [Table.SetFormat]: one column
//   - the table defaults passed to [NewTable]
//
// # Building Tables
//
// Use [FromFrame] to build a table from any [Columnar] source, such as a
// [Frame] read with [ReadCSV] or [ReadXLSX]. [ModelTable] lays out
// regression estimates side by side.
//
// Structural mutations validate first and wrap [ErrStructure] on failure;
// the table is unchanged when they fail.
//
// # Rendering
//
// [Table.Render] walks the table in a fixed order (title, column groups,
// column labels, body rows, footnotes) for every syntax. [Params] controls
// caption placement, the index column, alignment, and ASCII rule
// characters.
//
// # Configuration
//
// [LoadConfig] reads a YAML [Config] that [Table.Apply] applies in one step.
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrStructure]: inconsistent table shape
//   - [ErrFormat]: a cell value cannot be formatted as requested
//   - [ErrUnsupportedFormat]: unknown output syntax
//   - [ErrInvalidSpec]: out-of-range format spec, params or config
//   - [ErrInvalidInput]: malformed CSV, XLSX or model input
package statstables
