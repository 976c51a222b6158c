package statstables

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"

	"github.com/xuri/excelize/v2"
)

// CSVOptions controls [ReadCSV].
type CSVOptions struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
	// IndexColumn names the column whose text becomes the row labels.
	IndexColumn string
}

// ReadCSV reads a CSV document with a header row into a Frame. Cells are
// parsed with [ParseValue].
func ReadCSV(r io.Reader, opts CSVOptions) (*Frame, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: csv: %s", ErrInvalidInput, err)
	}
	return frameFromRecords(records, opts.IndexColumn)
}

// XLSXOptions controls [ReadXLSX].
type XLSXOptions struct {
	// Sheet is the worksheet to read. Empty means the first sheet.
	Sheet string
	// IndexColumn names the column whose text becomes the row labels.
	IndexColumn string
}

// ReadXLSX reads one worksheet whose first row holds column names into a
// Frame.
func ReadXLSX(r io.Reader, opts XLSXOptions) (*Frame, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx: %s", ErrInvalidInput, err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx sheet %q: %s", ErrInvalidInput, sheet, err)
	}
	return frameFromRecords(rows, opts.IndexColumn)
}

func frameFromRecords(records [][]string, indexColumn string) (*Frame, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrInvalidInput)
	}
	header := records[0]
	body := records[1:]

	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if h == "" {
			return nil, fmt.Errorf("%w: empty column name", ErrInvalidInput)
		}
		if seen[h] {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrInvalidInput, h)
		}
		seen[h] = true
	}

	ix := -1
	if indexColumn != "" {
		ix = slices.Index(header, indexColumn)
		if ix < 0 {
			return nil, fmt.Errorf("%w: no index column %q", ErrInvalidInput, indexColumn)
		}
	}

	// Spreadsheet rows drop trailing empty cells.
	cell := func(row []string, j int) string {
		if j < len(row) {
			return row[j]
		}
		return ""
	}
	for i, row := range body {
		if len(row) > len(header) {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d", ErrInvalidInput, i+1, len(row), len(header))
		}
	}

	var index []string
	if ix >= 0 {
		index = make([]string, len(body))
		for i, row := range body {
			index[i] = cell(row, ix)
		}
	}
	frame := NewFrame(index...)
	frame.SetIndexName(indexColumn)
	for j, id := range header {
		if j == ix {
			continue
		}
		values := make([]Value, len(body))
		for i, row := range body {
			values[i] = ParseValue(cell(row, j))
		}
		if err := frame.Set(id, values); err != nil {
			return nil, err
		}
	}
	return frame, nil
}
