package statstables_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/statstables"
)

func newTable(t *testing.T, rows ...string) *statstables.Table {
	t.Helper()
	tbl, err := statstables.NewTable(statstables.DefaultFormatSpec(), statstables.Rows(rows...)...)
	require.NoError(t, err)
	return tbl
}

func addColumn(t *testing.T, tbl *statstables.Table, id string, values ...float64) {
	t.Helper()
	require.NoError(t, tbl.AddColumn(statstables.Column{ID: id, Values: statstables.Floats(values...)}))
}

func TestNewTableInvalidDefaults(t *testing.T) {
	t.Parallel()
	_, err := statstables.NewTable(statstables.FormatSpec{Decimals: -1})
	assert.ErrorIs(t, err, statstables.ErrInvalidSpec)
}

func TestAddColumnStructureErrors(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		col   statstables.Column
		setup func(*testing.T, *statstables.Table)
	}{
		"too few values": {
			col: statstables.Column{ID: "x", Values: statstables.Floats(1)},
		},
		"too many values": {
			col: statstables.Column{ID: "x", Values: statstables.Floats(1, 2, 3)},
		},
		"empty id": {
			col: statstables.Column{Values: statstables.Floats(1, 2)},
		},
		"duplicate id": {
			col:   statstables.Column{ID: "x", Values: statstables.Floats(1, 2)},
			setup: func(t *testing.T, tbl *statstables.Table) { addColumn(t, tbl, "x", 1, 2) },
		},
		"p-value length": {
			col: statstables.Column{ID: "x", Values: statstables.Floats(1, 2), PValues: statstables.Floats(0.1)},
		},
		"groups set": {
			col: statstables.Column{ID: "y", Values: statstables.Floats(1, 2)},
			setup: func(t *testing.T, tbl *statstables.Table) {
				addColumn(t, tbl, "x", 1, 2)
				require.NoError(t, tbl.SetGroup(statstables.Group{Label: "G", Span: 1}))
			},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tbl := newTable(t, "a", "b")
			if tt.setup != nil {
				tt.setup(t, tbl)
			}
			before := tbl.NumColumns()
			err := tbl.AddColumn(tt.col)
			assert.ErrorIs(t, err, statstables.ErrStructure)
			assert.Equal(t, before, tbl.NumColumns())
		})
	}
}

func TestAddColumnCopiesValues(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, "a")
	vals := statstables.Floats(1)
	require.NoError(t, tbl.AddColumn(statstables.Column{ID: "x", Values: vals}))
	vals[0] = statstables.Num(99)

	col, ok := tbl.Column("x")
	require.True(t, ok)
	f, _ := col.Values[0].Float()
	assert.InDelta(t, 1.0, f, 0)
}

func TestRemoveColumn(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, "a")
	addColumn(t, tbl, "x", 1)
	addColumn(t, tbl, "y", 2)
	require.NoError(t, tbl.AddLine(statstables.AfterBody, "N", "10", "20"))

	require.NoError(t, tbl.RemoveColumn("x"))
	assert.Equal(t, []string{"y"}, tbl.ColumnIDs())
	assert.ErrorIs(t, tbl.RemoveColumn("x"), statstables.ErrStructure)

	out, err := tbl.Render(statstables.ASCII)
	require.NoError(t, err)
	assert.Contains(t, out, "20")
	assert.NotContains(t, out, "10")
}

func TestRemoveColumnWithGroups(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, "a")
	addColumn(t, tbl, "x", 1)
	addColumn(t, tbl, "y", 2)
	require.NoError(t, tbl.SetGroup(statstables.Group{Label: "G", Span: 2}))
	assert.ErrorIs(t, tbl.RemoveColumn("x"), statstables.ErrStructure)

	tbl.ClearGroups()
	assert.NoError(t, tbl.RemoveColumn("x"))
}

func TestReorderColumns(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, "a")
	addColumn(t, tbl, "x", 1)
	addColumn(t, tbl, "y", 2)
	addColumn(t, tbl, "z", 3)

	require.NoError(t, tbl.ReorderColumns("z", "x", "y"))
	assert.Equal(t, []string{"z", "x", "y"}, tbl.ColumnIDs())

	tests := map[string][]string{
		"too few":   {"x", "y"},
		"unknown":   {"x", "y", "w"},
		"duplicate": {"x", "x", "y"},
	}
	for name, ids := range tests {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, tbl.ReorderColumns(ids...), statstables.ErrStructure)
			assert.Equal(t, []string{"z", "x", "y"}, tbl.ColumnIDs())
		})
	}
}

func TestReorderRows(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, "a", "b", "c")
	require.NoError(t, tbl.AddColumn(statstables.Column{
		ID:      "x",
		Values:  statstables.Floats(1, 2, 3),
		PValues: statstables.Floats(0.5, 0.001, 0.5),
	}))
	addColumn(t, tbl, "y", 4, 5, 6)
	require.NoError(t, tbl.SetRowFormat(0, specWith(func(s *statstables.FormatSpec) { s.Decimals = 0 })))
	require.NoError(t, tbl.SetCellFormat(1, "y", specWith(func(s *statstables.FormatSpec) { s.Decimals = 1 })))

	require.NoError(t, tbl.ReorderRows(2, 0, 1))
	labels := make([]string, tbl.NumRows())
	for i, r := range tbl.Rows() {
		labels[i] = r.Label
	}
	assert.Equal(t, []string{"c", "a", "b"}, labels)

	x, err := tbl.FormatColumn("x")
	require.NoError(t, err)
	assert.Equal(t, []string{"3.000", "1", "2.000***"}, x)
	y, err := tbl.FormatColumn("y")
	require.NoError(t, err)
	assert.Equal(t, []string{"6.000", "4", "5.0"}, y)

	tests := map[string][]int{
		"too few":      {0, 1},
		"out of range": {0, 1, 3},
		"negative":     {0, -1, 2},
		"duplicate":    {0, 0, 1},
	}
	for name, order := range tests {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, tbl.ReorderRows(order...), statstables.ErrStructure)
			got, err := tbl.FormatColumn("y")
			require.NoError(t, err)
			assert.Equal(t, []string{"6.000", "4", "5.0"}, got)
		})
	}
}

func TestFormatColumnSkipsHeadings(t *testing.T) {
	t.Parallel()
	tbl, err := statstables.NewTable(statstables.DefaultFormatSpec(),
		statstables.Heading("Panel A"), statstables.RowSpec{Label: "a"}, statstables.Rule())
	require.NoError(t, err)
	require.NoError(t, tbl.AddColumn(statstables.Column{ID: "x", Values: statstables.Floats(0, 1, 0)}))

	got, err := tbl.FormatColumn("x")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "1.000", ""}, got)
}

func TestAddRow(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, "a")
	addColumn(t, tbl, "x", 1)
	addColumn(t, tbl, "y", 2)

	require.NoError(t, tbl.AddRow(statstables.RowSpec{Label: "b"}, statstables.Num(3), statstables.Num(4)))
	require.NoError(t, tbl.AddRule())
	require.NoError(t, tbl.AddRow(statstables.Heading("Panel B")))
	assert.Equal(t, 4, tbl.NumRows())

	err := tbl.AddRow(statstables.RowSpec{Label: "c"}, statstables.Num(5))
	assert.ErrorIs(t, err, statstables.ErrStructure)
	assert.Equal(t, 4, tbl.NumRows())
}

func TestAddRowExtendsPValues(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, "a")
	require.NoError(t, tbl.AddColumn(statstables.Column{
		ID:      "x",
		Values:  statstables.Floats(1),
		PValues: statstables.Floats(0.001),
	}))
	require.NoError(t, tbl.AddRow(statstables.RowSpec{Label: "b"}, statstables.Num(2)))

	got, err := tbl.FormatColumn("x")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.000***", "2.000"}, got)
}

func TestFormatPrecedence(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, "a", "b", "c")
	addColumn(t, tbl, "x", 1, 2, 3)

	require.NoError(t, tbl.SetFormat("x", statstables.FormatSpec{Decimals: 1}))
	require.NoError(t, tbl.SetRowFormat(1, statstables.FormatSpec{Decimals: 2}))
	require.NoError(t, tbl.SetCellFormat(1, "x", statstables.FormatSpec{Decimals: 4}))
	require.NoError(t, tbl.SetRowFormat(2, statstables.FormatSpec{Decimals: 0}))

	got, err := tbl.FormatColumn("x")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0", "2.0000", "3"}, got)

	require.NoError(t, tbl.ClearFormat("x"))
	got, err = tbl.FormatColumn("x")
	require.NoError(t, err)
	assert.Equal(t, "1.000", got[0])
}

func TestSetFormatIdempotent(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, "a")
	addColumn(t, tbl, "x", 0.25)
	spec := statstables.FormatSpec{Decimals: 1, Percentage: true}

	require.NoError(t, tbl.SetFormat("x", spec))
	once, err := tbl.Render(statstables.HTML)
	require.NoError(t, err)
	require.NoError(t, tbl.SetFormat("x", spec))
	twice, err := tbl.Render(statstables.HTML)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
	assert.Contains(t, once, "25.0%")
}

func TestFormatOverrideErrors(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, "a")
	addColumn(t, tbl, "x", 1)

	assert.ErrorIs(t, tbl.SetFormat("nope", statstables.FormatSpec{}), statstables.ErrStructure)
	assert.ErrorIs(t, tbl.SetFormat("x", statstables.FormatSpec{Decimals: 99}), statstables.ErrInvalidSpec)
	assert.ErrorIs(t, tbl.SetRowFormat(5, statstables.FormatSpec{}), statstables.ErrStructure)
	assert.ErrorIs(t, tbl.SetCellFormat(0, "nope", statstables.FormatSpec{}), statstables.ErrStructure)
	assert.ErrorIs(t, tbl.SetAlign("x", "middle"), statstables.ErrInvalidSpec)
}

func TestRenderFormatError(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, "a")
	require.NoError(t, tbl.AddColumn(statstables.Column{
		ID:     "x",
		Values: []statstables.Value{statstables.Str("abc")},
		Format: &statstables.FormatSpec{Percentage: true},
	}))

	_, err := tbl.Render(statstables.ASCII)
	require.ErrorIs(t, err, statstables.ErrFormat)
	assert.Contains(t, err.Error(), `column "x" row 0`)

	require.NoError(t, tbl.SetFormat("x", statstables.FormatSpec{Percentage: true, Lenient: true, MissingDisplay: "?"}))
	got, err := tbl.FormatColumn("x")
	require.NoError(t, err)
	assert.Equal(t, []string{"?"}, got)
}

func TestGroups(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, "a")
	addColumn(t, tbl, "x", 1)
	addColumn(t, tbl, "y", 2)
	addColumn(t, tbl, "z", 3)

	tests := map[string][]statstables.Group{
		"short":      {{Label: "A", Span: 2}},
		"long":       {{Label: "A", Span: 2}, {Label: "B", Span: 2}},
		"zero span":  {{Label: "A", Span: 0}, {Label: "B", Span: 3}},
		"none given": nil,
	}
	for name, groups := range tests {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, tbl.SetGroup(groups...), statstables.ErrStructure)
		})
	}

	require.NoError(t, tbl.SetGroup(statstables.Group{Label: "A", Span: 2}, statstables.Group{Label: "B", Span: 1}))
	require.NoError(t, tbl.AddGroupLevel(statstables.Group{Label: "All", Span: 3}))
	assert.Equal(t, [][]statstables.Group{
		{{Label: "A", Span: 2}, {Label: "B", Span: 1}},
		{{Label: "All", Span: 3}},
	}, tbl.Groups())
}

func TestRowsAndLabels(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, "a", "b")
	addColumn(t, tbl, "x", 1, 2)

	require.NoError(t, tbl.SetRowLabel(0, "alpha"))
	assert.ErrorIs(t, tbl.SetRowLabel(2, "nope"), statstables.ErrStructure)
	tbl.RenameRows(map[string]string{"b": "beta", "zzz": "ignored"})
	tbl.RenameColumns(map[string]string{"x": "Mean"})

	assert.Equal(t, statstables.Rows("alpha", "beta"), tbl.Rows())
	col, ok := tbl.Column("x")
	require.True(t, ok)
	assert.Equal(t, "Mean", col.DisplayLabel())
	_, ok = tbl.Column("y")
	assert.False(t, ok)
}

func TestNotes(t *testing.T) {
	t.Parallel()
	tbl := newTable(t)
	tbl.AddFootnote("first")
	require.NoError(t, tbl.AddNote(statstables.Note{Text: "second", Align: "right"}))
	assert.ErrorIs(t, tbl.AddNote(statstables.Note{Text: "bad", Align: "up"}), statstables.ErrInvalidSpec)

	assert.Equal(t, []statstables.Note{
		{Text: "first", Align: statstables.AlignLeft},
		{Text: "second", Align: statstables.AlignRight},
	}, tbl.Notes())

	require.NoError(t, tbl.RemoveNote(0))
	assert.Len(t, tbl.Notes(), 1)
	assert.ErrorIs(t, tbl.RemoveNote(3), statstables.ErrStructure)
}

func TestCustomLines(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, "a")
	addColumn(t, tbl, "x", 1)

	assert.ErrorIs(t, tbl.AddLine(statstables.AfterBody, "N", "1", "2"), statstables.ErrStructure)
	assert.ErrorIs(t, tbl.AddLine("middle", "N", "1"), statstables.ErrStructure)
	assert.ErrorIs(t, tbl.AddRawLine("rtf", statstables.AfterBody, "x"), statstables.ErrUnsupportedFormat)
	require.NoError(t, tbl.AddLine(statstables.AfterBody, "N", "100"))

	addColumn(t, tbl, "y", 2)
	out, err := tbl.Render(statstables.ASCII)
	require.NoError(t, err)
	assert.Contains(t, out, "N")

	require.NoError(t, tbl.RemoveLine(statstables.AfterBody, 0))
	assert.ErrorIs(t, tbl.RemoveLine(statstables.AfterBody, 0), statstables.ErrStructure)
}

func TestSetParamsValidates(t *testing.T) {
	t.Parallel()
	tbl := newTable(t)
	p := tbl.Params()
	p.CaptionLocation = "left"
	assert.ErrorIs(t, tbl.SetParams(p), statstables.ErrInvalidSpec)
	assert.Equal(t, statstables.CaptionTop, tbl.Params().CaptionLocation)

	p = tbl.Params()
	p.Padding = -1
	assert.ErrorIs(t, tbl.SetParams(p), statstables.ErrInvalidSpec)
}

func TestDefaultsRoundTrip(t *testing.T) {
	t.Parallel()
	tbl := newTable(t)
	d := tbl.Defaults()
	d.Thresholds[0].Marker = "changed"
	assert.Equal(t, "***", tbl.Defaults().Thresholds[0].Marker)

	require.NoError(t, tbl.SetDefaults(statstables.FormatSpec{Decimals: 1}))
	assert.Equal(t, 1, tbl.Defaults().Decimals)
	assert.Error(t, tbl.SetDefaults(statstables.FormatSpec{Decimals: 40}))
}
