package statstables

import (
	"fmt"
	"slices"
)

// Column is one table column: raw values plus how to label and format them.
type Column struct {
	ID     string
	Label  string
	Values []Value

	// PValues, when non-empty, holds one p-value per row; significance
	// markers are appended to the formatted values.
	PValues []Value

	// Format overrides the table default for this column.
	Format *FormatSpec

	// Align overrides Params.ColumnAlign for this column.
	Align Alignment
}

// DisplayLabel returns Label, or ID when Label is empty.
func (c Column) DisplayLabel() string {
	if c.Label != "" {
		return c.Label
	}
	return c.ID
}

func (c Column) clone() Column {
	c.Values = slices.Clone(c.Values)
	c.PValues = slices.Clone(c.PValues)
	if c.Format != nil {
		f := c.Format.clone()
		c.Format = &f
	}
	return c
}

func (s FormatSpec) clone() FormatSpec {
	s.Thresholds = slices.Clone(s.Thresholds)
	return s
}

// RowSpec describes one row. A separator row renders as a rule line and
// its values are ignored; a header row renders its label as a sub-heading
// across the table.
type RowSpec struct {
	Label       string
	IsHeader    bool
	IsSeparator bool
}

// Rows returns a plain RowSpec for each label.
func Rows(labels ...string) []RowSpec {
	out := make([]RowSpec, len(labels))
	for i, l := range labels {
		out[i] = RowSpec{Label: l}
	}
	return out
}

// Rule returns a separator RowSpec.
func Rule() RowSpec { return RowSpec{IsSeparator: true} }

// Heading returns a header RowSpec.
func Heading(label string) RowSpec { return RowSpec{Label: label, IsHeader: true} }

// Group labels a run of adjacent columns in a header row above the column
// labels.
type Group struct {
	Label string `yaml:"label"`
	Span  int    `yaml:"span"`
}

// Note is a line of text rendered below the table.
type Note struct {
	Text  string
	Align Alignment
	// Raw notes skip syntax escaping, for text that already contains
	// markup.
	Raw bool
}

// LineLocation names a place where custom lines can be inserted.
type LineLocation string

const (
	AfterGroups  LineLocation = "after-multicolumns"
	AfterColumns LineLocation = "after-columns"
	AfterBody    LineLocation = "after-body"
	AfterFooter  LineLocation = "after-footer"
)

var lineLocations = []LineLocation{AfterGroups, AfterColumns, AfterBody, AfterFooter}

// Line is a custom row of display strings, one per column, rendered
// verbatim (escaped per syntax) at a LineLocation.
type Line struct {
	Label string
	Cells []string
}

type cellKey struct {
	row int
	col string
}

// Table is the renderer-agnostic model of one table.
//
// Every structural mutation validates before changing anything, so a Table
// is never observed in an inconsistent state. Rendering does not mutate the
// Table; concurrent renders are safe as long as callers do not mutate it at
// the same time. Table does no locking of its own.
type Table struct {
	defaults  FormatSpec
	params    Params
	title     string
	label     string
	indexName string

	rows        []RowSpec
	columns     []Column
	rowFormats  map[int]FormatSpec
	cellFormats map[cellKey]FormatSpec

	groups [][]Group
	notes  []Note
	lines  map[LineLocation][]Line
	raw    map[Format]map[LineLocation][]string
}

// NewTable returns an empty table with the given rows. defaults is the
// format applied to every cell without a more specific override.
func NewTable(defaults FormatSpec, rows ...RowSpec) (*Table, error) {
	if err := defaults.Validate(); err != nil {
		return nil, err
	}
	return &Table{
		defaults:    defaults.clone(),
		params:      DefaultParams(),
		rows:        slices.Clone(rows),
		rowFormats:  make(map[int]FormatSpec),
		cellFormats: make(map[cellKey]FormatSpec),
		lines:       make(map[LineLocation][]Line),
		raw:         make(map[Format]map[LineLocation][]string),
	}, nil
}

// NumRows returns the number of rows, separators included.
func (t *Table) NumRows() int { return len(t.rows) }

// NumColumns returns the number of columns, excluding the index.
func (t *Table) NumColumns() int { return len(t.columns) }

// Rows returns a copy of the row specs.
func (t *Table) Rows() []RowSpec { return slices.Clone(t.rows) }

// ColumnIDs returns the column ids in display order.
func (t *Table) ColumnIDs() []string {
	ids := make([]string, len(t.columns))
	for i, c := range t.columns {
		ids[i] = c.ID
	}
	return ids
}

// Column returns a copy of the column with the given id.
func (t *Table) Column(id string) (Column, bool) {
	i := t.columnIndex(id)
	if i < 0 {
		return Column{}, false
	}
	return t.columns[i].clone(), true
}

func (t *Table) columnIndex(id string) int {
	return slices.IndexFunc(t.columns, func(c Column) bool { return c.ID == id })
}

// Defaults returns the table default format.
func (t *Table) Defaults() FormatSpec { return t.defaults.clone() }

// SetDefaults replaces the table default format.
func (t *Table) SetDefaults(spec FormatSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	t.defaults = spec.clone()
	return nil
}

// Params returns the presentation parameters.
func (t *Table) Params() Params {
	p := t.params
	p.LaTeXEscapes = slices.Clone(p.LaTeXEscapes)
	return p
}

// SetParams replaces the presentation parameters.
func (t *Table) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.LaTeXEscapes = slices.Clone(p.LaTeXEscapes)
	t.params = p
	return nil
}

// Title returns the table title (the LaTeX caption).
func (t *Table) Title() string { return t.title }

// SetTitle sets the table title.
func (t *Table) SetTitle(title string) { t.title = title }

// Label returns the cross-reference label.
func (t *Table) Label() string { return t.label }

// SetLabel sets the cross-reference label used by LaTeX \label.
func (t *Table) SetLabel(label string) { t.label = label }

// IndexName returns the header text above the row labels.
func (t *Table) IndexName() string { return t.indexName }

// SetIndexName sets the header text above the row labels.
func (t *Table) SetIndexName(name string) { t.indexName = name }

// --- Columns ---

// AddColumn appends c. It fails with ErrStructure when the value count does
// not match the row count, the id is empty or taken, or column groups are
// set (the spans would no longer cover every column).
func (t *Table) AddColumn(c Column) error {
	if c.ID == "" {
		return fmt.Errorf("%w: column id is empty", ErrStructure)
	}
	if t.columnIndex(c.ID) >= 0 {
		return fmt.Errorf("%w: duplicate column %q", ErrStructure, c.ID)
	}
	if len(c.Values) != len(t.rows) {
		return fmt.Errorf("%w: column %q has %d values, table has %d rows", ErrStructure, c.ID, len(c.Values), len(t.rows))
	}
	if len(c.PValues) != 0 && len(c.PValues) != len(t.rows) {
		return fmt.Errorf("%w: column %q has %d p-values, table has %d rows", ErrStructure, c.ID, len(c.PValues), len(t.rows))
	}
	if len(t.groups) > 0 {
		return fmt.Errorf("%w: cannot add column %q while column groups are set", ErrStructure, c.ID)
	}
	if c.Format != nil {
		if err := c.Format.Validate(); err != nil {
			return err
		}
	}
	align, err := ParseAlignment(string(c.Align))
	if err != nil {
		return err
	}
	c = c.clone()
	c.Align = align
	t.columns = append(t.columns, c)
	for loc, lines := range t.lines {
		for i := range lines {
			t.lines[loc][i].Cells = append(lines[i].Cells, "")
		}
	}
	return nil
}

// RemoveColumn deletes the column with the given id.
func (t *Table) RemoveColumn(id string) error {
	i := t.columnIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: no column %q", ErrStructure, id)
	}
	if len(t.groups) > 0 {
		return fmt.Errorf("%w: cannot remove column %q while column groups are set", ErrStructure, id)
	}
	t.columns = slices.Delete(t.columns, i, i+1)
	for k := range t.cellFormats {
		if k.col == id {
			delete(t.cellFormats, k)
		}
	}
	for loc, lines := range t.lines {
		for j := range lines {
			t.lines[loc][j].Cells = slices.Delete(lines[j].Cells, i, i+1)
		}
	}
	return nil
}

// ReorderColumns puts the columns in the given order. ids must name every
// column exactly once. Column groups are positional and stay in place.
func (t *Table) ReorderColumns(ids ...string) error {
	if len(ids) != len(t.columns) {
		return fmt.Errorf("%w: reorder needs %d ids, got %d", ErrStructure, len(t.columns), len(ids))
	}
	next := make([]Column, 0, len(ids))
	perm := make([]int, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		i := t.columnIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: no column %q", ErrStructure, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: column %q listed twice", ErrStructure, id)
		}
		seen[id] = true
		next = append(next, t.columns[i])
		perm = append(perm, i)
	}
	t.columns = next
	for loc, lines := range t.lines {
		for j, line := range lines {
			cells := make([]string, len(perm))
			for k, from := range perm {
				cells[k] = line.Cells[from]
			}
			t.lines[loc][j].Cells = cells
		}
	}
	return nil
}

// RenameColumns sets display labels by column id. Unknown ids are ignored.
func (t *Table) RenameColumns(labels map[string]string) {
	for i, c := range t.columns {
		if l, ok := labels[c.ID]; ok {
			t.columns[i].Label = l
		}
	}
}

// SetFormat overrides the format of one column. Setting the same spec twice
// is the same as setting it once.
func (t *Table) SetFormat(id string, spec FormatSpec) error {
	i := t.columnIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: no column %q", ErrStructure, id)
	}
	if err := spec.Validate(); err != nil {
		return err
	}
	s := spec.clone()
	t.columns[i].Format = &s
	return nil
}

// ClearFormat removes a column format override.
func (t *Table) ClearFormat(id string) error {
	i := t.columnIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: no column %q", ErrStructure, id)
	}
	t.columns[i].Format = nil
	return nil
}

// SetAlign overrides the alignment of one column.
func (t *Table) SetAlign(id string, a Alignment) error {
	i := t.columnIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: no column %q", ErrStructure, id)
	}
	a, err := ParseAlignment(string(a))
	if err != nil {
		return err
	}
	t.columns[i].Align = a
	return nil
}

// --- Rows ---

// AddRow appends a row with one value per column. Separator and header rows
// may omit their values.
func (t *Table) AddRow(r RowSpec, values ...Value) error {
	if (r.IsSeparator || r.IsHeader) && len(values) == 0 {
		values = make([]Value, len(t.columns))
	}
	if len(values) != len(t.columns) {
		return fmt.Errorf("%w: row %q has %d values, table has %d columns", ErrStructure, r.Label, len(values), len(t.columns))
	}
	for i := range t.columns {
		t.columns[i].Values = append(t.columns[i].Values, values[i])
		if len(t.columns[i].PValues) > 0 {
			t.columns[i].PValues = append(t.columns[i].PValues, Missing())
		}
	}
	t.rows = append(t.rows, r)
	return nil
}

// AddRule appends a separator row.
func (t *Table) AddRule() error {
	return t.AddRow(Rule())
}

// SetRowLabel replaces the label of row i.
func (t *Table) SetRowLabel(i int, label string) error {
	if i < 0 || i >= len(t.rows) {
		return fmt.Errorf("%w: no row %d", ErrStructure, i)
	}
	t.rows[i].Label = label
	return nil
}

// RenameRows replaces row labels by current label. Unknown labels are
// ignored.
func (t *Table) RenameRows(labels map[string]string) {
	for i, r := range t.rows {
		if l, ok := labels[r.Label]; ok {
			t.rows[i].Label = l
		}
	}
}

// ReorderRows puts the rows in the given order: order[i] is the current
// index of the row that moves to position i. order must be a permutation of
// the row indices. Row and cell format overrides move with their rows.
func (t *Table) ReorderRows(order ...int) error {
	if len(order) != len(t.rows) {
		return fmt.Errorf("%w: reorder needs %d rows, got %d", ErrStructure, len(t.rows), len(order))
	}
	dest := make([]int, len(order))
	for i := range dest {
		dest[i] = -1
	}
	for to, from := range order {
		if from < 0 || from >= len(t.rows) {
			return fmt.Errorf("%w: no row %d", ErrStructure, from)
		}
		if dest[from] >= 0 {
			return fmt.Errorf("%w: row %d listed twice", ErrStructure, from)
		}
		dest[from] = to
	}

	rows := make([]RowSpec, len(order))
	for to, from := range order {
		rows[to] = t.rows[from]
	}
	t.rows = rows
	for i, c := range t.columns {
		t.columns[i].Values = permute(c.Values, order)
		if len(c.PValues) > 0 {
			t.columns[i].PValues = permute(c.PValues, order)
		}
	}

	rowFormats := make(map[int]FormatSpec, len(t.rowFormats))
	for from, spec := range t.rowFormats {
		rowFormats[dest[from]] = spec
	}
	t.rowFormats = rowFormats
	cellFormats := make(map[cellKey]FormatSpec, len(t.cellFormats))
	for k, spec := range t.cellFormats {
		cellFormats[cellKey{row: dest[k.row], col: k.col}] = spec
	}
	t.cellFormats = cellFormats
	return nil
}

func permute(values []Value, order []int) []Value {
	out := make([]Value, len(order))
	for to, from := range order {
		out[to] = values[from]
	}
	return out
}

// SetRowFormat overrides the format of every cell in row i. A row override
// wins over a column override.
func (t *Table) SetRowFormat(i int, spec FormatSpec) error {
	if i < 0 || i >= len(t.rows) {
		return fmt.Errorf("%w: no row %d", ErrStructure, i)
	}
	if err := spec.Validate(); err != nil {
		return err
	}
	t.rowFormats[i] = spec.clone()
	return nil
}

// SetCellFormat overrides the format of a single cell. It wins over row and
// column overrides.
func (t *Table) SetCellFormat(row int, id string, spec FormatSpec) error {
	if row < 0 || row >= len(t.rows) {
		return fmt.Errorf("%w: no row %d", ErrStructure, row)
	}
	if t.columnIndex(id) < 0 {
		return fmt.Errorf("%w: no column %q", ErrStructure, id)
	}
	if err := spec.Validate(); err != nil {
		return err
	}
	t.cellFormats[cellKey{row: row, col: id}] = spec.clone()
	return nil
}

// --- Groups ---

// SetGroup replaces all column groups with a single level. The spans must
// add up to the number of columns.
func (t *Table) SetGroup(groups ...Group) error {
	if err := checkSpans(groups, len(t.columns)); err != nil {
		return err
	}
	t.groups = [][]Group{slices.Clone(groups)}
	return nil
}

// AddGroupLevel adds a level of column groups below the existing ones.
func (t *Table) AddGroupLevel(groups ...Group) error {
	if err := checkSpans(groups, len(t.columns)); err != nil {
		return err
	}
	t.groups = append(t.groups, slices.Clone(groups))
	return nil
}

// ClearGroups removes every column group level.
func (t *Table) ClearGroups() { t.groups = nil }

// Groups returns a copy of the column group levels, outermost first.
func (t *Table) Groups() [][]Group {
	out := make([][]Group, len(t.groups))
	for i, lvl := range t.groups {
		out[i] = slices.Clone(lvl)
	}
	return out
}

func checkSpans(groups []Group, n int) error {
	if len(groups) == 0 {
		return fmt.Errorf("%w: no groups given", ErrStructure)
	}
	sum := 0
	for _, g := range groups {
		if g.Span < 1 {
			return fmt.Errorf("%w: group %q has span %d", ErrStructure, g.Label, g.Span)
		}
		sum += g.Span
	}
	if sum != n {
		return fmt.Errorf("%w: group spans cover %d columns, table has %d", ErrStructure, sum, n)
	}
	return nil
}

// --- Notes ---

// AddFootnote appends a left-aligned note.
func (t *Table) AddFootnote(text string) {
	t.notes = append(t.notes, Note{Text: text, Align: AlignLeft})
}

// AddNote appends a note.
func (t *Table) AddNote(n Note) error {
	a, err := ParseAlignment(string(n.Align))
	if err != nil {
		return err
	}
	n.Align = a.or(AlignLeft)
	t.notes = append(t.notes, n)
	return nil
}

// RemoveNote deletes the note at index i.
func (t *Table) RemoveNote(i int) error {
	if i < 0 || i >= len(t.notes) {
		return fmt.Errorf("%w: no note %d", ErrStructure, i)
	}
	t.notes = slices.Delete(t.notes, i, i+1)
	return nil
}

// Notes returns a copy of the notes.
func (t *Table) Notes() []Note { return slices.Clone(t.notes) }

// --- Custom lines ---

// AddLine inserts a row of preformatted cells at loc. It must have one cell
// per column.
func (t *Table) AddLine(loc LineLocation, label string, cells ...string) error {
	if !slices.Contains(lineLocations, loc) {
		return fmt.Errorf("%w: line location %q", ErrStructure, loc)
	}
	if len(cells) != len(t.columns) {
		return fmt.Errorf("%w: line has %d cells, table has %d columns", ErrStructure, len(cells), len(t.columns))
	}
	t.lines[loc] = append(t.lines[loc], Line{Label: label, Cells: slices.Clone(cells)})
	return nil
}

// RemoveLine deletes the i-th custom line at loc.
func (t *Table) RemoveLine(loc LineLocation, i int) error {
	lines := t.lines[loc]
	if i < 0 || i >= len(lines) {
		return fmt.Errorf("%w: no line %d at %q", ErrStructure, i, loc)
	}
	t.lines[loc] = slices.Delete(lines, i, i+1)
	return nil
}

// AddRawLine inserts text that only the renderer for f emits, unescaped,
// at loc. It is meant for syntax-specific markup such as \cmidrule.
func (t *Table) AddRawLine(f Format, loc LineLocation, text string) error {
	if !slices.Contains(formats, f) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if !slices.Contains(lineLocations, loc) {
		return fmt.Errorf("%w: line location %q", ErrStructure, loc)
	}
	if t.raw[f] == nil {
		t.raw[f] = make(map[LineLocation][]string)
	}
	t.raw[f][loc] = append(t.raw[f][loc], text)
	return nil
}

// --- Formatting ---

func (t *Table) specFor(row int, col Column) FormatSpec {
	if s, ok := t.cellFormats[cellKey{row: row, col: col.ID}]; ok {
		return s
	}
	if s, ok := t.rowFormats[row]; ok {
		return s
	}
	if col.Format != nil {
		return *col.Format
	}
	return t.defaults
}

func (t *Table) cell(row int, col Column) (string, error) {
	spec := t.specFor(row, col)
	var (
		s   string
		err error
	)
	if len(col.PValues) > 0 {
		s, err = FormatCellP(col.Values[row], col.PValues[row], spec)
	} else {
		s, err = FormatCell(col.Values[row], spec)
	}
	if err != nil {
		if spec.Lenient {
			return spec.MissingDisplay, nil
		}
		return "", fmt.Errorf("column %q row %d: %w", col.ID, row, err)
	}
	return s, nil
}

// FormatColumn returns the display text of every cell in a column, using
// the same overrides as rendering. Separator and header rows yield "".
func (t *Table) FormatColumn(id string) ([]string, error) {
	i := t.columnIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: no column %q", ErrStructure, id)
	}
	out := make([]string, len(t.rows))
	for r, row := range t.rows {
		if row.IsSeparator || row.IsHeader {
			continue
		}
		s, err := t.cell(r, t.columns[i])
		if err != nil {
			return nil, err
		}
		out[r] = s
	}
	return out, nil
}
