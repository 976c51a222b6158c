package statstables

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// stage is a position in the fixed traversal every renderer follows.
type stage int

const (
	stageBeforeHeader stage = iota
	stageInHeader
	stageInBody
	stageAfterBody
	stageDone
)

var stageNames = [...]string{"before-header", "in-header", "in-body", "after-body", "done"}

func (s stage) String() string { return stageNames[s] }

// renderer is implemented once per output syntax. walk calls the methods in
// traversal order; enter is called on every stage transition so a renderer
// can open and close its sections.
type renderer interface {
	enter(s stage)
	renderTitle()
	renderGroups(level []Group)
	renderHeader()
	renderLines(loc LineLocation)
	renderRow(row bodyRow)
	renderRule()
	renderFootnotes(notes []Note)
	finish() string
}

type rowKind int

const (
	rowData rowKind = iota
	rowHeading
	rowRule
)

type bodyRow struct {
	kind  rowKind
	label string
	cells []string
}

// layout is the formatted, syntax-neutral snapshot of a Table that the
// renderers read. Building it is the only step that can fail on cell
// content.
type layout struct {
	params    Params
	title     string
	label     string
	indexName string
	header    []string
	aligns    []Alignment
	groups    [][]Group
	rows      []bodyRow
	lines     map[LineLocation][]Line
	raw       map[LineLocation][]string
	notes     []Note
}

// width is the number of rendered columns, index included.
func (l *layout) width() int {
	if l.params.IncludeIndex {
		return len(l.header) + 1
	}
	return len(l.header)
}

func (t *Table) layout(f Format) (*layout, error) {
	l := &layout{
		params:    t.Params(),
		title:     t.title,
		label:     t.label,
		indexName: t.indexName,
		groups:    t.Groups(),
		lines:     make(map[LineLocation][]Line, len(t.lines)),
		raw:       make(map[LineLocation][]string),
		notes:     t.Notes(),
	}
	for _, c := range t.columns {
		l.header = append(l.header, c.DisplayLabel())
		l.aligns = append(l.aligns, c.Align.or(l.params.ColumnAlign).or(AlignCenter))
	}
	for i, r := range t.rows {
		switch {
		case r.IsSeparator:
			l.rows = append(l.rows, bodyRow{kind: rowRule})
		case r.IsHeader:
			l.rows = append(l.rows, bodyRow{kind: rowHeading, label: r.Label})
		default:
			cells := make([]string, len(t.columns))
			for j, c := range t.columns {
				s, err := t.cell(i, c)
				if err != nil {
					return nil, err
				}
				cells[j] = s
			}
			l.rows = append(l.rows, bodyRow{kind: rowData, label: r.Label, cells: cells})
		}
	}
	for loc, lines := range t.lines {
		l.lines[loc] = slices.Clone(lines)
	}
	for loc, lines := range t.raw[f] {
		l.raw[loc] = slices.Clone(lines)
	}
	if l.params.ShowSignificance && len(t.defaults.Thresholds) > 0 {
		l.notes = append(l.notes, significanceNote(f, t.defaults.Thresholds, l.params))
	}
	return l, nil
}

// significanceNote explains the markers from the largest cutoff down, e.g.
// "* p<0.1, ** p<0.05, *** p<0.01". LaTeX gets math-mode less-than signs.
func significanceNote(f Format, thresholds []Threshold, p Params) Note {
	lt := "p<"
	if f == LaTeX {
		lt = "p$<$"
	}
	parts := make([]string, 0, len(thresholds))
	for i := len(thresholds) - 1; i >= 0; i-- {
		th := thresholds[i]
		marker := th.Marker
		if f == LaTeX {
			marker = p.latexReplacer().Replace(marker)
		}
		parts = append(parts, marker+" "+lt+strconv.FormatFloat(th.Cutoff, 'g', -1, 64))
	}
	return Note{
		Text:  "Significance levels: " + strings.Join(parts, ", "),
		Align: AlignRight,
		Raw:   f == LaTeX,
	}
}

// traversal enforces the forward-only stage order.
type traversal struct {
	r     renderer
	stage stage
}

func (tr *traversal) advance(to stage) error {
	if to <= tr.stage {
		return fmt.Errorf("render: cannot move from %s to %s", tr.stage, to)
	}
	tr.stage = to
	tr.r.enter(to)
	return nil
}

// walk drives r through title, column groups, column header, body rows and
// footnotes, in that order, and returns the assembled text.
func walk(l *layout, r renderer) (string, error) {
	tr := &traversal{r: r}
	r.renderTitle()

	if err := tr.advance(stageInHeader); err != nil {
		return "", err
	}
	for _, level := range l.groups {
		r.renderGroups(level)
	}
	r.renderLines(AfterGroups)
	if l.params.ShowColumns {
		r.renderHeader()
	}
	r.renderLines(AfterColumns)

	if err := tr.advance(stageInBody); err != nil {
		return "", err
	}
	for _, row := range l.rows {
		if row.kind == rowRule {
			r.renderRule()
			continue
		}
		r.renderRow(row)
	}
	r.renderLines(AfterBody)

	if err := tr.advance(stageAfterBody); err != nil {
		return "", err
	}
	r.renderLines(AfterFooter)
	r.renderFootnotes(l.notes)

	if err := tr.advance(stageDone); err != nil {
		return "", err
	}
	return r.finish(), nil
}

// Render formats every cell and produces the table in syntax f. It does not
// modify t, and repeated calls without intervening mutation return the same
// text.
func (t *Table) Render(f Format) (string, error) {
	if !slices.Contains(formats, f) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	l, err := t.layout(f)
	if err != nil {
		return "", err
	}
	var r renderer
	switch f {
	case LaTeX:
		r = newLaTeXRenderer(l)
	case HTML:
		r = newHTMLRenderer(l)
	case ASCII:
		r = newASCIIRenderer(l)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	return walk(l, r)
}
