package statstables

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// asciiRenderer writes a plain-text table. Every column is as wide as its
// widest cell (display width, so CJK and emoji line up) and columns are
// separated by a single space.
type asciiRenderer struct {
	l      *layout
	sb     strings.Builder
	widths []int // one per slot; slot 0 is the index when it is shown
	aligns []Alignment
	offset int // 1 when slot 0 is the index
	total  int
	pad    string
	border string

	headerLines int
}

const asciiSep = " "

func newASCIIRenderer(l *layout) *asciiRenderer {
	r := &asciiRenderer{
		l:      l,
		pad:    strings.Repeat(" ", l.params.Padding),
		border: l.params.BorderChar,
	}
	if l.params.IncludeIndex {
		r.offset = 1
		r.aligns = append(r.aligns, l.params.IndexAlign.or(AlignLeft))
	}
	r.aligns = append(r.aligns, l.aligns...)
	r.computeWidths()
	return r
}

func (r *asciiRenderer) computeWidths() {
	l := r.l
	r.widths = make([]int, r.offset+len(l.header))
	grow := func(slot int, s string) {
		if w := runewidth.StringWidth(s); w > r.widths[slot] {
			r.widths[slot] = w
		}
	}
	row := func(label string, cells []string) {
		if r.offset == 1 {
			grow(0, label)
		}
		for i, c := range cells {
			grow(r.offset+i, c)
		}
	}

	if l.params.ShowColumns {
		row(l.indexName, l.header)
	}
	for _, br := range l.rows {
		if br.kind == rowData {
			row(br.label, br.cells)
		}
	}
	for _, loc := range lineLocations {
		for _, line := range l.lines[loc] {
			row(line.Label, line.Cells)
		}
	}

	// A group label wider than the columns it spans widens the last of
	// them.
	for _, level := range l.groups {
		col := r.offset
		for _, g := range level {
			if need, have := runewidth.StringWidth(g.Label), r.spanWidth(col, g.Span); need > have {
				r.widths[col+g.Span-1] += need - have
			}
			col += g.Span
		}
	}

	r.total = r.spanWidth(0, len(r.widths))
	for _, br := range l.rows {
		if br.kind != rowHeading || len(r.widths) == 0 {
			continue
		}
		if need := runewidth.StringWidth(br.label); need > r.total {
			r.widths[len(r.widths)-1] += need - r.total
			r.total = need
		}
	}
}

// spanWidth is the rendered width of n adjacent slots starting at from,
// padding and separators included.
func (r *asciiRenderer) spanWidth(from, n int) int {
	w := 0
	for i := from; i < from+n; i++ {
		w += r.widths[i] + 2*len(r.pad)
	}
	if n > 1 {
		w += (n - 1) * len(asciiSep)
	}
	return w
}

func (r *asciiRenderer) writeLine(parts []string) {
	r.sb.WriteString(r.border)
	r.sb.WriteString(strings.Join(parts, asciiSep))
	r.sb.WriteString(r.border)
	r.sb.WriteString("\n")
}

func (r *asciiRenderer) cell(s string, slot int) string {
	return r.pad + alignCell(s, r.widths[slot], r.aligns[slot]) + r.pad
}

func (r *asciiRenderer) writeRow(label string, cells []string) {
	parts := make([]string, 0, len(r.widths))
	if r.offset == 1 {
		parts = append(parts, r.cell(label, 0))
	}
	for i, c := range cells {
		parts = append(parts, r.cell(c, r.offset+i))
	}
	r.writeLine(parts)
}

func (r *asciiRenderer) rule(char string) {
	width := r.total + 2*runewidth.StringWidth(r.border)
	if line := fill(char, width); line != "" {
		r.sb.WriteString(line)
		r.sb.WriteString("\n")
	}
}

func (r *asciiRenderer) writeTitle() {
	if r.l.title != "" {
		width := r.total + 2*runewidth.StringWidth(r.border)
		r.sb.WriteString(strings.TrimRight(alignCell(r.l.title, width, AlignCenter), " "))
		r.sb.WriteString("\n")
	}
}

func (r *asciiRenderer) renderTitle() {
	if r.l.params.CaptionLocation != CaptionBottom {
		r.writeTitle()
	}
}

func (r *asciiRenderer) enter(s stage) {
	switch s {
	case stageInHeader:
		r.rule(r.l.params.HeaderChar)
	case stageInBody:
		if r.headerLines > 0 {
			r.rule(r.l.params.RuleChar)
		}
	case stageAfterBody:
		r.rule(r.l.params.FooterChar)
	}
}

func (r *asciiRenderer) renderGroups(level []Group) {
	parts := make([]string, 0, len(level)+1)
	if r.offset == 1 {
		parts = append(parts, strings.Repeat(" ", r.spanWidth(0, 1)))
	}
	col := r.offset
	for _, g := range level {
		parts = append(parts, alignCell(g.Label, r.spanWidth(col, g.Span), AlignCenter))
		col += g.Span
	}
	r.writeLine(parts)
	r.headerLines++
}

func (r *asciiRenderer) renderHeader() {
	r.writeRow(r.l.indexName, r.l.header)
	r.headerLines++
}

func (r *asciiRenderer) renderLines(loc LineLocation) {
	for _, line := range r.l.lines[loc] {
		r.writeRow(line.Label, line.Cells)
	}
	for _, raw := range r.l.raw[loc] {
		r.sb.WriteString(raw)
		r.sb.WriteString("\n")
	}
	if loc == AfterGroups || loc == AfterColumns {
		r.headerLines += len(r.l.lines[loc]) + len(r.l.raw[loc])
	}
}

func (r *asciiRenderer) renderRow(row bodyRow) {
	if row.kind == rowHeading {
		r.writeLine([]string{alignCell(row.label, r.total, AlignLeft)})
		return
	}
	r.writeRow(row.label, row.cells)
}

func (r *asciiRenderer) renderRule() {
	r.rule(r.l.params.RuleChar)
}

func (r *asciiRenderer) renderFootnotes(notes []Note) {
	for _, n := range notes {
		for _, line := range wrapText(n.Text, r.l.params.NoteWidth) {
			r.sb.WriteString(strings.TrimRight(alignCell(line, r.total, n.Align.or(AlignLeft)), " "))
			r.sb.WriteString("\n")
		}
	}
}

func (r *asciiRenderer) finish() string {
	if r.l.params.CaptionLocation == CaptionBottom {
		r.writeTitle()
	}
	return r.sb.String()
}

// fill repeats char to cover width display columns.
func fill(char string, width int) string {
	cw := runewidth.StringWidth(char)
	if cw == 0 || width <= 0 {
		return ""
	}
	return strings.Repeat(char, width/cw)
}

func alignCell(s string, width int, align Alignment) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", pad) + s
	case AlignCenter:
		left := pad / 2
		right := pad - left
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
	default:
		return s + strings.Repeat(" ", pad)
	}
}

// wrapText breaks s at spaces into lines no wider than width. Words longer
// than width are split with wrapCell. A width of zero disables wrapping.
func wrapText(s string, width int) []string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return []string{s}
	}
	var lines []string
	var cur strings.Builder
	curWidth := 0
	flush := func() {
		if cur.Len() > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			curWidth = 0
		}
	}
	for _, word := range strings.Fields(s) {
		ww := runewidth.StringWidth(word)
		if ww > width {
			flush()
			parts := wrapCell(word, width)
			lines = append(lines, parts[:len(parts)-1]...)
			last := parts[len(parts)-1]
			cur.WriteString(last)
			curWidth = runewidth.StringWidth(last)
			continue
		}
		if curWidth > 0 && curWidth+1+ww > width {
			flush()
		}
		if curWidth > 0 {
			cur.WriteString(" ")
			curWidth++
		}
		cur.WriteString(word)
		curWidth += ww
	}
	flush()
	return lines
}

func wrapCell(s string, width int) []string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return []string{s}
	}
	var lines []string
	for len(s) > 0 {
		line := runewidth.Truncate(s, width, "")
		if line == "" {
			// A rune wider than width still has to advance.
			r := []rune(s)
			line = string(r[0])
		}
		lines = append(lines, line)
		s = s[len(line):]
	}
	return lines
}
