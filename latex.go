package statstables

import (
	"fmt"
	"strings"
)

// latexRenderer writes a booktabs tabular, optionally wrapped in a table
// float. The output is a fragment; the document must load booktabs.
type latexRenderer struct {
	l   *layout
	esc *strings.Replacer
	sb  strings.Builder
}

func newLaTeXRenderer(l *layout) *latexRenderer {
	return &latexRenderer{l: l, esc: l.params.latexReplacer()}
}

func (r *latexRenderer) float() bool { return !r.l.params.OnlyTabular }

func (r *latexRenderer) renderTitle() {
	if r.float() {
		r.sb.WriteString("\\begin{table}[!htbp]\n  \\centering\n")
		if r.l.params.CaptionLocation != CaptionBottom {
			r.writeCaption()
		}
	}
	var spec strings.Builder
	if r.l.params.IncludeIndex {
		spec.WriteString(string(r.l.params.IndexAlign.or(AlignLeft)))
	}
	for _, a := range r.l.aligns {
		spec.WriteString(string(a))
	}
	fmt.Fprintf(&r.sb, "\\begin{tabular}{%s}\n", spec.String())
}

func (r *latexRenderer) writeCaption() {
	if r.l.title != "" {
		fmt.Fprintf(&r.sb, "  \\caption{%s}\n", r.esc.Replace(r.l.title))
	}
	if r.l.label != "" {
		fmt.Fprintf(&r.sb, "  \\label{%s}\n", r.l.label)
	}
}

func (r *latexRenderer) enter(s stage) {
	switch s {
	case stageInHeader:
		r.sb.WriteString("  \\toprule\n")
	case stageInBody:
		r.sb.WriteString("  \\midrule\n")
	case stageAfterBody:
		r.sb.WriteString("  \\bottomrule\n")
	}
}

func (r *latexRenderer) writeRow(cells []string) {
	r.sb.WriteString("  ")
	r.sb.WriteString(strings.Join(cells, " & "))
	r.sb.WriteString(" \\\\\n")
}

func (r *latexRenderer) withIndex(label string, cells []string) []string {
	if !r.l.params.IncludeIndex {
		return cells
	}
	return append([]string{label}, cells...)
}

func (r *latexRenderer) renderGroups(level []Group) {
	cells := make([]string, 0, len(level))
	for _, g := range level {
		cells = append(cells, fmt.Sprintf("\\multicolumn{%d}{c}{%s}", g.Span, r.esc.Replace(g.Label)))
	}
	r.writeRow(r.withIndex("", cells))

	col := 1
	if r.l.params.IncludeIndex {
		col++
	}
	var rules []string
	for _, g := range level {
		if g.Label != "" {
			rules = append(rules, fmt.Sprintf("\\cmidrule(lr){%d-%d}", col, col+g.Span-1))
		}
		col += g.Span
	}
	if len(rules) > 0 {
		r.sb.WriteString("  " + strings.Join(rules, " ") + "\n")
	}
}

func (r *latexRenderer) renderHeader() {
	cells := make([]string, len(r.l.header))
	for i, h := range r.l.header {
		cells[i] = r.esc.Replace(h)
	}
	r.writeRow(r.withIndex(r.esc.Replace(r.l.indexName), cells))
}

func (r *latexRenderer) renderLines(loc LineLocation) {
	for _, line := range r.l.lines[loc] {
		cells := make([]string, len(line.Cells))
		for i, c := range line.Cells {
			cells[i] = r.esc.Replace(c)
		}
		r.writeRow(r.withIndex(r.esc.Replace(line.Label), cells))
	}
	for _, raw := range r.l.raw[loc] {
		r.sb.WriteString("  " + raw + "\n")
	}
	if loc == AfterFooter && len(r.l.lines[loc])+len(r.l.raw[loc]) > 0 {
		r.sb.WriteString("  \\bottomrule\n")
	}
}

func (r *latexRenderer) renderRow(row bodyRow) {
	if row.kind == rowHeading {
		if n := r.l.width(); n > 0 {
			fmt.Fprintf(&r.sb, "  \\multicolumn{%d}{l}{\\textbf{%s}} \\\\\n", n, r.esc.Replace(row.label))
		}
		return
	}
	cells := make([]string, len(row.cells))
	for i, c := range row.cells {
		cells[i] = r.esc.Replace(c)
	}
	r.writeRow(r.withIndex(r.esc.Replace(row.label), cells))
}

func (r *latexRenderer) renderRule() {
	r.sb.WriteString("  \\midrule\n")
}

func (r *latexRenderer) renderFootnotes(notes []Note) {
	n := max(r.l.width(), 1)
	for _, note := range notes {
		text := note.Text
		if !note.Raw {
			text = r.esc.Replace(text)
		}
		fmt.Fprintf(&r.sb, "  \\multicolumn{%d}{%s}{\\small \\textit{%s}} \\\\\n", n, note.Align.or(AlignLeft), text)
	}
}

func (r *latexRenderer) finish() string {
	r.sb.WriteString("\\end{tabular}\n")
	if r.float() {
		if r.l.params.CaptionLocation == CaptionBottom {
			r.writeCaption()
		}
		r.sb.WriteString("\\end{table}\n")
	}
	return r.sb.String()
}
