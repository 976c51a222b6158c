package statstables

import (
	"fmt"
	"html"
	"strings"
)

// htmlRenderer writes a self-contained <table> fragment.
type htmlRenderer struct {
	l        *layout
	sb       strings.Builder
	footOpen bool
}

func newHTMLRenderer(l *layout) *htmlRenderer { return &htmlRenderer{l: l} }

func (r *htmlRenderer) renderTitle() {
	r.sb.WriteString("<table>\n")
	if r.l.title == "" {
		return
	}
	if r.l.params.CaptionLocation == CaptionBottom {
		fmt.Fprintf(&r.sb, "  <caption style=\"caption-side: bottom\">%s</caption>\n", html.EscapeString(r.l.title))
		return
	}
	fmt.Fprintf(&r.sb, "  <caption>%s</caption>\n", html.EscapeString(r.l.title))
}

func (r *htmlRenderer) enter(s stage) {
	switch s {
	case stageInHeader:
		r.sb.WriteString("  <thead>\n")
	case stageInBody:
		r.sb.WriteString("  </thead>\n  <tbody>\n")
	case stageAfterBody:
		r.sb.WriteString("  </tbody>\n")
	}
}

func (r *htmlRenderer) openFoot() {
	if !r.footOpen {
		r.sb.WriteString("  <tfoot>\n")
		r.footOpen = true
	}
}

func (r *htmlRenderer) indexAlign() Alignment { return r.l.params.IndexAlign.or(AlignLeft) }

func (r *htmlRenderer) renderGroups(level []Group) {
	r.sb.WriteString("    <tr>\n")
	if r.l.params.IncludeIndex {
		r.sb.WriteString("      <th></th>\n")
	}
	for _, g := range level {
		fmt.Fprintf(&r.sb, "      <th colspan=\"%d\"%s>%s</th>\n", g.Span, alignStyle(AlignCenter), html.EscapeString(g.Label))
	}
	r.sb.WriteString("    </tr>\n")
}

func (r *htmlRenderer) renderHeader() {
	r.sb.WriteString("    <tr>\n")
	if r.l.params.IncludeIndex {
		fmt.Fprintf(&r.sb, "      <th%s>%s</th>\n", alignStyle(r.indexAlign()), html.EscapeString(r.l.indexName))
	}
	for i, h := range r.l.header {
		fmt.Fprintf(&r.sb, "      <th%s>%s</th>\n", alignStyle(r.l.aligns[i]), html.EscapeString(h))
	}
	r.sb.WriteString("    </tr>\n")
}

func (r *htmlRenderer) writeCells(tag, label string, cells []string) {
	r.sb.WriteString("    <tr>\n")
	if r.l.params.IncludeIndex {
		fmt.Fprintf(&r.sb, "      <%s%s>%s</%s>\n", tag, alignStyle(r.indexAlign()), html.EscapeString(label), tag)
	}
	for i, c := range cells {
		fmt.Fprintf(&r.sb, "      <%s%s>%s</%s>\n", tag, alignStyle(r.l.aligns[i]), html.EscapeString(c), tag)
	}
	r.sb.WriteString("    </tr>\n")
}

func (r *htmlRenderer) renderLines(loc LineLocation) {
	if loc == AfterFooter && (len(r.l.lines[loc]) > 0 || len(r.l.raw[loc]) > 0) {
		r.openFoot()
	}
	tag := "td"
	if loc == AfterGroups || loc == AfterColumns {
		tag = "th"
	}
	for _, line := range r.l.lines[loc] {
		r.writeCells(tag, line.Label, line.Cells)
	}
	for _, raw := range r.l.raw[loc] {
		r.sb.WriteString("    " + raw + "\n")
	}
}

func (r *htmlRenderer) renderRow(row bodyRow) {
	if row.kind == rowHeading {
		fmt.Fprintf(&r.sb, "    <tr>\n      <th colspan=\"%d\"%s>%s</th>\n    </tr>\n", max(r.l.width(), 1), alignStyle(AlignLeft), html.EscapeString(row.label))
		return
	}
	r.writeCells("td", row.label, row.cells)
}

func (r *htmlRenderer) renderRule() {
	fmt.Fprintf(&r.sb, "    <tr><td colspan=\"%d\" style=\"border-bottom: 1px solid\"></td></tr>\n", max(r.l.width(), 1))
}

func (r *htmlRenderer) renderFootnotes(notes []Note) {
	if len(notes) == 0 {
		return
	}
	r.openFoot()
	for _, n := range notes {
		text := n.Text
		if !n.Raw {
			text = html.EscapeString(text)
		}
		fmt.Fprintf(&r.sb, "    <tr><td colspan=\"%d\"%s><i>%s</i></td></tr>\n", max(r.l.width(), 1), alignStyle(n.Align.or(AlignLeft)), text)
	}
}

func (r *htmlRenderer) finish() string {
	if r.footOpen {
		r.sb.WriteString("  </tfoot>\n")
	}
	r.sb.WriteString("</table>\n")
	return r.sb.String()
}

func alignStyle(a Alignment) string {
	switch a {
	case AlignRight:
		return ` style="text-align: right"`
	case AlignCenter:
		return ` style="text-align: center"`
	case AlignLeft:
		return ` style="text-align: left"`
	default:
		return ""
	}
}
