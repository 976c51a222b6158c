package statstables

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CaptionLocation places the title above or below the table.
type CaptionLocation string

const (
	CaptionTop    CaptionLocation = "top"
	CaptionBottom CaptionLocation = "bottom"
)

// Escape replaces one reserved character in LaTeX output.
type Escape struct {
	Char string `yaml:"char" validate:"required"`
	With string `yaml:"with"`
}

// DefaultLaTeXEscapes returns the reserved LaTeX characters and their
// text-mode replacements.
func DefaultLaTeXEscapes() []Escape {
	return []Escape{
		{Char: `\`, With: `\textbackslash{}`},
		{Char: "_", With: `\_`},
		{Char: "%", With: `\%`},
		{Char: "$", With: `\$`},
		{Char: "#", With: `\#`},
		{Char: "{", With: `\{`},
		{Char: "}", With: `\}`},
		{Char: "~", With: `\textasciitilde{}`},
		{Char: "^", With: `\textasciicircum{}`},
		{Char: "&", With: `\&`},
	}
}

// Params holds table-level presentation settings shared by all renderers,
// plus a few that only one syntax reads.
type Params struct {
	CaptionLocation CaptionLocation `yaml:"caption_location" validate:"oneof=top bottom"`
	IncludeIndex    bool            `yaml:"include_index"`
	ShowColumns     bool            `yaml:"show_columns"`
	IndexAlign      Alignment       `yaml:"index_alignment" validate:"omitempty,oneof=l c r"`
	ColumnAlign     Alignment       `yaml:"column_alignment" validate:"omitempty,oneof=l c r"`

	// ShowSignificance appends a legend explaining the significance
	// markers of the default format spec.
	ShowSignificance bool `yaml:"show_significance"`

	// OnlyTabular drops the LaTeX table float, caption and label.
	OnlyTabular bool `yaml:"only_tabular"`

	// LaTeXEscapes replaces DefaultLaTeXEscapes when non-empty.
	LaTeXEscapes []Escape `yaml:"latex_escapes,omitempty" validate:"dive"`

	// ASCII layout.
	Padding    int    `yaml:"ascii_padding" validate:"gte=0,lte=20"`
	HeaderChar string `yaml:"ascii_header_char"`
	FooterChar string `yaml:"ascii_footer_char"`
	RuleChar   string `yaml:"ascii_mid_rule_char"`
	BorderChar string `yaml:"ascii_border_char"`
	NoteWidth  int    `yaml:"max_ascii_notes_length" validate:"gte=0"`
}

// DefaultParams returns the settings used by [NewTable].
func DefaultParams() Params {
	return Params{
		CaptionLocation: CaptionTop,
		IncludeIndex:    true,
		ShowColumns:     true,
		IndexAlign:      AlignLeft,
		ColumnAlign:     AlignCenter,
		HeaderChar:      "=",
		FooterChar:      "-",
		RuleChar:        "-",
		NoteWidth:       80,
	}
}

// Validate checks the parameter ranges and enumerations.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSpec, err)
	}
	return nil
}

func (p Params) latexReplacer() *strings.Replacer {
	escapes := p.LaTeXEscapes
	if len(escapes) == 0 {
		escapes = DefaultLaTeXEscapes()
	}
	pairs := make([]string, 0, 2*len(escapes))
	for _, e := range escapes {
		pairs = append(pairs, e.Char, e.With)
	}
	return strings.NewReplacer(pairs...)
}
