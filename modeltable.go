package statstables

import (
	"fmt"
	"slices"
	"strconv"
)

// Estimate is one coefficient of a fitted model. StdErr and PValue may be
// NaN when the model does not report them.
type Estimate struct {
	Term   string
	Coef   float64
	StdErr float64
	PValue float64
}

// Stat is a model-level summary statistic such as R² or the number of
// observations.
type Stat struct {
	Name  string
	Value Value
	// Integer formats the value with no decimals, e.g. counts.
	Integer bool
}

// Model is a fitted model already adapted from whatever library produced
// it. The package computes nothing; callers fill these fields in.
type Model struct {
	Name              string
	DependentVariable string
	Estimates         []Estimate
	Stats             []Stat
}

// ModelTableOptions controls [ModelTable].
type ModelTableOptions struct {
	// TermOrder lists terms to show first, in this order. Remaining terms
	// follow in order of first appearance.
	TermOrder []string
	// TermLabels renames terms for display.
	TermLabels map[string]string
	// HideStdErrors drops the standard error row under each estimate.
	HideStdErrors bool
	// HideStars drops significance markers and the legend.
	HideStars bool
}

// ModelTable lays out one column per model: an estimate row per term
// (with significance markers), its standard error in parentheses below,
// a rule, then the summary statistics.
func ModelTable(models []Model, defaults FormatSpec, opts ModelTableOptions) (*Table, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("%w: no models", ErrInvalidInput)
	}
	if err := defaults.Validate(); err != nil {
		return nil, err
	}

	terms, err := modelTerms(models, opts.TermOrder)
	if err != nil {
		return nil, err
	}
	var stats []string
	integer := make(map[string]bool)
	for _, m := range models {
		for _, s := range m.Stats {
			if !slices.Contains(stats, s.Name) {
				stats = append(stats, s.Name)
			}
			if s.Integer {
				integer[s.Name] = true
			}
		}
	}

	var (
		rows    []RowSpec
		seRows  []int
		intRows []int
	)
	for _, term := range terms {
		label := term
		if l, ok := opts.TermLabels[term]; ok {
			label = l
		}
		rows = append(rows, RowSpec{Label: label})
		if !opts.HideStdErrors {
			seRows = append(seRows, len(rows))
			rows = append(rows, RowSpec{})
		}
	}
	if len(stats) > 0 {
		rows = append(rows, Rule())
		for _, s := range stats {
			if integer[s] {
				intRows = append(intRows, len(rows))
			}
			rows = append(rows, RowSpec{Label: s})
		}
	}

	t, err := NewTable(defaults, rows...)
	if err != nil {
		return nil, err
	}
	p := t.Params()
	p.ShowSignificance = !opts.HideStars
	if err := t.SetParams(p); err != nil {
		return nil, err
	}

	for i, m := range models {
		name := m.Name
		if name == "" {
			name = "(" + strconv.Itoa(i+1) + ")"
		}
		col := Column{
			ID:     "model" + strconv.Itoa(i+1),
			Label:  name,
			Values: make([]Value, len(rows)),
		}
		if !opts.HideStars {
			col.PValues = make([]Value, len(rows))
		}
		byTerm := make(map[string]Estimate, len(m.Estimates))
		for _, e := range m.Estimates {
			byTerm[e.Term] = e
		}
		r := 0
		for _, term := range terms {
			e, ok := byTerm[term]
			if ok {
				col.Values[r] = Num(e.Coef)
				if col.PValues != nil {
					col.PValues[r] = Num(e.PValue)
				}
			}
			r++
			if !opts.HideStdErrors {
				if ok {
					col.Values[r] = Num(e.StdErr)
				}
				r++
			}
		}
		if len(stats) > 0 {
			r++ // rule
			byStat := make(map[string]Value, len(m.Stats))
			for _, s := range m.Stats {
				byStat[s.Name] = s.Value
			}
			for _, s := range stats {
				col.Values[r] = byStat[s]
				r++
			}
		}
		if err := t.AddColumn(col); err != nil {
			return nil, err
		}
	}

	seSpec := defaults.clone()
	seSpec.Prefix, seSpec.Suffix = "(", ")"
	seSpec.Thresholds = nil
	intSpec := defaults.clone()
	intSpec.Decimals = 0
	for _, i := range seRows {
		if err := t.SetRowFormat(i, seSpec); err != nil {
			return nil, err
		}
	}
	for _, i := range intRows {
		if err := t.SetRowFormat(i, intSpec); err != nil {
			return nil, err
		}
	}

	if dv := sharedDependentVariable(models); dv != "" {
		if err := t.SetGroup(Group{Label: "Dependent variable: " + dv, Span: len(models)}); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func modelTerms(models []Model, order []string) ([]string, error) {
	var terms []string
	for _, m := range models {
		seen := make(map[string]bool, len(m.Estimates))
		for _, e := range m.Estimates {
			if e.Term == "" {
				return nil, fmt.Errorf("%w: model %q has an estimate with no term", ErrInvalidInput, m.Name)
			}
			if seen[e.Term] {
				return nil, fmt.Errorf("%w: model %q repeats term %q", ErrInvalidInput, m.Name, e.Term)
			}
			seen[e.Term] = true
			if !slices.Contains(terms, e.Term) {
				terms = append(terms, e.Term)
			}
		}
	}
	ordered := make([]string, 0, len(terms))
	for _, term := range order {
		if slices.Contains(terms, term) && !slices.Contains(ordered, term) {
			ordered = append(ordered, term)
		}
	}
	for _, term := range terms {
		if !slices.Contains(ordered, term) {
			ordered = append(ordered, term)
		}
	}
	return ordered, nil
}

func sharedDependentVariable(models []Model) string {
	dv := models[0].DependentVariable
	for _, m := range models[1:] {
		if m.DependentVariable != dv {
			return ""
		}
	}
	return dv
}
