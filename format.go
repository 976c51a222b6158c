package statstables

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// StarRule selects which threshold supplies the significance marker when a
// p-value falls under several cutoffs.
type StarRule string

const (
	// StarSmallest picks the smallest cutoff that is >= p. This is the
	// conventional reading: p = 0.003 under {0.01, 0.05, 0.1} earns the
	// 0.01 marker.
	StarSmallest StarRule = "smallest"
	// StarLargest picks the largest cutoff that is >= p.
	StarLargest StarRule = "largest"
)

// Threshold pairs a p-value cutoff with the marker appended to a cell whose
// p-value is at or below it.
type Threshold struct {
	Cutoff float64 `yaml:"cutoff" validate:"gt=0,lte=1"`
	Marker string  `yaml:"marker" validate:"required"`
}

// DefaultThresholds returns the usual three-star scheme.
func DefaultThresholds() []Threshold {
	return []Threshold{
		{Cutoff: 0.01, Marker: "***"},
		{Cutoff: 0.05, Marker: "**"},
		{Cutoff: 0.1, Marker: "*"},
	}
}

// FormatSpec controls how a raw Value becomes display text.
//
// The zero FormatSpec prints numbers with no decimals, no grouping, and
// missing values as the empty string.
type FormatSpec struct {
	Decimals           int    `yaml:"decimals" validate:"gte=0,lte=15"`
	ThousandsSeparator bool   `yaml:"thousands_separator"`
	Percentage         bool   `yaml:"percentage"`
	MissingDisplay     string `yaml:"missing_display"`

	// Thresholds must be sorted by ascending cutoff.
	Thresholds []Threshold `yaml:"thresholds,omitempty" validate:"dive"`
	StarRule   StarRule    `yaml:"star_rule,omitempty" validate:"omitempty,oneof=smallest largest"`

	// Separator is the grouping text used with ThousandsSeparator.
	// Empty means ",".
	Separator string `yaml:"separator,omitempty"`

	// Prefix and Suffix wrap formatted numbers, e.g. "(" and ")" for
	// standard errors.
	Prefix string `yaml:"prefix,omitempty"`
	Suffix string `yaml:"suffix,omitempty"`

	// RequireNumeric makes string values a formatting error instead of
	// passing them through.
	RequireNumeric bool `yaml:"require_numeric,omitempty"`

	// Lenient renders cells that fail to format as MissingDisplay instead
	// of failing the whole render.
	Lenient bool `yaml:"lenient,omitempty"`

	// Locale is a BCP 47 tag. When set, digit grouping and the decimal
	// mark follow the locale and Separator is ignored.
	Locale string `yaml:"locale,omitempty"`
}

// DefaultFormatSpec returns three decimals with comma grouping and the
// default significance thresholds.
func DefaultFormatSpec() FormatSpec {
	return FormatSpec{
		Decimals:           3,
		ThousandsSeparator: true,
		Thresholds:         DefaultThresholds(),
		StarRule:           StarSmallest,
	}
}

// Validate checks field ranges, threshold ordering and the locale tag.
func (s FormatSpec) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSpec, err)
	}
	for i := 1; i < len(s.Thresholds); i++ {
		if s.Thresholds[i].Cutoff < s.Thresholds[i-1].Cutoff {
			return fmt.Errorf("%w: thresholds must be sorted by ascending cutoff", ErrInvalidSpec)
		}
	}
	if s.Locale != "" {
		if _, err := language.Parse(s.Locale); err != nil {
			return fmt.Errorf("%w: locale %q: %s", ErrInvalidSpec, s.Locale, err)
		}
	}
	return nil
}

// FormatCell converts v into display text according to spec.
//
// Missing values always render as spec.MissingDisplay. Strings pass through
// unchanged unless the spec asks for a percentage or requires numbers, in
// which case the result wraps [ErrFormat].
func FormatCell(v Value, spec FormatSpec) (string, error) {
	switch v.kind {
	case kindMissing:
		return spec.MissingDisplay, nil
	case kindString:
		if spec.Percentage || spec.RequireNumeric {
			return "", fmt.Errorf("%w: %q is not numeric", ErrFormat, v.str)
		}
		return v.str, nil
	}
	return formatNumber(v.num, spec)
}

// FormatCellP is [FormatCell] followed by the significance marker that p
// selects from spec.Thresholds. A missing p adds no marker; a non-numeric p
// wraps [ErrFormat].
func FormatCellP(v, p Value, spec FormatSpec) (string, error) {
	s, err := FormatCell(v, spec)
	if err != nil || v.IsMissing() {
		return s, err
	}
	switch p.kind {
	case kindMissing:
		return s, nil
	case kindString:
		return "", fmt.Errorf("%w: p-value %q is not numeric", ErrFormat, p.str)
	}
	return s + spec.Marker(p.num), nil
}

// Marker returns the significance marker for p, or "" when no cutoff
// covers it.
func (s FormatSpec) Marker(p float64) string {
	found := -1
	for i, th := range s.Thresholds {
		if p > th.Cutoff {
			continue
		}
		if found < 0 {
			found = i
			continue
		}
		best := s.Thresholds[found].Cutoff
		if s.StarRule == StarLargest {
			if th.Cutoff > best {
				found = i
			}
		} else if th.Cutoff < best {
			found = i
		}
	}
	if found < 0 {
		return ""
	}
	return s.Thresholds[found].Marker
}

func formatNumber(x float64, spec FormatSpec) (string, error) {
	if spec.Decimals < 0 {
		return "", fmt.Errorf("%w: negative decimals %d", ErrFormat, spec.Decimals)
	}
	if spec.Percentage {
		x *= 100
	}
	x = roundHalfEven(x, spec.Decimals)

	var s string
	if spec.Locale != "" {
		tag, err := language.Parse(spec.Locale)
		if err != nil {
			return "", fmt.Errorf("%w: locale %q: %s", ErrFormat, spec.Locale, err)
		}
		opts := []number.Option{number.Scale(spec.Decimals)}
		if !spec.ThousandsSeparator {
			opts = append(opts, number.NoSeparator())
		}
		s = message.NewPrinter(tag).Sprint(number.Decimal(x, opts...))
	} else {
		s = strconv.FormatFloat(x, 'f', spec.Decimals, 64)
		if spec.ThousandsSeparator {
			sep := spec.Separator
			if sep == "" {
				sep = ","
			}
			s = groupDigits(s, sep)
		}
	}

	if spec.Percentage {
		s += "%"
	}
	return spec.Prefix + s + spec.Suffix, nil
}

// roundHalfEven rounds x to d decimal places, ties to even. Negative zero is
// normalized so it never prints as "-0.00".
func roundHalfEven(x float64, d int) float64 {
	if math.IsInf(x, 0) {
		return x
	}
	p := math.Pow10(d)
	r := math.RoundToEven(x*p) / p
	if math.IsInf(r, 0) || math.IsNaN(r) {
		r = x
	}
	if r == 0 {
		return 0
	}
	return r
}

// groupDigits inserts sep between groups of three digits left of the decimal
// point of a plain decimal string such as "-1234567.89".
func groupDigits(s, sep string) string {
	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if len(intPart) <= 3 || strings.ContainsAny(intPart, "InfNa") {
		return sign + s
	}

	var sb strings.Builder
	sb.WriteString(sign)
	lead := len(intPart) % 3
	if lead > 0 {
		sb.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if sb.Len() > len(sign) {
			sb.WriteString(sep)
		}
		sb.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		sb.WriteString(".")
		sb.WriteString(frac)
	}
	return sb.String()
}
