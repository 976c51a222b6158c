package statstables_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/statstables"
)

func specWith(mod func(*statstables.FormatSpec)) statstables.FormatSpec {
	s := statstables.DefaultFormatSpec()
	mod(&s)
	return s
}

func TestFormatCell(t *testing.T) {
	t.Parallel()
	two := specWith(func(s *statstables.FormatSpec) {
		s.Decimals = 2
		s.MissingDisplay = "--"
	})
	tests := map[string]struct {
		value statstables.Value
		spec  statstables.FormatSpec
		want  string
	}{
		"grouped": {
			value: statstables.Num(1000.456),
			spec:  two,
			want:  "1,000.46",
		},
		"missing": {
			value: statstables.Missing(),
			spec:  two,
			want:  "--",
		},
		"nan is missing": {
			value: statstables.Num(math.NaN()),
			spec:  two,
			want:  "--",
		},
		"half even down": {
			value: statstables.Num(2.5),
			spec:  specWith(func(s *statstables.FormatSpec) { s.Decimals = 0 }),
			want:  "2",
		},
		"half even up": {
			value: statstables.Num(3.5),
			spec:  specWith(func(s *statstables.FormatSpec) { s.Decimals = 0 }),
			want:  "4",
		},
		"half even two places": {
			value: statstables.Num(0.125),
			spec:  two,
			want:  "0.12",
		},
		"half even odd neighbor": {
			value: statstables.Num(0.375),
			spec:  two,
			want:  "0.38",
		},
		"negative grouped": {
			value: statstables.Num(-1234567.891),
			spec:  two,
			want:  "-1,234,567.89",
		},
		"negative zero": {
			value: statstables.Num(-0.0001),
			spec:  two,
			want:  "0.00",
		},
		"no grouping": {
			value: statstables.Num(1234.5),
			spec: specWith(func(s *statstables.FormatSpec) {
				s.Decimals = 1
				s.ThousandsSeparator = false
			}),
			want: "1234.5",
		},
		"custom separator": {
			value: statstables.Num(1000.456),
			spec: specWith(func(s *statstables.FormatSpec) {
				s.Decimals = 2
				s.Separator = "'"
			}),
			want: "1'000.46",
		},
		"percentage": {
			value: statstables.Num(0.1234),
			spec: specWith(func(s *statstables.FormatSpec) {
				s.Decimals = 1
				s.Percentage = true
			}),
			want: "12.3%",
		},
		"prefix and suffix": {
			value: statstables.Num(0.123),
			spec: specWith(func(s *statstables.FormatSpec) {
				s.Decimals = 2
				s.Prefix = "("
				s.Suffix = ")"
			}),
			want: "(0.12)",
		},
		"string passes through": {
			value: statstables.Str("n/a"),
			spec:  two,
			want:  "n/a",
		},
		"zero spec": {
			value: statstables.Num(1234.6),
			spec:  statstables.FormatSpec{},
			want:  "1235",
		},
		"locale en": {
			value: statstables.Num(1000.456),
			spec: specWith(func(s *statstables.FormatSpec) {
				s.Decimals = 2
				s.Locale = "en"
			}),
			want: "1,000.46",
		},
		"locale de": {
			value: statstables.Num(1000.456),
			spec: specWith(func(s *statstables.FormatSpec) {
				s.Decimals = 2
				s.Locale = "de"
			}),
			want: "1.000,46",
		},
		"locale without grouping": {
			value: statstables.Num(1000.456),
			spec: specWith(func(s *statstables.FormatSpec) {
				s.Decimals = 2
				s.Locale = "en"
				s.ThousandsSeparator = false
			}),
			want: "1000.46",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := statstables.FormatCell(tt.value, tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatCellErrors(t *testing.T) {
	t.Parallel()
	tests := map[string]statstables.FormatSpec{
		"percentage on string": specWith(func(s *statstables.FormatSpec) { s.Percentage = true }),
		"require numeric":      specWith(func(s *statstables.FormatSpec) { s.RequireNumeric = true }),
	}
	for name, spec := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := statstables.FormatCell(statstables.Str("abc"), spec)
			assert.ErrorIs(t, err, statstables.ErrFormat)
		})
	}
}

func TestFormatCellMissingIgnoresNumericRequirements(t *testing.T) {
	t.Parallel()
	spec := specWith(func(s *statstables.FormatSpec) {
		s.Percentage = true
		s.RequireNumeric = true
		s.MissingDisplay = "."
	})
	got, err := statstables.FormatCell(statstables.Missing(), spec)
	require.NoError(t, err)
	assert.Equal(t, ".", got)
}

func TestFormatCellP(t *testing.T) {
	t.Parallel()
	spec := specWith(func(s *statstables.FormatSpec) {
		s.Decimals = 2
		s.MissingDisplay = "--"
	})
	tests := map[string]struct {
		value statstables.Value
		p     statstables.Value
		want  string
	}{
		"three stars":     {value: statstables.Num(0.5), p: statstables.Num(0.003), want: "0.50***"},
		"two stars":       {value: statstables.Num(0.5), p: statstables.Num(0.03), want: "0.50**"},
		"one star":        {value: statstables.Num(0.5), p: statstables.Num(0.07), want: "0.50*"},
		"not significant": {value: statstables.Num(0.5), p: statstables.Num(0.2), want: "0.50"},
		"at cutoff":       {value: statstables.Num(0.5), p: statstables.Num(0.01), want: "0.50***"},
		"missing p":       {value: statstables.Num(0.5), p: statstables.Missing(), want: "0.50"},
		"missing value":   {value: statstables.Missing(), p: statstables.Num(0.001), want: "--"},
		"string value":    {value: statstables.Str("x"), p: statstables.Num(0.001), want: "x***"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := statstables.FormatCellP(tt.value, tt.p, spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatCellPStringPValue(t *testing.T) {
	t.Parallel()
	_, err := statstables.FormatCellP(statstables.Num(1), statstables.Str("low"), statstables.DefaultFormatSpec())
	assert.ErrorIs(t, err, statstables.ErrFormat)
}

func TestMarkerStarRule(t *testing.T) {
	t.Parallel()
	smallest := statstables.DefaultFormatSpec()
	largest := specWith(func(s *statstables.FormatSpec) { s.StarRule = statstables.StarLargest })

	assert.Equal(t, "***", smallest.Marker(0.003))
	assert.Equal(t, "*", largest.Marker(0.003))
	assert.Equal(t, "*", largest.Marker(0.07))
	assert.Empty(t, smallest.Marker(0.5))
	assert.Empty(t, statstables.FormatSpec{}.Marker(0.001))
}

func TestFormatSpecValidate(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		mod     func(*statstables.FormatSpec)
		wantErr require.ErrorAssertionFunc
	}{
		"defaults": {
			mod:     func(*statstables.FormatSpec) {},
			wantErr: require.NoError,
		},
		"negative decimals": {
			mod:     func(s *statstables.FormatSpec) { s.Decimals = -1 },
			wantErr: require.Error,
		},
		"too many decimals": {
			mod:     func(s *statstables.FormatSpec) { s.Decimals = 16 },
			wantErr: require.Error,
		},
		"unsorted thresholds": {
			mod: func(s *statstables.FormatSpec) {
				s.Thresholds = []statstables.Threshold{{Cutoff: 0.1, Marker: "*"}, {Cutoff: 0.05, Marker: "**"}}
			},
			wantErr: require.Error,
		},
		"zero cutoff": {
			mod:     func(s *statstables.FormatSpec) { s.Thresholds = []statstables.Threshold{{Cutoff: 0, Marker: "*"}} },
			wantErr: require.Error,
		},
		"empty marker": {
			mod:     func(s *statstables.FormatSpec) { s.Thresholds = []statstables.Threshold{{Cutoff: 0.1}} },
			wantErr: require.Error,
		},
		"unknown star rule": {
			mod:     func(s *statstables.FormatSpec) { s.StarRule = "median" },
			wantErr: require.Error,
		},
		"bad locale": {
			mod:     func(s *statstables.FormatSpec) { s.Locale = "!!" },
			wantErr: require.Error,
		},
		"good locale": {
			mod:     func(s *statstables.FormatSpec) { s.Locale = "fr-CH" },
			wantErr: require.NoError,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := specWith(tt.mod).Validate()
			tt.wantErr(t, err)
			if err != nil {
				assert.ErrorIs(t, err, statstables.ErrInvalidSpec)
			}
		})
	}
}

func TestParseValue(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		in   string
		want statstables.Value
	}{
		"empty":    {in: "", want: statstables.Missing()},
		"NA":       {in: "NA", want: statstables.Missing()},
		"NaN":      {in: "NaN", want: statstables.Missing()},
		"null":     {in: "null", want: statstables.Missing()},
		"int":      {in: "42", want: statstables.Num(42)},
		"float":    {in: "-0.5", want: statstables.Num(-0.5)},
		"exponent": {in: "1e3", want: statstables.Num(1000)},
		"text":     {in: "Model 1", want: statstables.Str("Model 1")},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, statstables.ParseValue(tt.in))
		})
	}
}

func TestValueOf(t *testing.T) {
	t.Parallel()
	vals := statstables.Values(nil, 3, int64(4), float32(0.5), "x", true)
	require.Len(t, vals, 6)
	assert.True(t, vals[0].IsMissing())
	f, ok := vals[1].Float()
	assert.True(t, ok)
	assert.InDelta(t, 3.0, f, 0)
	assert.True(t, vals[2].IsNumber())
	assert.True(t, vals[3].IsNumber())
	s, ok := vals[4].Text()
	assert.True(t, ok)
	assert.Equal(t, "x", s)
	assert.Equal(t, "true", vals[5].String())
	assert.Equal(t, "<missing>", statstables.Missing().String())
}
