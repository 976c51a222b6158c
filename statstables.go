package statstables

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Sentinel errors for programmatic error handling.
var (
	ErrStructure         = errors.New("invalid table structure")
	ErrFormat            = errors.New("cannot format value")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInvalidSpec       = errors.New("invalid specification")
	ErrInvalidInput      = errors.New("invalid input")
)

// Format represents an output syntax.
type Format string

const (
	LaTeX Format = "latex"
	HTML  Format = "html"
	ASCII Format = "ascii"
)

var formats = []Format{LaTeX, HTML, ASCII}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Formats returns all supported format names.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat parses a format name. Matching ignores case and surrounding
// whitespace; "tex" and "text" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "latex", "tex":
		return LaTeX, nil
	case "html":
		return HTML, nil
	case "ascii", "text":
		return ASCII, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Alignment controls horizontal text alignment.
type Alignment string

const (
	AlignDefault Alignment = ""
	AlignLeft    Alignment = "l"
	AlignCenter  Alignment = "c"
	AlignRight   Alignment = "r"
)

// ParseAlignment accepts "l", "c", "r" and the spelled-out forms.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(s) {
	case "l", "left":
		return AlignLeft, nil
	case "c", "center", "centre":
		return AlignCenter, nil
	case "r", "right":
		return AlignRight, nil
	case "":
		return AlignDefault, nil
	}
	return "", fmt.Errorf("%w: alignment %q", ErrInvalidSpec, s)
}

func (a Alignment) or(fallback Alignment) Alignment {
	if a == AlignDefault {
		return fallback
	}
	return a
}

// Write renders t in format f and writes the result to w.
func Write(w io.Writer, f Format, t *Table) error {
	out, err := t.Render(f)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// WriteFile renders t in format f into the file at path, creating or
// truncating it.
func WriteFile(path string, f Format, t *Table) error {
	out, err := t.Render(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(out), 0o644)
}

// Marshal renders t in format f and returns the bytes.
func Marshal(f Format, t *Table) ([]byte, error) {
	out, err := t.Render(f)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}
