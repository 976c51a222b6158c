package statstables

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Config is the YAML form of a table's formatting:
//
//	format:
//	  decimals: 2
//	  missing_display: "--"
//	columns:
//	  share:
//	    percentage: true
//	table:
//	  caption_location: bottom
//	title: Summary statistics
//	notes:
//	  - Standard errors in parentheses.
//
// Absent sections keep their defaults, and column entries start from the
// decoded "format" section.
type Config struct {
	Format    FormatSpec            `yaml:"format"`
	Columns   map[string]FormatSpec `yaml:"-"`
	Table     Params                `yaml:"table"`
	Title     string                `yaml:"title,omitempty"`
	Label     string                `yaml:"label,omitempty"`
	IndexName string                `yaml:"index_name,omitempty"`
	Labels    map[string]string     `yaml:"labels,omitempty"`
	Groups    []Group               `yaml:"groups,omitempty"`
	Notes     []string              `yaml:"notes,omitempty"`
}

// configFile defers decoding of column specs until the "format" section
// they inherit from is known.
type configFile struct {
	Config  `yaml:",inline"`
	Columns map[string]yaml.Node `yaml:"columns,omitempty"`
}

// DefaultConfig returns a Config holding the package defaults.
func DefaultConfig() Config {
	return Config{
		Format: DefaultFormatSpec(),
		Table:  DefaultParams(),
	}
}

// LoadConfig decodes YAML from r on top of [DefaultConfig]. Unknown keys
// are rejected. Empty input yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	file := configFile{Config: DefaultConfig()}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: config: %s", ErrInvalidSpec, err)
	}

	cfg := file.Config
	if len(file.Columns) > 0 {
		cfg.Columns = make(map[string]FormatSpec, len(file.Columns))
		for id, node := range file.Columns {
			spec := cfg.Format.clone()
			if err := decodeStrict(&node, &spec); err != nil {
				return Config{}, fmt.Errorf("%w: config: column %q: %s", ErrInvalidSpec, id, err)
			}
			cfg.Columns[id] = spec
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeStrict decodes node into v, rejecting keys v does not declare.
// yaml.Node.Decode has no KnownFields option, so the node is re-encoded and
// read back through a strict decoder.
func decodeStrict(node *yaml.Node, v any) error {
	b, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// LoadConfigFile reads a YAML config from path.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return LoadConfig(f)
}

// Validate checks every spec and parameter in the config.
func (c Config) Validate() error {
	if err := c.Format.Validate(); err != nil {
		return err
	}
	if err := c.Table.Validate(); err != nil {
		return err
	}
	for id, spec := range c.Columns {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("column %q: %w", id, err)
		}
	}
	return nil
}

// Apply sets the table defaults, parameters, column formats, labels, groups
// and notes from c. Everything is checked before anything changes.
func (t *Table) Apply(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	for id := range c.Columns {
		if t.columnIndex(id) < 0 {
			return fmt.Errorf("%w: config names unknown column %q", ErrStructure, id)
		}
	}
	if len(c.Groups) > 0 {
		if err := checkSpans(c.Groups, len(t.columns)); err != nil {
			return err
		}
	}

	t.defaults = c.Format.clone()
	t.params = c.Table
	t.params.LaTeXEscapes = slices.Clone(c.Table.LaTeXEscapes)
	for id, spec := range c.Columns {
		s := spec.clone()
		t.columns[t.columnIndex(id)].Format = &s
	}
	t.RenameColumns(c.Labels)
	if len(c.Groups) > 0 {
		t.groups = [][]Group{slices.Clone(c.Groups)}
	}
	if c.Title != "" {
		t.SetTitle(c.Title)
	}
	if c.Label != "" {
		t.SetLabel(c.Label)
	}
	if c.IndexName != "" {
		t.SetIndexName(c.IndexName)
	}
	for _, n := range c.Notes {
		t.AddFootnote(n)
	}
	return nil
}

// UnmarshalYAML accepts "l", "left", "c", "center", "r" and "right".
func (a *Alignment) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseAlignment(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
