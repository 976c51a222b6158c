package statstables

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
)

// Columnar is the dataframe-like input to [FromFrame]: an ordered set of
// columns, each an ordered sequence of values of the same length.
type Columnar interface {
	Columns() []string
	Values(column string) []Value
}

// Indexed supplies row labels. Without it rows are labeled "0", "1", ...
type Indexed interface {
	Index() []string
}

// IndexNamed supplies the header text above the row labels.
type IndexNamed interface {
	IndexName() string
}

// Frame is a minimal in-memory [Columnar] that also implements [Indexed]
// and [IndexNamed].
type Frame struct {
	order     []string
	data      map[string][]Value
	index     []string
	indexName string
}

// NewFrame returns an empty frame. When index labels are given, every
// column must have that many values.
func NewFrame(index ...string) *Frame {
	return &Frame{
		data:  make(map[string][]Value),
		index: slices.Clone(index),
	}
}

// Set adds or replaces a column. Values are copied.
func (f *Frame) Set(id string, values []Value) error {
	if id == "" {
		return fmt.Errorf("%w: column id is empty", ErrStructure)
	}
	if n := f.Len(); n >= 0 && len(values) != n {
		// Replacing the only column of an unindexed frame may change its length.
		_, replacing := f.data[id]
		if !replacing || len(f.order) != 1 || len(f.index) > 0 {
			return fmt.Errorf("%w: column %q has %d values, frame has %d rows", ErrStructure, id, len(values), n)
		}
	}
	if _, ok := f.data[id]; !ok {
		f.order = append(f.order, id)
	}
	f.data[id] = slices.Clone(values)
	return nil
}

// Len returns the row count, or -1 for a frame with neither columns nor an
// index.
func (f *Frame) Len() int {
	if len(f.index) > 0 {
		return len(f.index)
	}
	if len(f.order) == 0 {
		return -1
	}
	return len(f.data[f.order[0]])
}

// Columns returns the column ids in insertion order.
func (f *Frame) Columns() []string { return slices.Clone(f.order) }

// Values returns a copy of a column's values.
func (f *Frame) Values(id string) []Value { return slices.Clone(f.data[id]) }

// Index returns the row labels, or nil when none were given.
func (f *Frame) Index() []string { return slices.Clone(f.index) }

// IndexName returns the name of the index.
func (f *Frame) IndexName() string { return f.indexName }

// SetIndexName names the index.
func (f *Frame) SetIndexName(name string) { f.indexName = name }

// All yields each column id with its values, in order.
func (f *Frame) All() iter.Seq2[string, []Value] {
	return func(yield func(string, []Value) bool) {
		for _, id := range f.order {
			if !yield(id, f.data[id]) {
				return
			}
		}
	}
}

// FromFrame builds a table with one column per source column and defaults
// applied uniformly. Row labels come from [Indexed] when src implements it,
// otherwise they are sequential integers starting at 0.
func FromFrame(src Columnar, defaults FormatSpec) (*Table, error) {
	ids := src.Columns()
	n := -1
	for _, id := range ids {
		vals := src.Values(id)
		if n < 0 {
			n = len(vals)
		} else if len(vals) != n {
			return nil, fmt.Errorf("%w: column %q has %d values, expected %d", ErrStructure, id, len(vals), n)
		}
	}

	var labels []string
	if ix, ok := src.(Indexed); ok {
		labels = ix.Index()
	}
	switch {
	case len(labels) > 0 && n >= 0 && len(labels) != n:
		return nil, fmt.Errorf("%w: index has %d labels, columns have %d values", ErrStructure, len(labels), n)
	case len(labels) == 0:
		if n < 0 {
			n = 0
		}
		labels = make([]string, n)
		for i := range labels {
			labels[i] = strconv.Itoa(i)
		}
	}

	t, err := NewTable(defaults, Rows(labels...)...)
	if err != nil {
		return nil, err
	}
	if nm, ok := src.(IndexNamed); ok {
		t.SetIndexName(nm.IndexName())
	}
	for _, id := range ids {
		if err := t.AddColumn(Column{ID: id, Values: src.Values(id)}); err != nil {
			return nil, err
		}
	}
	return t, nil
}
