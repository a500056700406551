// Package table holds the in-memory dataset that verification runs against,
// plus the loaders that build it from CSV, XLSX, Parquet and SQL sources.
package table

import (
	"errors"
	"fmt"
	"strings"
)

// ErrColumnNotFound is matched by every *ColumnNotFoundError via errors.Is.
var ErrColumnNotFound = errors.New("column not found")

// ColumnNotFoundError reports a lookup of a name the table does not have.
type ColumnNotFoundError struct {
	Column    string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column '%s' not found. Available columns: %s", e.Column, strings.Join(e.Available, ", "))
}

func (e *ColumnNotFoundError) Is(target error) bool { return target == ErrColumnNotFound }

// Table is an immutable, column-major dataset. All columns have Rows() values.
type Table struct {
	name     string
	columns  []string
	index    map[string]int
	values   [][]Value
	rows     int
	warnings []string
}

// New builds a table from column-major values. Column names must be unique and
// every column must hold the same number of values.
func New(name string, columns []string, values [][]Value) (*Table, error) {
	if len(columns) != len(values) {
		return nil, fmt.Errorf("table %s: %d column names for %d columns", name, len(columns), len(values))
	}
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := idx[c]; dup {
			return nil, fmt.Errorf("table %s: duplicate column name %q", name, c)
		}
		idx[c] = i
	}
	rows := 0
	if len(values) > 0 {
		rows = len(values[0])
	}
	for i, col := range values {
		if len(col) != rows {
			return nil, fmt.Errorf("table %s: column %q has %d values, want %d", name, columns[i], len(col), rows)
		}
	}
	return &Table{
		name:    name,
		columns: append([]string(nil), columns...),
		index:   idx,
		values:  values,
		rows:    rows,
	}, nil
}

func (t *Table) Name() string { return t.name }
func (t *Table) Rows() int { return t.rows }

// Columns returns the column names in table order.
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

// Warnings lists notes recorded while loading, such as row truncation.
func (t *Table) Warnings() []string { return append([]string(nil), t.warnings...) }

// Column returns a read-only view of the named column.
func (t *Table) Column(name string) (Column, error) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, &ColumnNotFoundError{Column: name, Available: t.Columns()}
	}
	return Column{name: name, values: t.values[i]}, nil
}

// Column is a read-only view over one column's values.
type Column struct {
	name   string
	values []Value
}

func (c Column) Name() string { return c.name }
func (c Column) Len() int { return len(c.values) }
func (c Column) At(i int) Value { return c.values[i] }

// Builder accumulates rows for loaders. Short rows are padded with nulls and
// long rows are cut to the header width.
type Builder struct {
	name     string
	columns  []string
	values   [][]Value
	rows     int
	ragged   int
	warnings []string
}

// NewBuilder starts a table with the given header. Blank or repeated header
// names are made unique ("col_3", "name_2") so every column stays addressable.
// A generated name never takes a name that appears literally in the header.
func NewBuilder(name string, header []string) *Builder {
	cols := make([]string, len(header))
	literal := make(map[string]bool, len(header))
	for _, h := range header {
		if h = strings.TrimSpace(h); h != "" {
			literal[h] = true
		}
	}
	used := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("col_%d", i+1)
			if literal[h] {
				h = uniqueName(h, used, literal)
			}
		}
		if used[h] {
			h = uniqueName(h, used, literal)
		}
		used[h] = true
		cols[i] = h
	}
	return &Builder{name: name, columns: cols, values: make([][]Value, len(cols))}
}

// uniqueName returns the first of base_2, base_3, ... that is neither used
// nor reserved.
func uniqueName(base string, used, reserved map[string]bool) string {
	for n := 2; ; n++ {
		c := fmt.Sprintf("%s_%d", base, n)
		if !used[c] && !reserved[c] {
			return c
		}
	}
}

// Append adds one row.
func (b *Builder) Append(row []Value) {
	if len(row) != len(b.columns) {
		b.ragged++
	}
	for j := range b.columns {
		v := Null()
		if j < len(row) {
			v = row[j]
		}
		b.values[j] = append(b.values[j], v)
	}
	b.rows++
}

// Rows reports how many rows have been appended.
func (b *Builder) Rows() int { return b.rows }

// Warn records a loader note that ends up in Table.Warnings.
func (b *Builder) Warn(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

// Build finalizes the table. The builder must not be used afterwards.
func (b *Builder) Build() (*Table, error) {
	t, err := New(b.name, b.columns, b.values)
	if err != nil {
		return nil, err
	}
	if b.ragged > 0 {
		t.warnings = append(t.warnings, fmt.Sprintf("%d rows did not match the header width and were padded or cut", b.ragged))
	}
	t.warnings = append(t.warnings, b.warnings...)
	return t, nil
}
