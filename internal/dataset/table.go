package dataset

import "fmt"

// Table is the shared record store threaded through the pipeline: an ordered
// set of named columns over a fixed number of rows. Stages derive new columns,
// drop the ones they consumed and hand the table to the next stage. Row order
// is part of the table identity and is never changed by mutation helpers.
type Table struct {
	names []string
	cols  map[string][]Value
	rows  int
}

// NewTable creates an empty table with the given number of rows.
func NewTable(rows int) *Table {
	return &Table{
		cols: make(map[string][]Value),
		rows: rows,
	}
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.names) }

// Columns returns the column names in their insertion order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.names))
	copy(names, t.names)
	return names
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Column returns the values of the named column in row order.
func (t *Table) Column(name string) ([]Value, error) {
	col, ok := t.cols[name]
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	return col, nil
}

// AddColumn appends a new column. The value count must match the row count and
// the name must be unused.
func (t *Table) AddColumn(name string, values []Value) error {
	if _, ok := t.cols[name]; ok {
		return fmt.Errorf("column %q already exists", name)
	}
	if len(values) != t.rows {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), t.rows)
	}
	t.names = append(t.names, name)
	t.cols[name] = values
	return nil
}

// DropColumn removes the named column. Dropping an absent column is a no-op so
// stages can clean up optional sources.
func (t *Table) DropColumn(name string) {
	if _, ok := t.cols[name]; !ok {
		return
	}
	delete(t.cols, name)
	for i, n := range t.names {
		if n == name {
			t.names = append(t.names[:i], t.names[i+1:]...)
			break
		}
	}
}

// Keep returns a new table containing only the rows marked true, preserving
// row order. The mask length must match the row count. Only filtering stages
// may use it; extraction stages never drop rows.
func (t *Table) Keep(mask []bool) (*Table, error) {
	if len(mask) != t.rows {
		return nil, fmt.Errorf("mask has %d entries, table has %d rows", len(mask), t.rows)
	}

	kept := 0
	for _, m := range mask {
		if m {
			kept++
		}
	}

	out := NewTable(kept)
	for _, name := range t.names {
		col := t.cols[name]
		values := make([]Value, 0, kept)
		for i, m := range mask {
			if m {
				values = append(values, col[i])
			}
		}
		if err := out.AddColumn(name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}
