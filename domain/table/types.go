package table

import (
	"fmt"
	"math"

	"k9stats/domain/core"
)

// Type classifies a column for statistical treatment
type Type string

const (
	TypeBoolean     Type = "boolean"     // two-level categorical, coded 0/1
	TypeCategorical Type = "categorical" // nominal with named levels
	TypeInteger     Type = "integer"     // counts/scores, treated as continuous in models
	TypeContinuous  Type = "continuous"
)

// IsCategorical reports whether values of this type are level-coded
func (t Type) IsCategorical() bool {
	return t == TypeBoolean || t == TypeCategorical
}

// IsNumeric reports whether values of this type enter models as raw numbers
func (t Type) IsNumeric() bool {
	return t == TypeInteger || t == TypeContinuous
}

// Column is a single named, typed variable.
//
// Values are stored as float64 for all types. Categorical and boolean columns
// hold level codes (indexes into Levels); numeric columns hold raw values.
// Missing cells are NaN, a state distinct from every valid category or number.
type Column struct {
	Name   string
	Type   Type
	Values []float64
	Levels []string // level labels in first-appearance order; nil for numeric types
}

// Missing reports whether the cell at row i is missing
func (c *Column) Missing(i int) bool {
	return math.IsNaN(c.Values[i])
}

// MissingCount returns the number of missing cells
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}

// ObservedLevels returns the level codes observed in the data, ascending.
// Only meaningful for categorical-typed columns.
func (c *Column) ObservedLevels() []int {
	seen := make([]bool, len(c.Levels))
	for _, v := range c.Values {
		if math.IsNaN(v) {
			continue
		}
		code := int(v)
		if code >= 0 && code < len(seen) {
			seen[code] = true
		}
	}
	out := make([]int, 0, len(seen))
	for code, ok := range seen {
		if ok {
			out = append(out, code)
		}
	}
	return out
}

// Label returns the level label for a code, or the numeric rendering for
// numeric columns.
func (c *Column) Label(code int) string {
	if code >= 0 && code < len(c.Levels) {
		return c.Levels[code]
	}
	return fmt.Sprintf("%d", code)
}

// Table is a read-only collection of equal-length columns.
// Derivation methods return new views; the receiver is never mutated.
type Table struct {
	columns []Column
	byName  map[string]int
}

// New builds a table from columns, validating shape and name uniqueness
func New(columns ...Column) (*Table, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("table requires at least one column")
	}
	rows := len(columns[0].Values)
	byName := make(map[string]int, len(columns))
	for i, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("column %d has empty name", i)
		}
		if _, dup := byName[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		if len(col.Values) != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, len(col.Values), rows)
		}
		if col.Type.IsCategorical() && col.Levels == nil {
			return nil, fmt.Errorf("categorical column %q has no levels", col.Name)
		}
		byName[col.Name] = i
	}
	return &Table{columns: columns, byName: byName}, nil
}

// MustNew builds a table and panics on invalid input. Test helper.
func MustNew(columns ...Column) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.columns[0].Values)
}

// ColumnCount returns the number of columns
func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// Names returns column names in declaration order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// HasColumn reports whether a column exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Column returns the named column or a schema error
func (t *Table) Column(name string) (*Column, error) {
	idx, ok := t.byName[name]
	if !ok {
		return nil, core.NewColumnNotFoundError(name)
	}
	return &t.columns[idx], nil
}

// Columns returns all columns in declaration order
func (t *Table) Columns() []Column {
	return t.columns
}

// Project returns a view containing only the named columns, in the given
// order. Every name must exist.
func (t *Table) Project(names ...string) (*Table, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, *col)
	}
	return New(cols...)
}

// Drop returns a view without the named columns. Unknown names are ignored;
// the filter reports dropped columns separately.
func (t *Table) Drop(names ...string) *Table {
	skip := make(map[string]bool, len(names))
	for _, name := range names {
		skip[name] = true
	}
	cols := make([]Column, 0, len(t.columns))
	for _, col := range t.columns {
		if !skip[col.Name] {
			cols = append(cols, col)
		}
	}
	out, err := New(cols...)
	if err != nil {
		// Dropping every column is a caller bug worth failing loudly on.
		panic(fmt.Sprintf("drop removed all columns: %v", err))
	}
	return out
}
