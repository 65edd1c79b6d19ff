package dataprocessing

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// ErrRaggedTable is returned when a row does not have one cell per column.
var ErrRaggedTable = errors.New("table rows must have exactly one cell per column")

// Kind identifies what a Cell holds.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "empty"
	}
}

// Cell is a single spreadsheet value. The zero value is an empty cell.
type Cell struct {
	kind Kind
	text string
	num  float64
	date time.Time
}

// EmptyCell returns an absent value.
func EmptyCell() Cell { return Cell{} }

// TextCell returns a string value.
func TextCell(s string) Cell { return Cell{kind: KindText, text: s} }

// NumberCell returns a numeric value. NaN and infinities are stored as empty.
func NumberCell(f float64) Cell {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Cell{}
	}
	return Cell{kind: KindNumber, num: f}
}

// DateCell returns a date value.
func DateCell(t time.Time) Cell { return Cell{kind: KindDate, date: t} }

func (c Cell) Kind() Kind    { return c.kind }
func (c Cell) IsEmpty() bool { return c.kind == KindEmpty }

// Number returns the numeric value and whether the cell holds one.
func (c Cell) Number() (float64, bool) {
	return c.num, c.kind == KindNumber
}

// Date returns the date value and whether the cell holds one.
func (c Cell) Date() (time.Time, bool) {
	return c.date, c.kind == KindDate
}

// String renders the cell the way it is reported in names and categories.
func (c Cell) String() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case KindDate:
		if c.date.Hour() == 0 && c.date.Minute() == 0 && c.date.Second() == 0 {
			return c.date.Format(time.DateOnly)
		}
		return c.date.Format(time.DateTime)
	default:
		return ""
	}
}

// Value returns the cell as a JSON friendly value.
func (c Cell) Value() any {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return c.num
	case KindDate:
		return c.String()
	default:
		return nil
	}
}

// Column is a named table column. A column with a declared kind reports
// that kind regardless of the values it holds.
type Column struct {
	Name     string
	Declared Kind
}

// Table is a rectangular grid of cells with uniquely named columns.
// A Table is treated as immutable once built.
type Table struct {
	Columns []Column
	Rows    [][]Cell
}

// NewTable builds a table and verifies that every row matches the header width.
func NewTable(names []string, rows [][]Cell) (*Table, error) {
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i] = Column{Name: n}
	}
	for i, row := range rows {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", i, len(row), len(cols), ErrRaggedTable)
		}
	}
	if rows == nil {
		rows = [][]Cell{}
	}
	return &Table{Columns: cols, Rows: rows}, nil
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	if t == nil {
		return []string{}
	}
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnKind reports the kind of column i. Undeclared columns are inferred
// from their values: number or date when every present value has that kind,
// text when any value is a string or the kinds are mixed, empty when no value
// is present.
func (t *Table) ColumnKind(i int) Kind {
	if t.Columns[i].Declared != KindEmpty {
		return t.Columns[i].Declared
	}
	kind := KindEmpty
	for _, row := range t.Rows {
		k := row[i].kind
		switch {
		case k == KindEmpty:
			continue
		case k == KindText:
			return KindText
		case kind == KindEmpty:
			kind = k
		case kind != k:
			return KindText
		}
	}
	return kind
}

// NumericColumns returns the indexes of number-kind columns in order.
func (t *Table) NumericColumns() []int {
	var out []int
	for i := range t.Columns {
		if t.ColumnKind(i) == KindNumber {
			out = append(out, i)
		}
	}
	return out
}

// Records converts rows to ordered column/value objects.
func (t *Table) Records() []Record {
	names := t.ColumnNames()
	out := make([]Record, len(t.Rows))
	for i, row := range t.Rows {
		values := make([]any, len(row))
		for j, c := range row {
			values[j] = c.Value()
		}
		out[i] = Record{names: names, values: values}
	}
	return out
}

// Record is one row keyed by column name. It marshals to a JSON object
// that keeps column order.
type Record struct {
	names  []string
	values []any
}

// Get returns the value for the named column.
func (r Record) Get(name string) (any, bool) {
	for i, n := range r.names {
		if n == name {
			return r.values[i], true
		}
	}
	return nil, false
}

func (r Record) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, n := range r.names {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(n)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	return append(buf, '}'), nil
}
