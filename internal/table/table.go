package table

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "atscli/internal/errors"
)

// ColumnType is the value type shared by every non-null cell of a column
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeInt64
	TypeFloat64
	TypeBool
)

// String returns the type name used in configuration and reports
func (t ColumnType) String() string {
	switch t {
	case TypeInt64:
		return "int64"
	case TypeFloat64:
		return "float64"
	case TypeBool:
		return "bool"
	default:
		return "string"
	}
}

// ParseColumnType converts a type name back to a ColumnType
func ParseColumnType(name string) (ColumnType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string", "str":
		return TypeString, nil
	case "int64", "int":
		return TypeInt64, nil
	case "float64", "float":
		return TypeFloat64, nil
	case "bool":
		return TypeBool, nil
	default:
		return TypeString, fmt.Errorf("unknown column type %q", name)
	}
}

// Column describes one named, typed column
type Column struct {
	Name string
	Type ColumnType
}

// Table is an immutable in-memory collection of rows sharing a fixed set of
// named, typed columns. Cells hold int64, float64, bool, string or nil (null).
type Table struct {
	columns []Column
	index   map[string]int
	rows    [][]any
}

// New builds a table from columns and row-major cells. Column names must be
// unique, every row must have one cell per column, and each non-nil cell must
// match its column type.
func New(columns []Column, rows [][]any) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if _, dup := index[col.Name]; dup {
			return nil, apperrors.NewValidationError(fmt.Sprintf("duplicate column name %q", col.Name))
		}
		index[col.Name] = i
	}

	copied := make([][]any, len(rows))
	for r, row := range rows {
		if len(row) != len(columns) {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("row %d has %d cells, want %d", r, len(row), len(columns)))
		}
		for c, v := range row {
			if !cellMatches(v, columns[c].Type) {
				return nil, apperrors.NewValidationError(
					fmt.Sprintf("row %d column %q: %T is not %s", r, columns[c].Name, v, columns[c].Type))
			}
		}
		copied[r] = append([]any(nil), row...)
	}

	return &Table{
		columns: append([]Column(nil), columns...),
		index:   index,
		rows:    copied,
	}, nil
}

func cellMatches(v any, t ColumnType) bool {
	if v == nil {
		return true
	}
	switch v.(type) {
	case int64:
		return t == TypeInt64
	case float64:
		return t == TypeFloat64
	case bool:
		return t == TypeBool
	case string:
		return t == TypeString
	default:
		return false
	}
}

// NumRows returns the number of data rows
func (t *Table) NumRows() int { return len(t.rows) }

// NumColumns returns the number of columns
func (t *Table) NumColumns() int { return len(t.columns) }

// Shape returns (rows, columns)
func (t *Table) Shape() (int, int) { return len(t.rows), len(t.columns) }

// Columns returns a copy of the column definitions in header order
func (t *Table) Columns() []Column {
	return append([]Column(nil), t.columns...)
}

// ColumnNames returns the column names in header order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// ColumnIndex returns the position of the named column
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Column returns a copy of the named column's cells
func (t *Table) Column(name string) ([]any, error) {
	c, ok := t.index[name]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("column %q", name), nil)
	}
	values := make([]any, len(t.rows))
	for r, row := range t.rows {
		values[r] = row[c]
	}
	return values, nil
}

// Row returns a copy of the cells of row i
func (t *Table) Row(i int) ([]any, error) {
	if i < 0 || i >= len(t.rows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("row %d", i), nil)
	}
	return append([]any(nil), t.rows[i]...), nil
}

// Value returns the cell at row i in the named column
func (t *Table) Value(i int, column string) (any, error) {
	c, ok := t.index[column]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("column %q", column), nil)
	}
	if i < 0 || i >= len(t.rows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("row %d", i), nil)
	}
	return t.rows[i][c], nil
}

// Head returns a table holding the first n rows
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.rows) {
		n = len(t.rows)
	}
	return &Table{
		columns: t.columns,
		index:   t.index,
		rows:    t.rows[:n:n],
	}
}

// Records returns the header-less string form of every row, nulls as empty
// strings. Floats always carry a decimal point so they re-read as floats.
func (t *Table) Records() [][]string {
	records := make([][]string, len(t.rows))
	for r, row := range t.rows {
		rec := make([]string, len(row))
		for c, v := range row {
			rec[c] = FormatValue(v)
		}
		records[r] = rec
	}
	return records
}

// Equal reports whether both tables have the same columns and cells
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.columns) != len(other.columns) || len(t.rows) != len(other.rows) {
		return false
	}
	for i := range t.columns {
		if t.columns[i] != other.columns[i] {
			return false
		}
	}
	for r := range t.rows {
		for c := range t.rows[r] {
			if t.rows[r][c] != other.rows[r][c] {
				return false
			}
		}
	}
	return true
}

// FormatValue renders a cell the way it is written back to delimited text
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		s := strconv.FormatFloat(val, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
