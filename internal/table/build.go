package table

import (
	"fmt"
	"strconv"
	"strings"
)

// rawRow is one data line before typing
type rawRow struct {
	line  int
	cells []cell
}

type cell struct {
	raw  string
	null bool
}

// builder turns a header and raw rows into a typed table
type builder struct {
	path  string
	opts  LoadOptions
	nulls map[string]struct{}
}

func newBuilder(path string, opts LoadOptions) *builder {
	return &builder{path: path, opts: opts, nulls: opts.nullSet()}
}

func (b *builder) newCell(raw string) cell {
	_, null := b.nulls[strings.TrimSpace(raw)]
	return cell{raw: raw, null: null}
}

// fit checks a record against the header width, padding short records with
// nulls when the policy allows it.
func (b *builder) fit(line int, fields []string, width int) (rawRow, error) {
	if len(fields) > width {
		return rawRow{}, &ParseError{
			Path: b.path,
			Line: line,
			Err:  fmt.Errorf("%w: got %d, header has %d", ErrFieldCount, len(fields), width),
		}
	}
	if len(fields) < width && b.opts.MissingFields != MissingFieldsFill {
		return rawRow{}, &ParseError{
			Path: b.path,
			Line: line,
			Err:  fmt.Errorf("%w: got %d, header has %d", ErrFieldCount, len(fields), width),
		}
	}

	row := rawRow{line: line, cells: make([]cell, width)}
	for i := range width {
		if i < len(fields) {
			row.cells[i] = b.newCell(fields[i])
		} else {
			row.cells[i] = cell{null: true}
		}
	}
	return row, nil
}

// build types every column and assembles the table
func (b *builder) build(header []string, rows []rawRow) (*Table, error) {
	names := headerNames(header)
	columns := make([]Column, len(names))
	for c, name := range names {
		columns[c] = Column{Name: name, Type: b.columnType(name, c, rows)}
	}

	cells := make([][]any, len(rows))
	for r, row := range rows {
		values := make([]any, len(columns))
		for c, col := range columns {
			v, err := convert(row.cells[c], col.Type)
			if err != nil {
				return nil, &ParseError{
					Path:   b.path,
					Line:   row.line,
					Column: col.Name,
					Value:  row.cells[c].raw,
					Err:    fmt.Errorf("%w: %v", ErrInvalidValue, err),
				}
			}
			values[c] = v
		}
		cells[r] = values
	}

	return &Table{
		columns: columns,
		index:   indexOf(columns),
		rows:    cells,
	}, nil
}

func indexOf(columns []Column) map[string]int {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[col.Name] = i
	}
	return index
}

func (b *builder) columnType(name string, c int, rows []rawRow) ColumnType {
	if forced, ok := b.opts.ColumnTypes[name]; ok {
		return forced
	}
	if !b.opts.InferTypes {
		return TypeString
	}
	return inferType(rows, c)
}

// inferType picks the narrowest type every non-null cell parses as.
// All-null columns stay strings.
func inferType(rows []rawRow, c int) ColumnType {
	isInt, isFloat, isBool := true, true, true
	seen := false

	for _, row := range rows {
		cl := row.cells[c]
		if cl.null {
			continue
		}
		seen = true
		v := strings.TrimSpace(cl.raw)
		if isInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				isFloat = false
			}
		}
		if isBool {
			if _, err := parseBool(v); err != nil {
				isBool = false
			}
		}
		if !isInt && !isFloat && !isBool {
			return TypeString
		}
	}

	switch {
	case !seen:
		return TypeString
	case isInt:
		return TypeInt64
	case isFloat:
		return TypeFloat64
	case isBool:
		return TypeBool
	default:
		return TypeString
	}
}

func convert(cl cell, t ColumnType) (any, error) {
	if cl.null {
		return nil, nil
	}
	switch t {
	case TypeInt64:
		return strconv.ParseInt(strings.TrimSpace(cl.raw), 10, 64)
	case TypeFloat64:
		return strconv.ParseFloat(strings.TrimSpace(cl.raw), 64)
	case TypeBool:
		return parseBool(strings.TrimSpace(cl.raw))
	default:
		return cl.raw, nil
	}
}

// parseBool accepts true and false in any letter case
func parseBool(s string) (bool, error) {
	switch {
	case strings.EqualFold(s, "true"):
		return true, nil
	case strings.EqualFold(s, "false"):
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q", s)
	}
}

// headerNames names blank header cells "Unnamed: i" and suffixes repeated
// names with ".1", ".2" and so on.
func headerNames(header []string) []string {
	names := make([]string, len(header))
	taken := make(map[string]struct{}, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		names[i] = h
	}
	for _, n := range names {
		taken[n] = struct{}{}
	}

	counts := make(map[string]int, len(names))
	for i, n := range names {
		k := counts[n]
		counts[n] = k + 1
		if k == 0 {
			continue
		}
		candidate := fmt.Sprintf("%s.%d", n, k)
		for {
			if _, used := taken[candidate]; !used {
				break
			}
			k++
			candidate = fmt.Sprintf("%s.%d", n, k)
		}
		counts[n] = k + 1
		taken[candidate] = struct{}{}
		names[i] = candidate
	}
	return names
}
