package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX parses one sheet of a workbook into a table. The first non-blank
// row is the header. Rows shorter than the header are padded with nulls
// because the format drops trailing empty cells.
func ReadXLSX(r io.Reader, opts LoadOptions) (*Table, error) {
	return readXLSX("", r, opts)
}

func readXLSX(path string, r io.Reader, opts LoadOptions) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("failed to open workbook: %w", err)}
	}
	defer f.Close()

	sheet, err := pickSheet(f, opts.Sheet)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("failed to read sheet %q: %w", sheet, err)}
	}

	start := -1
	for i, row := range rows {
		if !blankRow(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, &ParseError{Path: path, Err: ErrEmptyInput}
	}

	header := rows[start]
	fill := opts
	fill.MissingFields = MissingFieldsFill
	b := newBuilder(path, fill)

	var data []rawRow
	for i := start + 1; i < len(rows); i++ {
		if blankRow(rows[i]) {
			continue
		}
		row, err := b.fit(i+1, rows[i], len(header))
		if err != nil {
			return nil, err
		}
		data = append(data, row)
	}

	return b.build(header, data)
}

func pickSheet(f *excelize.File, name string) (string, error) {
	if name == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return "", ErrSheetNotFound
		}
		return sheets[0], nil
	}
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrSheetNotFound, name, err)
	}
	if idx < 0 {
		return "", fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	return name, nil
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
