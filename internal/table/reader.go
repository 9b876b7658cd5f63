package table

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// Read parses delimited text with a header row into a table
func Read(r io.Reader, opts LoadOptions) (*Table, error) {
	return readDelimited("", r, opts)
}

func readDelimited(path string, r io.Reader, opts LoadOptions) (*Table, error) {
	dec, err := decoderFor(opts.Encoding)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	cr := csv.NewReader(dec.Reader(r))
	cr.Comma = opts.Delimiter
	cr.Comment = opts.Comment
	cr.TrimLeadingSpace = opts.TrimSpace
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Path: path, Err: ErrEmptyInput}
	}
	if err != nil {
		return nil, csvError(path, err)
	}

	b := newBuilder(path, opts)
	var rows []rawRow
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(path, err)
		}
		if blankRecord(record, len(header)) {
			continue
		}

		line, _ := cr.FieldPos(0)
		row, err := b.fit(line, record, len(header))
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return b.build(header, rows)
}

// blankRecord reports a line holding only whitespace. encoding/csv already
// drops empty lines. A quoted empty field ("") in a single-column file is
// not blank: it is a null cell.
func blankRecord(record []string, width int) bool {
	if len(record) != 1 || strings.TrimSpace(record[0]) != "" {
		return false
	}
	return width > 1 || record[0] != ""
}

// csvError keeps the line reported by encoding/csv
func csvError(path string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Path: path, Line: pe.Line, Err: pe.Err}
	}
	return &ParseError{Path: path, Err: err}
}
