package table

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldCount marks a row whose field count differs from the header
	ErrFieldCount = errors.New("wrong number of fields")
	// ErrEmptyInput marks input without a header row
	ErrEmptyInput = errors.New("no header row")
	// ErrInvalidValue marks a cell that does not parse as its column type
	ErrInvalidValue = errors.New("invalid value")
	// ErrSheetNotFound marks a missing spreadsheet sheet
	ErrSheetNotFound = errors.New("sheet not found")
)

// ParseError reports where in a file parsing failed
type ParseError struct {
	Path   string
	Line   int // 1-based, 0 when unknown
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.Path
	if msg == "" {
		msg = "input"
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("%s:%d", msg, e.Line)
	}
	if e.Column != "" {
		msg = fmt.Sprintf("%s: column %q", msg, e.Column)
	}
	if e.Value != "" {
		msg = fmt.Sprintf("%s: value %q", msg, e.Value)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
