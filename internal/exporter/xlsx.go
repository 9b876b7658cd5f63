package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"atscli/internal/files"
	"atscli/internal/table"
)

// DefaultSheet is the sheet name used when none is given
const DefaultSheet = "Sheet1"

// XLSXWriter exports tables as single-sheet workbooks with typed cells
type XLSXWriter struct {
	manager *files.Manager
}

// NewXLSXWriter creates a new workbook writer
func NewXLSXWriter(manager *files.Manager) *XLSXWriter {
	return &XLSXWriter{manager: manager}
}

// WriteTable writes t to a workbook at filePath. The header row is bold and
// null cells are left empty.
func (w *XLSXWriter) WriteTable(filePath string, t *table.Table, sheet string) (string, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f, err := buildWorkbook(t, sheet)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return w.manager.WriteFile(filePath, func(out io.Writer) error {
		return f.Write(out)
	})
}

func buildWorkbook(t *table.Table, sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("invalid sheet name %q: %w", sheet, err)
		}
	}

	header := make([]interface{}, t.NumColumns())
	for i, name := range t.ColumnNames() {
		header[i] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		err = f.SetRowStyle(sheet, 1, 1, bold)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for r := range t.NumRows() {
		row, err := t.Row(r)
		if err != nil {
			f.Close()
			return nil, err
		}
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := setCell(f, sheet, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	return f, nil
}

func setCell(f *excelize.File, sheet, cell string, v any) error {
	switch val := v.(type) {
	case nil:
		return nil
	case int64:
		return f.SetCellInt(sheet, cell, val)
	case float64:
		return f.SetCellFloat(sheet, cell, val, -1, 64)
	case bool:
		return f.SetCellBool(sheet, cell, val)
	case string:
		return f.SetCellStr(sheet, cell, val)
	default:
		return f.SetCellValue(sheet, cell, val)
	}
}
