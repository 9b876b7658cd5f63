package table

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// workbook builds an in-memory workbook with one sheet per entry
func workbook(t *testing.T, sheets map[string][][]interface{}, order ...string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	buf := new(bytes.Buffer)
	require.NoError(t, f.Write(buf))
	return buf
}

func TestReadXLSX_FirstSheet(t *testing.T) {
	buf := workbook(t, map[string][][]interface{}{
		"documents": {
			{"doc_id", "pages", "score", "published"},
			{"a1", 12, 0.5, true},
			{"a2", 7, 1.25, false},
		},
		"other": {{"x"}, {"y"}},
	}, "documents", "other")

	tbl, err := ReadXLSX(buf, DefaultLoadOptions())
	require.NoError(t, err)

	assert.Equal(t, []Column{
		{Name: "doc_id", Type: TypeString},
		{Name: "pages", Type: TypeInt64},
		{Name: "score", Type: TypeFloat64},
		{Name: "published", Type: TypeBool},
	}, tbl.Columns())

	row, err := tbl.Row(1)
	require.NoError(t, err)
	assert.Equal(t, []any{"a2", int64(7), 1.25, false}, row)
}

func TestReadXLSX_NamedSheet(t *testing.T) {
	buf := workbook(t, map[string][][]interface{}{
		"first":    {{"a"}, {"1"}},
		"measures": {{"measure", "value"}, {"wc", 10}},
	}, "first", "measures")

	opts := DefaultLoadOptions()
	opts.Sheet = "measures"
	tbl, err := ReadXLSX(buf, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"measure", "value"}, tbl.ColumnNames())
}

func TestReadXLSX_MissingSheet(t *testing.T) {
	buf := workbook(t, map[string][][]interface{}{"first": {{"a"}}}, "first")

	opts := DefaultLoadOptions()
	opts.Sheet = "absent"
	_, err := ReadXLSX(buf, opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSheetNotFound))
}

func TestReadXLSX_ShortRowsPadded(t *testing.T) {
	buf := workbook(t, map[string][][]interface{}{
		"data": {
			{"a", "b", "c"},
			{1, 2},
			{},
			{3, 4, 5},
		},
	}, "data")

	tbl, err := ReadXLSX(buf, DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumRows())

	c, err := tbl.Column("c")
	require.NoError(t, err)
	assert.Equal(t, []any{nil, int64(5)}, c)
}

func TestReadXLSX_EmptySheet(t *testing.T) {
	buf := workbook(t, map[string][][]interface{}{"empty": nil}, "empty")

	_, err := ReadXLSX(buf, DefaultLoadOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestReadXLSX_NotAWorkbook(t *testing.T) {
	_, err := ReadXLSX(bytes.NewBufferString("id,title\n1,x\n"), DefaultLoadOptions())
	require.Error(t, err)

	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
}
