package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "sicli/internal/errors"
)

func openWorkbook(t *testing.T, path string) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestXLSXWriter_WriteTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	second := Table{
		Name:    "summary",
		Headers: []string{"subject", "mean"},
		Rows:    [][]any{{1, 212.5}},
	}

	w := NewXLSXWriter(quietLogger())
	require.NoError(t, w.WriteTables(path, sampleTable(), second))

	f := openWorkbook(t, path)
	assert.Equal(t, []string{"sample", "summary"}, f.GetSheetList())

	rows, err := f.GetRows("sample")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"N", "IPI_Number", "press_IPI", "isPressError"}, rows[0])
	assert.Equal(t, "IPI0", rows[1][1])
	assert.Equal(t, "450", rows[1][2])
	assert.Equal(t, "inf", rows[2][2])

	rows, err = f.GetRows("summary")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"subject", "mean"}, {"1", "212.5"}}, rows)
}

func TestXLSXWriter_Errors(t *testing.T) {
	w := NewXLSXWriter(nil)
	dir := t.TempDir()

	err := w.WriteTables(filepath.Join(dir, "empty.xlsx"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

	err = w.WriteTables(filepath.Join(dir, "dup.xlsx"), sampleTable(), sampleTable())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate sheet name")
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet3", sheetName("", 2))
	assert.Equal(t, "presses", sheetName("presses", 0))
	assert.Len(t, sheetName("a_table_name_that_is_far_too_long_for_excel", 0), maxSheetName)
}
