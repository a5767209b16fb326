package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "sicli/internal/errors"
)

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

// XLSXWriter writes tables as worksheets of one workbook.
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a new workbook writer
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger}
}

// WriteTable writes a workbook holding a single sheet.
func (w *XLSXWriter) WriteTable(filePath string, t Table) error {
	return w.WriteTables(filePath, t)
}

// WriteTables writes one sheet per table, in order. Sheet names come from
// the table names and must be unique.
func (w *XLSXWriter) WriteTables(filePath string, tables ...Table) error {
	if len(tables) == 0 {
		return apperrors.NewAppValidationError("no tables to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	seen := make(map[string]bool, len(tables))
	for i, t := range tables {
		name := sheetName(t.Name, i)
		if seen[name] {
			return apperrors.NewAppValidationError(fmt.Sprintf("duplicate sheet name %q", name))
		}
		seen[name] = true

		if i == 0 {
			if err := f.SetSheetName(first, name); err != nil {
				return fmt.Errorf("rename sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}

		if err := writeSheet(f, name, t); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err).WithContext("path", filePath)
	}
	if err := f.SaveAs(filePath); err != nil {
		return apperrors.NewStorageError("failed to save workbook", err).WithContext("path", filePath)
	}

	w.logger.Info("workbook written",
		slog.String("path", filePath),
		slog.Int("sheets", len(tables)))
	return nil
}

func writeSheet(f *excelize.File, sheet string, t Table) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("open sheet %q: %w", sheet, err)
	}

	header := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}

	for r, row := range t.Rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = sheetCell(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, r+1, err)
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, r+1, err)
		}
	}
	return sw.Flush()
}

func sheetName(name string, i int) string {
	if name == "" {
		name = fmt.Sprintf("Sheet%d", i+1)
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}
