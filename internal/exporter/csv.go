package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "sicli/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions configures delimiter and BOM handling
type CSVOptions struct {
	Comma     rune // ',' when zero
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// CSVWriter provides delimited-text export functionality
type CSVWriter struct {
	logger *slog.Logger
	opts   CSVOptions
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger, opts CSVOptions) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Comma == 0 {
		opts.Comma = ','
	}
	return &CSVWriter{logger: logger, opts: opts}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers []string
	Records [][]string
	Append  bool
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Debug("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err).WithContext("path", filePath)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(filePath, flags, 0644)
	if err != nil {
		return apperrors.NewStorageError("failed to open file", err).WithContext("path", filePath)
	}
	defer file.Close()

	if w.opts.BOMPrefix && !options.Append {
		if _, err := file.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := w.newWriter(file)
	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// AppendToCSV appends records to an existing CSV file
func (w *CSVWriter) AppendToCSV(filePath string, records [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{Records: records, Append: true})
}

// WriteTable streams a table to filePath, replacing any existing file.
func (w *CSVWriter) WriteTable(filePath string, t Table) error {
	stream, err := w.CreateStreamWriter(filePath, t.Headers)
	if err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := stream.WriteRecord(record(row)); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write %s row: %w", t.Name, err)
		}
	}
	if err := stream.Close(); err != nil {
		return apperrors.NewStorageError("failed to finish "+t.Name+" table", err).WithContext("path", filePath)
	}

	w.logger.Info("table written",
		slog.String("table", t.Name),
		slog.String("path", filePath),
		slog.Int("rows", len(t.Rows)))
	return nil
}

// StreamWriter provides streaming CSV writing for large datasets
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter creates a new streaming CSV writer
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create directory", err).WithContext("path", filePath)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to create file", err).WithContext("path", filePath)
	}

	if w.opts.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := w.newWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{file: file, writer: writer}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

func (w *CSVWriter) newWriter(f *os.File) *csv.Writer {
	cw := csv.NewWriter(f)
	cw.Comma = w.opts.Comma
	return cw
}
