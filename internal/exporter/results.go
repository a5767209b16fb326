package exporter

import (
	"fmt"
	"log/slog"

	"sicli/internal/config"
	"sicli/internal/dataprocessing"
	"sicli/pkg/contracts/domain"
)

// TableWriter writes one table to a file.
type TableWriter interface {
	WriteTable(filePath string, t Table) error
}

// ResultExporter lays pipeline results out under the output directories.
type ResultExporter struct {
	paths  *config.Paths
	format Format
	csv    *CSVWriter
	xlsx   *XLSXWriter
}

// NewResultExporter creates an exporter writing in the given format.
func NewResultExporter(paths *config.Paths, format Format, bom bool, logger *slog.Logger) *ResultExporter {
	comma := ','
	if format == FormatTSV {
		comma = '\t'
	}
	return &ResultExporter{
		paths:  paths,
		format: format,
		csv:    NewCSVWriter(logger, CSVOptions{Comma: comma, BOMPrefix: bom}),
		xlsx:   NewXLSXWriter(logger),
	}
}

// Writer returns the table writer for the configured format.
func (e *ResultExporter) Writer() TableWriter {
	if e.format == FormatXLSX {
		return e.xlsx
	}
	return e.csv
}

func (e *ResultExporter) ext() string {
	return e.format.Extension()
}

// ExportSubject writes the press table and trial timings of one subject.
// Workbooks hold both as sheets; text formats get one file each.
func (e *ResultExporter) ExportSubject(res *dataprocessing.SubjectResult) error {
	presses := PressTable(res.Presses)
	trials := TimingTable(res.Timings)
	path := e.paths.GetPressPath(res.Subject, e.ext())

	if e.format == FormatXLSX {
		if err := e.xlsx.WriteTables(path, presses, trials); err != nil {
			return fmt.Errorf("export subject %d: %w", res.Subject, err)
		}
		return nil
	}

	if err := e.csv.WriteTable(path, presses); err != nil {
		return fmt.Errorf("export subject %d presses: %w", res.Subject, err)
	}
	if err := e.csv.WriteTable(e.paths.GetTrialPath(res.Subject, e.ext()), trials); err != nil {
		return fmt.Errorf("export subject %d trials: %w", res.Subject, err)
	}
	return nil
}

// ExportCombined writes the press rows of every subject into one table.
func (e *ResultExporter) ExportCombined(results []*dataprocessing.SubjectResult) error {
	var all []domain.AnnotatedPress
	for _, r := range results {
		all = append(all, r.Presses...)
	}
	if err := e.Writer().WriteTable(e.paths.GetCombinedPath(e.ext()), PressTable(all)); err != nil {
		return fmt.Errorf("export combined presses: %w", err)
	}
	return nil
}

// ExportSummaries writes the per-condition summaries and, when any were
// found, the interval anomalies of all subjects.
func (e *ResultExporter) ExportSummaries(results []*dataprocessing.SubjectResult) error {
	var summaries []dataprocessing.ConditionSummary
	var anomalies []dataprocessing.IntervalAnomaly
	for _, r := range results {
		summaries = append(summaries, r.Summaries...)
		anomalies = append(anomalies, r.Anomalies...)
	}

	summary := SummaryTable(summaries)
	if e.format == FormatXLSX {
		tables := []Table{summary}
		if len(anomalies) > 0 {
			tables = append(tables, AnomalyTable(anomalies))
		}
		if err := e.xlsx.WriteTables(e.paths.GetSummaryPath(e.ext()), tables...); err != nil {
			return fmt.Errorf("export summaries: %w", err)
		}
		return nil
	}

	if err := e.csv.WriteTable(e.paths.GetSummaryPath(e.ext()), summary); err != nil {
		return fmt.Errorf("export summaries: %w", err)
	}
	if len(anomalies) > 0 {
		if err := e.csv.WriteTable(e.paths.GetAnomalyPath(e.ext()), AnomalyTable(anomalies)); err != nil {
			return fmt.Errorf("export anomalies: %w", err)
		}
	}
	return nil
}

// ExportForces writes the long-format force table of one subject.
func (e *ResultExporter) ExportForces(subject int, events []domain.ForceEvent) error {
	if err := e.Writer().WriteTable(e.paths.GetForcePath(subject, e.ext()), ForceTable(events)); err != nil {
		return fmt.Errorf("export subject %d forces: %w", subject, err)
	}
	return nil
}

// ExportAll writes every subject, the combined table and the summaries.
func (e *ResultExporter) ExportAll(results []*dataprocessing.SubjectResult) error {
	for _, r := range results {
		if err := e.ExportSubject(r); err != nil {
			return err
		}
	}
	if err := e.ExportCombined(results); err != nil {
		return err
	}
	return e.ExportSummaries(results)
}
