// Package exporter writes pipeline results as long-format tables.
//
// Tables keep typed cells until a writer encodes them:
//
// CSVWriter: delimited text (comma or tab) with an optional UTF-8 BOM for
// Excel. Masked timings are written as "inf".
//
// XLSXWriter: one workbook per file, one sheet per table, numbers stored as
// numbers and masked timings as the text "inf".
//
// ResultExporter: places subject, combined, summary and force tables under
// the configured output directories.
//
// Example usage:
//
//	exp := exporter.NewResultExporter(paths, exporter.FormatCSV, false, logger)
//	if err := exp.ExportAll(results); err != nil {
//		return err
//	}
package exporter
