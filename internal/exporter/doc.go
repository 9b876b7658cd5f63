// Package exporter writes loaded tables back out as CSV or XLSX files.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing with an optional UTF-8 BOM for Excel
// compatibility. Floats always keep a decimal point and nulls become empty
// fields, so re-loading an exported file yields an equal table.
//
// XLSXWriter: Single-sheet workbooks with typed cells and a bold header row.
//
// Exporter: Writes a set of named datasets in one format, naming each file
// ats_<dataset>.<format>.
//
// All writes go through files.Manager, so relative paths land in the reports
// directory and files are replaced atomically.
//
// Example usage:
//
//	exp := exporter.New(files.NewManager(paths, logger), logger)
//	written, err := exp.Export(ctx, datasets.Named(), exporter.FormatCSV, "")
package exporter
