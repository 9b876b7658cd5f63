// Package table loads delimited text and spreadsheets into immutable,
// column-typed in-memory tables.
//
// # Parsing
//
// The first row is the header. Blank header cells are named "Unnamed: i" and
// repeated names get ".1", ".2" suffixes. Cells equal to a configured null
// marker (NA, NaN, empty and so on) become nil. Each column is then typed as
// int64, float64, bool or string, whichever is the narrowest type all of its
// non-null cells parse as, unless a type is forced through ColumnTypes.
//
// Rows with more fields than the header are always rejected. Shorter rows are
// rejected unless MissingFields is "fill", in which case they are padded with
// nulls.
//
// # Loading
//
//	loader := table.NewLoader(opts, logger)
//	documents, err := loader.Load(ctx, paths.DocumentsCSV)
//	if errors.Is(err, fs.ErrNotExist) {
//		// dataset has not been produced yet
//	}
//
// Every load runs in a "table.load" span and is counted in the
// ats_tables_loaded, ats_table_rows, ats_table_load_errors and
// ats_table_load_duration_milliseconds metrics.
package table
