// Package report loads the ATS documents and measures tables and prints a
// short description of each.
//
// Both tables are read from the processed documents directory under the
// project root. Loading is sequential and all-or-nothing: if either table
// fails to load, no datasets are returned and nothing is printed.
package report
