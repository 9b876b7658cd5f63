// Package files provides file system discovery and output utilities for
// atscli.
//
// This package contains two main components:
//
// Discovery: Finds dataset files (CSV and XLSX) in a directory, matches
// files against glob patterns and picks the most recently modified file.
//
// Manager: Resolves output paths against the project directories and writes
// files atomically, so an interrupted export never leaves a truncated file.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.ProjectRoot)
//	datasets, err := discovery.FindDatasetFiles(paths.DocumentsDir)
//
//	manager := files.NewManager(paths, logger)
//	written, err := manager.WriteFile("documents.csv", func(w io.Writer) error {
//		return writeCSV(w)
//	})
package files
