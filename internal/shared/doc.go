// Package shared holds helpers used across the atscli packages that belong to
// no single layer.
//
// The testutil subpackage captures slog output so tests can assert on what a
// component logged:
//
//	logger, handler := testutil.NewTestLogger(t)
//	loader := table.NewLoader(table.DefaultLoadOptions(), logger)
//	...
//	testutil.AssertLogContains(t, handler, slog.LevelError, "Table load failed")
package shared
