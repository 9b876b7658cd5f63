package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atscli/internal/infrastructure"
)

const (
	documentsCSV = "id,title\n1,Report A\n"
	measuresCSV  = "id,value\n1,\n"
)

// setupProject creates a project root with a .git marker and, when content is
// given, the two dataset files.
func setupProject(t *testing.T, documents, measures string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))

	dir := filepath.Join(root, "data", "processed", "documents")
	require.NoError(t, os.MkdirAll(dir, 0755))
	if documents != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "ats_documents.csv"), []byte(documents), 0644))
	}
	if measures != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "ats_measures.csv"), []byte(measures), 0644))
	}
	return root
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("ATS_LOGGING_OUTPUT", "console")
	t.Setenv("ATS_LOGGING_LEVEL", "warn")

	previous := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(previous)
		infrastructure.ResetLoggerForTesting()
	})

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_DescribesDatasets(t *testing.T) {
	root := setupProject(t, documentsCSV, measuresCSV)

	code, stdout, stderr := runCLI(t, "--root", root)
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, "documents: 1 rows x 2 columns")
	assert.Contains(t, stdout, "measures: 1 rows x 2 columns")
	assert.Contains(t, stdout, "Report A")
	assert.Contains(t, stdout, "<null>")
}

func TestRun_DiscoversRootFromWorkingDirectory(t *testing.T) {
	root := setupProject(t, documentsCSV, measuresCSV)
	nested := filepath.Join(root, "notebooks", "eda")
	require.NoError(t, os.MkdirAll(nested, 0755))
	t.Chdir(nested)

	code, stdout, stderr := runCLI(t)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "documents: 1 rows x 2 columns")
}

func TestRun_HeadLimitsPreview(t *testing.T) {
	root := setupProject(t, "id\n1\n2\n3\n", "id\n9\n")

	code, stdout, stderr := runCLI(t, "--root", root, "--head", "1")
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, "documents: 3 rows x 1 columns")
	assert.NotContains(t, stdout, "  2\n")
}

func TestRun_MissingDatasetFails(t *testing.T) {
	root := setupProject(t, documentsCSV, "")

	code, stdout, stderr := runCLI(t, "--root", root)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error: failed to load measures")
	assert.Contains(t, stderr, "ats_measures.csv")
}

func TestRun_MissingFieldsPolicy(t *testing.T) {
	root := setupProject(t, "id,title\n1\n", measuresCSV)

	code, _, stderr := runCLI(t, "--root", root)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "failed to load documents")

	code, stdout, stderr := runCLI(t, "--root", root, "--fill-missing")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "documents: 1 rows x 2 columns")
}

func TestRun_InvalidRoot(t *testing.T) {
	code, stdout, stderr := runCLI(t, "--root", filepath.Join(t.TempDir(), "absent"))
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error:")
}

func TestRun_Paths(t *testing.T) {
	root := setupProject(t, documentsCSV, "")

	code, stdout, stderr := runCLI(t, "--root", root, "paths")
	require.Equal(t, 0, code, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "project_root"))
	assert.True(t, strings.HasSuffix(lines[5], "ok"), lines[5])
	assert.True(t, strings.HasSuffix(lines[6], "missing"), lines[6])
}

func TestRun_List(t *testing.T) {
	root := setupProject(t, documentsCSV, measuresCSV)
	dir := filepath.Join(root, "data", "processed", "documents")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ats_documents.xlsx"), []byte("stub"), 0644))

	base := time.Now().Add(-time.Hour)
	touch := func(name string, age time.Duration) {
		mod := base.Add(-age)
		require.NoError(t, os.Chtimes(filepath.Join(dir, name), mod, mod))
	}
	touch("ats_documents.csv", 0)
	touch("ats_documents.xlsx", 2*time.Minute)
	touch("ats_measures.csv", time.Minute)

	listed := func(args ...string) []string {
		t.Helper()
		code, stdout, stderr := runCLI(t, append([]string{"--root", root, "list"}, args...)...)
		require.Equal(t, 0, code, stderr)
		return strings.Split(strings.TrimSpace(stdout), "\n")
	}

	lines := listed()
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ats_documents.csv"))
	assert.True(t, strings.HasSuffix(lines[0], "latest"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "ats_documents.xlsx"))
	assert.NotContains(t, lines[1], "latest")
	assert.True(t, strings.HasPrefix(lines[2], "ats_measures.csv"))
	assert.NotContains(t, lines[2], "latest")

	lines = listed("--by-time")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ats_documents.xlsx"))
	assert.True(t, strings.HasPrefix(lines[1], "ats_measures.csv"))
	assert.True(t, strings.HasPrefix(lines[2], "ats_documents.csv"))

	lines = listed("--csv")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "ats_measures.csv"))

	lines = listed("--pattern", "*.txt")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "notes.txt"))
	assert.True(t, strings.HasSuffix(lines[0], "latest"), lines[0])
}

func TestRun_ListInvalidPattern(t *testing.T) {
	root := setupProject(t, documentsCSV, measuresCSV)

	code, stdout, stderr := runCLI(t, "--root", root, "list", "--pattern", "[")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "invalid pattern")
}

func TestRun_MissingDocumentsDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))

	code, stdout, stderr := runCLI(t, "--root", root)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "[NOT_FOUND] directory "+filepath.Join(root, "data", "processed", "documents"))

	code, _, stderr = runCLI(t, "--root", root, "export")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "[NOT_FOUND] directory")
	assert.NoFileExists(t, filepath.Join(root, "reports", "ats_documents.csv"))
}

func TestRun_Export(t *testing.T) {
	root := setupProject(t, documentsCSV, measuresCSV)

	code, stdout, stderr := runCLI(t, "--root", root, "export", "--format", "xlsx", "--out", "snapshot")
	require.Equal(t, 0, code, stderr)

	want := []string{
		filepath.Join("reports", "snapshot", "ats_documents.xlsx"),
		filepath.Join("reports", "snapshot", "ats_measures.xlsx"),
	}
	assert.Equal(t, want, strings.Split(strings.TrimSpace(stdout), "\n"))
	for _, path := range want {
		assert.FileExists(t, filepath.Join(root, path))
	}
}

func TestRun_ExportOutsideProjectRoot(t *testing.T) {
	root := setupProject(t, documentsCSV, measuresCSV)
	out := t.TempDir()

	code, stdout, stderr := runCLI(t, "--root", root, "export", "--out", out)
	require.Equal(t, 0, code, stderr)

	want := []string{
		filepath.Join(out, "ats_documents.csv"),
		filepath.Join(out, "ats_measures.csv"),
	}
	assert.Equal(t, want, strings.Split(strings.TrimSpace(stdout), "\n"))
}

func TestRun_ExportUnknownFormat(t *testing.T) {
	root := setupProject(t, documentsCSV, measuresCSV)

	code, stdout, stderr := runCLI(t, "--root", root, "export", "--format", "json")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error:")
}

func TestRun_MetricsFile(t *testing.T) {
	root := setupProject(t, documentsCSV, measuresCSV)
	t.Setenv("ATS_TELEMETRY_METRICS_FILE", "reports/metrics.prom")

	code, _, stderr := runCLI(t, "--root", root)
	require.Equal(t, 0, code, stderr)

	content, err := os.ReadFile(filepath.Join(root, "reports", "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "ats_tables_loaded")
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "1.0.0")
}

func TestRun_Check(t *testing.T) {
	root := setupProject(t, documentsCSV, "")

	code, stdout, stderr := runCLI(t, "--root", root, "check")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "ats_measures.csv not found")

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ok"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "FAIL"), lines[1])

	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "processed", "documents", "ats_measures.csv"), []byte(measuresCSV), 0644))
	code, _, stderr = runCLI(t, "--root", root, "check")
	assert.Equal(t, 0, code, stderr)
}
