package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "atscli/internal/errors"
)

func createFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("a\n1\n"), 0644))
	}
}

func names(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func TestNewDiscovery(t *testing.T) {
	basePath := "/test/base"
	discovery := NewDiscovery(basePath)

	assert.NotNil(t, discovery)
	assert.Equal(t, basePath, discovery.basePath)
}

func TestFindDatasetFiles(t *testing.T) {
	tests := []struct {
		name        string
		files       []string
		expected    []string
		description string
	}{
		{
			name:        "documents directory",
			files:       []string{"ats_measures.csv", "ats_documents.csv", "ats_documents.xlsx"},
			expected:    []string{"ats_documents.csv", "ats_documents.xlsx", "ats_measures.csv"},
			description: "Should find CSV and XLSX files sorted by name",
		},
		{
			name:        "mixed file types",
			files:       []string{"report.xlsx", "data.CSV", "doc.pdf", "legacy.xls", "notes.txt"},
			expected:    []string{"data.CSV", "report.xlsx"},
			description: "Should skip unsupported formats",
		},
		{
			name:        "spreadsheet lock file",
			files:       []string{"~$ats_documents.xlsx", "ats_documents.xlsx"},
			expected:    []string{"ats_documents.xlsx"},
			description: "Should skip office lock files",
		},
		{
			name:        "empty directory",
			files:       nil,
			expected:    []string{},
			description: "Should handle empty directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			createFiles(t, filepath.Join(root, "data"), tt.files...)

			files, err := NewDiscovery(root).FindDatasetFiles("data")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names(files), tt.description)
		})
	}
}

func TestFindDatasetFiles_Metadata(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, "ats_documents.csv", "ats_documents.xlsx")
	require.NoError(t, os.Mkdir(filepath.Join(root, "nested.csv"), 0755))

	files, err := NewDiscovery(root).FindDatasetFiles(root)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, filepath.Join(root, "ats_documents.csv"), files[0].Path)
	assert.Equal(t, FormatCSV, files[0].Format)
	assert.Equal(t, int64(4), files[0].Size)
	assert.Equal(t, FormatXLSX, files[1].Format)
	assert.False(t, files[0].ModTime.IsZero())
}

func TestFindCSVFiles(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, "a.csv", "b.xlsx", "c.Csv")

	files, err := NewDiscovery(root).FindCSVFiles(".")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv", "c.Csv"}, names(files))
}

func TestFindFilesByPattern(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, "ats_documents.csv", "ats_measures.csv", "other.csv")

	tests := []struct {
		pattern  string
		expected []string
	}{
		{"ats_*.csv", []string{"ats_documents.csv", "ats_measures.csv"}},
		{"*_measures.*", []string{"ats_measures.csv"}},
		{"*.xlsx", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			files, err := NewDiscovery(root).FindFilesByPattern("", tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names(files))
		})
	}
}

func TestFindFilesByPattern_InvalidPattern(t *testing.T) {
	_, err := NewDiscovery(t.TempDir()).FindFilesByPattern("", "[")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestMissingDirectory(t *testing.T) {
	_, err := NewDiscovery(t.TempDir()).FindDatasetFiles("data/processed/documents")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGetLatestFile(t *testing.T) {
	tests := []struct {
		name        string
		files       []FileInfo
		expectFound bool
		expectedIdx int
		description string
	}{
		{
			name: "multiple files with different times",
			files: []FileInfo{
				{Name: "old.csv", ModTime: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
				{Name: "latest.csv", ModTime: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)},
				{Name: "middle.csv", ModTime: time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)},
			},
			expectFound: true,
			expectedIdx: 1,
			description: "Should return file with latest modification time",
		},
		{
			name:        "empty slice",
			files:       []FileInfo{},
			expectFound: false,
			description: "Should return false for empty slice",
		},
		{
			name: "files with same time",
			files: []FileInfo{
				{Name: "file1.csv", ModTime: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
				{Name: "file2.csv", ModTime: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
			},
			expectFound: true,
			expectedIdx: 0,
			description: "Should return first file when times are equal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			latest, found := GetLatestFile(tt.files)

			assert.Equal(t, tt.expectFound, found, tt.description)
			if tt.expectFound {
				assert.Equal(t, tt.files[tt.expectedIdx].Name, latest.Name)
			}
		})
	}
}

func TestSortByModTime(t *testing.T) {
	base := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	files := []FileInfo{
		{Name: "c", ModTime: base.Add(2 * time.Hour)},
		{Name: "a", ModTime: base},
		{Name: "b", ModTime: base.Add(time.Hour)},
	}

	SortByModTime(files)
	assert.Equal(t, []string{"a", "b", "c"}, names(files))
}
