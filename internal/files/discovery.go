package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "atscli/internal/errors"
)

// Dataset file formats the loader understands
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// FileInfo represents information about a discovered dataset file
type FileInfo struct {
	Path    string
	Name    string
	Format  string
	Size    int64
	ModTime time.Time
}

// Discovery finds dataset files below a base directory
type Discovery struct {
	basePath string
}

// NewDiscovery creates a discovery rooted at basePath, usually the project root
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindCSVFiles finds all CSV files in dir, sorted by name
func (d *Discovery) FindCSVFiles(dir string) ([]FileInfo, error) {
	return d.list(dir, func(name string) bool {
		return formatOf(name) == FormatCSV
	})
}

// FindDatasetFiles finds every CSV and XLSX file in dir, sorted by name.
// Spreadsheet lock files left by office suites are skipped.
func (d *Discovery) FindDatasetFiles(dir string) ([]FileInfo, error) {
	return d.list(dir, func(name string) bool {
		return formatOf(name) != "" && !strings.HasPrefix(name, "~$")
	})
}

// FindFilesByPattern finds files in dir matching a glob pattern
func (d *Discovery) FindFilesByPattern(dir string, pattern string) ([]FileInfo, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid pattern %s: %v", pattern, err))
	}
	return d.list(dir, func(name string) bool {
		ok, _ := filepath.Match(pattern, name)
		return ok
	})
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

func (d *Discovery) list(dir string, match func(name string) bool) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewNotFoundError("directory "+fullPath, err)
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read directory %s", fullPath), err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !match(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Format:  formatOf(entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	// ReadDir already sorts by name
	return files, nil
}

// formatOf maps a file name to its dataset format, or "" if unsupported
func formatOf(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV
	case ".xlsx":
		return FormatXLSX
	default:
		return ""
	}
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}

	return latest, true
}

// SortByModTime orders files oldest first
func SortByModTime(files []FileInfo) {
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].ModTime.Before(files[j].ModTime)
	})
}
