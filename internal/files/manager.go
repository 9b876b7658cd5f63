package files

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"atscli/internal/config"
	apperrors "atscli/internal/errors"
)

// Manager writes output files below the project directories. Writes go to a
// temporary file that is renamed into place, so a failed export never leaves
// a truncated report behind.
type Manager struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{paths: paths, logger: logger}
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	return config.FileExists(m.ResolvePath(path))
}

// EnsureDirectory creates a directory and its parents if missing
func (m *Manager) EnsureDirectory(path string) error {
	fullPath := m.ResolvePath(path)

	m.logger.Debug("Ensuring directory exists",
		slog.String("path", path),
		slog.String("full_path", fullPath))

	if err := os.MkdirAll(fullPath, 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err).WithContext("path", fullPath)
	}
	return nil
}

// WriteFile atomically replaces path with whatever write produces and
// returns the absolute path written.
func (m *Manager) WriteFile(path string, write func(w io.Writer) error) (string, error) {
	fullPath := m.ResolvePath(path)
	dir := filepath.Dir(fullPath)

	if err := m.EnsureDirectory(dir); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*.tmp")
	if err != nil {
		return "", apperrors.NewStorageError("failed to create temporary file", err).WithContext("path", fullPath)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if err := write(tmp); err != nil {
		tmp.Close()
		return "", apperrors.NewStorageError("failed to write file", err).WithContext("path", fullPath)
	}
	if err := tmp.Close(); err != nil {
		return "", apperrors.NewStorageError("failed to close file", err).WithContext("path", fullPath)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return "", apperrors.NewStorageError("failed to set file mode", err).WithContext("path", fullPath)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		return "", apperrors.NewStorageError("failed to move file into place", err).WithContext("path", fullPath)
	}

	m.logger.Info("File written", slog.String("path", fullPath))
	return fullPath, nil
}

// RelativePath returns fullPath relative to the project root
func (m *Manager) RelativePath(fullPath string) (string, error) {
	return filepath.Rel(m.paths.ProjectRoot, fullPath)
}

// ResolvePath resolves path against the project directories. Paths starting
// with "logs/" or "data/" go to those directories, other relative paths go
// to the reports directory.
func (m *Manager) ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	slashed := filepath.ToSlash(path)
	switch {
	case strings.HasPrefix(slashed, "reports/"):
		return m.paths.GetReportPath(strings.TrimPrefix(slashed, "reports/"))
	case strings.HasPrefix(slashed, "logs/"):
		return m.paths.GetLogPath(strings.TrimPrefix(slashed, "logs/"))
	case strings.HasPrefix(slashed, "data/"):
		return filepath.Join(m.paths.DataDir, filepath.FromSlash(strings.TrimPrefix(slashed, "data/")))
	default:
		return m.paths.GetReportPath(path)
	}
}
