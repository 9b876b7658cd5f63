package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "atscli/internal/errors"
)

// ErrProjectRootNotFound is wrapped by every project root resolution failure.
var ErrProjectRootNotFound = errors.New("project root not found")

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	ProjectRoot  string
	DataDir      string
	DocumentsDir string
	ReportsDir   string
	LogsDir      string

	// Well-known dataset files
	DocumentsCSV string
	MeasuresCSV  string
}

// ResolvePath joins root and segments in order and returns the absolute,
// cleaned result. The path is not required to exist.
func ResolvePath(root string, segments ...string) string {
	joined := filepath.Join(append([]string{root}, segments...)...)
	if filepath.IsAbs(joined) {
		return joined
	}
	abs, err := filepath.Abs(joined)
	if err != nil {
		return joined
	}
	return abs
}

// FindProjectRoot walks upward from start and returns the first directory
// containing any of the markers.
func FindProjectRoot(start string, markers []string) (string, error) {
	if len(markers) == 0 {
		return "", apperrors.NewProjectRootError("no project markers configured", ErrProjectRootNotFound)
	}

	dir, err := filepath.Abs(start)
	if err != nil {
		return "", apperrors.NewProjectRootError(
			fmt.Sprintf("cannot make %s absolute", start),
			fmt.Errorf("%w: %v", ErrProjectRootNotFound, err))
	}

	for {
		for _, marker := range markers {
			if FileExists(filepath.Join(dir, marker)) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", apperrors.NewProjectRootError(
		fmt.Sprintf("no project marker found above %s", start), ErrProjectRootNotFound).
		WithContext("markers", markers)
}

// NewPaths builds the application paths under an explicit project root.
// The root must be an existing directory.
func NewPaths(root string, cfg PathsConfig) (*Paths, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, apperrors.NewProjectRootError(
			fmt.Sprintf("cannot make %s absolute", root),
			fmt.Errorf("%w: %v", ErrProjectRootNotFound, err))
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, apperrors.NewProjectRootError(
			fmt.Sprintf("project root %s is not an accessible directory", abs), ErrProjectRootNotFound)
	}

	cfg = cfg.withDefaults()
	documentsDir := ResolvePath(abs, filepath.FromSlash(cfg.DocumentsDir))

	return &Paths{
		ProjectRoot:  abs,
		DataDir:      ResolvePath(abs, DefaultDataDir),
		DocumentsDir: documentsDir,
		ReportsDir:   ResolvePath(abs, filepath.FromSlash(cfg.ReportsDir)),
		LogsDir:      ResolvePath(abs, filepath.FromSlash(cfg.LogsDir)),
		DocumentsCSV: ResolvePath(documentsDir, cfg.DocumentsFile),
		MeasuresCSV:  ResolvePath(documentsDir, cfg.MeasuresFile),
	}, nil
}

// GetPaths returns the application paths. An explicitly configured project
// root wins; otherwise the root is discovered upward from the working directory.
func GetPaths(cfg PathsConfig) (*Paths, error) {
	if cfg.ProjectRoot != "" {
		return NewPaths(cfg.ProjectRoot, cfg)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, apperrors.NewProjectRootError("failed to get working directory",
			fmt.Errorf("%w: %v", ErrProjectRootNotFound, err))
	}

	markers := cfg.Markers
	if len(markers) == 0 {
		markers = DefaultMarkers
	}

	root, err := FindProjectRoot(wd, markers)
	if err != nil {
		return nil, err
	}

	slog.Debug("Resolved project root",
		slog.String("working_dir", wd),
		slog.String("project_root", root))

	return NewPaths(root, cfg)
}

// EnsureDirectories creates the output directories if they don't exist.
// Data directories are inputs and are never created.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to create directory %s", dir), err)
		}
	}
	return nil
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("project_root", p.ProjectRoot),
			slog.String("data", p.DataDir),
			slog.String("documents", p.DocumentsDir),
			slog.String("reports", p.ReportsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("datasets",
			slog.String("documents_csv", p.DocumentsCSV),
			slog.Bool("documents_exists", FileExists(p.DocumentsCSV)),
			slog.String("measures_csv", p.MeasuresCSV),
			slog.Bool("measures_exists", FileExists(p.MeasuresCSV)),
		))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
