package table

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "atscli/internal/errors"
	"atscli/internal/infrastructure"
)

const instrumentationName = "atscli/internal/table"

// Loader materialises files into tables. It keeps no state between loads.
type Loader struct {
	opts    LoadOptions
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.LoaderMetrics
}

// NewLoader creates a loader using the global tracer and meter providers
func NewLoader(opts LoadOptions, logger *slog.Logger) *Loader {
	logger = infrastructure.WithComponent(logger, "table_loader")

	metrics, err := infrastructure.CreateLoaderMetrics(otel.Meter(instrumentationName))
	if err != nil {
		logger.Warn("Table load metrics disabled", slog.String("error", err.Error()))
		metrics = nil
	}

	return &Loader{
		opts:    opts,
		logger:  logger,
		tracer:  otel.Tracer(instrumentationName),
		metrics: metrics,
	}
}

// Options returns the parsing options used by the loader
func (l *Loader) Options() LoadOptions {
	return l.opts
}

// Load reads the whole file at path into a table. Files ending in .xlsx are
// read as workbooks, everything else as delimited text. A missing file
// returns a not-found error that also matches fs.ErrNotExist.
func (l *Loader) Load(ctx context.Context, path string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dataset := datasetName(path)
	ctx, span := l.tracer.Start(ctx, "table.load", trace.WithAttributes(
		attribute.String("table.path", path),
		attribute.String("table.dataset", dataset),
	))
	defer span.End()

	start := time.Now()
	l.logger.InfoContext(ctx, "Loading table", slog.String("path", path))

	t, err := l.load(path)
	duration := time.Since(start)
	infrastructure.RecordTableLoad(ctx, l.metrics, dataset, rowsOf(t), duration, err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		l.logger.ErrorContext(ctx, "Table load failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, err
	}

	rows, cols := t.Shape()
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"table.rows":    rows,
		"table.columns": cols,
	})
	l.logger.InfoContext(ctx, "Table loaded",
		slog.String("path", path),
		slog.Int("rows", rows),
		slog.Int("columns", cols),
		slog.Duration("duration", duration))

	return t, nil
}

func (l *Loader) load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewNotFoundError("file "+path, err).WithContext("path", path)
		}
		return nil, apperrors.NewStorageError("failed to open file", err).WithContext("path", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, apperrors.NewStorageError("failed to stat file", err).WithContext("path", path)
	}
	if info.IsDir() {
		return nil, apperrors.NewStorageError("not a regular file", fmt.Errorf("%s is a directory", path)).
			WithContext("path", path)
	}

	var t *Table
	if isWorkbook(path) {
		t, err = readXLSX(path, f, l.opts)
	} else {
		t, err = readDelimited(path, f, l.opts)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to parse "+filepath.Base(path), err).
			WithContext("path", path)
	}
	return t, nil
}

func isWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// datasetName is the file name without its extension
func datasetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func rowsOf(t *Table) int {
	if t == nil {
		return 0
	}
	return t.NumRows()
}
