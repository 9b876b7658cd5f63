package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "atscli/internal/errors"
	"atscli/internal/files"
	"atscli/internal/infrastructure"
	"atscli/internal/report"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = files.FormatCSV
	FormatXLSX Format = files.FormatXLSX
)

// DefaultPrefix is prepended to dataset names to form file names
const DefaultPrefix = "ats_"

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", apperrors.NewValidationError(fmt.Sprintf("unsupported export format %q (want csv or xlsx)", name))
	}
}

// Exporter writes loaded datasets to the reports directory
type Exporter struct {
	csv    *CSVWriter
	xlsx   *XLSXWriter
	prefix string
	logger *slog.Logger
	tracer trace.Tracer
}

// New creates an exporter writing through manager
func New(manager *files.Manager, logger *slog.Logger) *Exporter {
	return &Exporter{
		csv:    NewCSVWriter(manager),
		xlsx:   NewXLSXWriter(manager),
		prefix: DefaultPrefix,
		logger: infrastructure.WithComponent(logger, "exporter"),
		tracer: otel.Tracer("atscli/internal/exporter"),
	}
}

// Export writes every table as <dir>/ats_<name>.<format> and returns the
// written paths in order. An empty dir means the reports directory itself.
func (e *Exporter) Export(ctx context.Context, tables []report.NamedTable, format Format, dir string) ([]string, error) {
	var written []string
	for _, nt := range tables {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		path, err := e.exportOne(ctx, nt, format, dir)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func (e *Exporter) exportOne(ctx context.Context, nt report.NamedTable, format Format, dir string) (string, error) {
	name := filepath.Join(dir, e.prefix+nt.Name+"."+string(format))

	ctx, span := e.tracer.Start(ctx, "table.export", trace.WithAttributes(
		attribute.String("table.dataset", nt.Name),
		attribute.String("export.format", string(format)),
	))
	defer span.End()

	var (
		path string
		err  error
	)
	switch format {
	case FormatCSV:
		path, err = e.csv.WriteTable(name, nt.Table, WriteOptions{BOMPrefix: true})
	case FormatXLSX:
		path, err = e.xlsx.WriteTable(name, nt.Table, nt.Name)
	default:
		err = apperrors.NewValidationError(fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return "", fmt.Errorf("failed to export %s: %w", nt.Name, err)
	}

	e.logger.InfoContext(ctx, "Dataset exported",
		slog.String("dataset", nt.Name),
		slog.String("format", string(format)),
		slog.String("path", path),
		slog.Int("rows", nt.Table.NumRows()))
	return path, nil
}
