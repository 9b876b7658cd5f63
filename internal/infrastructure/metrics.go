package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	apperrors "atscli/internal/errors"
)

// LoaderMetrics holds the instruments recorded for every table load
type LoaderMetrics struct {
	TablesLoaded metric.Int64Counter
	RowsLoaded   metric.Int64Counter
	LoadErrors   metric.Int64Counter
	LoadDuration metric.Float64Histogram
}

// CreateLoaderMetrics registers the table load instruments on meter
func CreateLoaderMetrics(meter metric.Meter) (*LoaderMetrics, error) {
	tablesLoaded, err := meter.Int64Counter(
		"ats_tables_loaded",
		metric.WithDescription("Number of tables loaded successfully"),
	)
	if err != nil {
		return nil, err
	}

	rowsLoaded, err := meter.Int64Counter(
		"ats_table_rows",
		metric.WithDescription("Number of data rows loaded"),
	)
	if err != nil {
		return nil, err
	}

	loadErrors, err := meter.Int64Counter(
		"ats_table_load_errors",
		metric.WithDescription("Number of failed table loads"),
	)
	if err != nil {
		return nil, err
	}

	loadDuration, err := meter.Float64Histogram(
		"ats_table_load_duration_milliseconds",
		metric.WithDescription("Table load duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &LoaderMetrics{
		TablesLoaded: tablesLoaded,
		RowsLoaded:   rowsLoaded,
		LoadErrors:   loadErrors,
		LoadDuration: loadDuration,
	}, nil
}

// RecordTableLoad records the outcome of one load
func RecordTableLoad(ctx context.Context, m *LoaderMetrics, dataset string, rows int, duration time.Duration, err error) {
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{attribute.String("dataset", dataset)}
	status := "success"
	if err != nil {
		status = "failure"
		errAttrs := append(attrs, attribute.String("error_type", errorType(err)))
		m.LoadErrors.Add(ctx, 1, metric.WithAttributes(errAttrs...))
	} else {
		m.TablesLoaded.Add(ctx, 1, metric.WithAttributes(attrs...))
		m.RowsLoaded.Add(ctx, int64(rows), metric.WithAttributes(attrs...))
	}

	durationAttrs := append(attrs, attribute.String("status", status))
	m.LoadDuration.Record(ctx, float64(duration.Microseconds())/1000, metric.WithAttributes(durationAttrs...))
}

func errorType(err error) string {
	if t := apperrors.TypeOf(err); t != "" {
		return string(t)
	}
	return fmt.Sprintf("%T", err)
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.RecordError(err, options...)
	span.SetStatus(codes.Error, err.Error())
}

// SetSpanAttributes sets attributes on the current span
func SetSpanAttributes(ctx context.Context, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	for k, v := range attributes {
		switch val := v.(type) {
		case string:
			span.SetAttributes(attribute.String(k, val))
		case int:
			span.SetAttributes(attribute.Int(k, val))
		case int64:
			span.SetAttributes(attribute.Int64(k, val))
		case bool:
			span.SetAttributes(attribute.Bool(k, val))
		default:
			span.SetAttributes(attribute.String(k, fmt.Sprintf("%v", val)))
		}
	}
}
