package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"atscli/internal/config"
	apperrors "atscli/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func resetGlobals(t *testing.T) {
	t.Cleanup(func() {
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		otel.SetMeterProvider(metricnoop.NewMeterProvider())
	})
}

// TestTelemetryInitialization tests provider setup without tracing
func TestTelemetryInitialization(t *testing.T) {
	resetGlobals(t)

	tel, err := InitializeTelemetry(config.TelemetryConfig{
		ServiceName: "atscli-test",
		Tracing:     config.TracingNone,
	}, nil, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, tel)

	assert.Nil(t, tel.TracerProvider)
	assert.NotNil(t, tel.Tracer)
	assert.NotNil(t, tel.MeterProvider)
	assert.NotNil(t, tel.Meter)
	assert.NotNil(t, tel.Registry)

	// No metrics file configured
	assert.NoError(t, tel.WriteMetrics())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, tel.Shutdown(ctx))
}

// TestStdoutTracing tests that ended spans reach the trace writer on shutdown
func TestStdoutTracing(t *testing.T) {
	resetGlobals(t)

	var buf bytes.Buffer
	tel, err := InitializeTelemetry(config.TelemetryConfig{
		ServiceName: "atscli-test",
		Tracing:     config.TracingStdout,
	}, &buf, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, tel.TracerProvider)

	_, span := otel.Tracer("test").Start(context.Background(), "table.load")
	span.End()

	require.NoError(t, tel.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"Name": "table.load"`)
}

func TestUnsupportedTracing(t *testing.T) {
	_, err := InitializeTelemetry(config.TelemetryConfig{
		ServiceName: "atscli-test",
		Tracing:     "otlp",
	}, nil, discardLogger())
	assert.Error(t, err)
}

// TestWriteMetrics tests the Prometheus textfile output of loader metrics
func TestWriteMetrics(t *testing.T) {
	resetGlobals(t)

	metricsFile := filepath.Join(t.TempDir(), "metrics", "atsreport.prom")
	tel, err := InitializeTelemetry(config.TelemetryConfig{
		ServiceName: "atscli-test",
		Tracing:     config.TracingNone,
		MetricsFile: metricsFile,
	}, nil, discardLogger())
	require.NoError(t, err)
	defer tel.Shutdown(context.Background())

	metrics, err := CreateLoaderMetrics(tel.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordTableLoad(ctx, metrics, "ats_documents", 12, 15*time.Millisecond, nil)
	RecordTableLoad(ctx, metrics, "ats_measures", 0, time.Millisecond,
		apperrors.NewNotFoundError("file ats_measures.csv", os.ErrNotExist))

	require.NoError(t, tel.WriteMetrics())

	content, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	out := string(content)

	assert.Contains(t, out, "# TYPE ats_tables_loaded_total counter")
	assert.Contains(t, out, "# TYPE ats_table_rows_total counter")
	assert.Contains(t, out, "# TYPE ats_table_load_errors_total counter")
	assert.Contains(t, out, "# TYPE ats_table_load_duration_milliseconds histogram")
	assert.Contains(t, out, "ats_tables_loaded_total{")
	assert.Contains(t, out, `dataset="ats_documents"`)
	assert.Contains(t, out, `error_type="NOT_FOUND"`)

	// textfile collectors only accept legacy metric names
	assert.NotContains(t, out, `{"`)
	assert.NotContains(t, out, "ats.")
}

func TestRecordTableLoad_NilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordTableLoad(context.Background(), nil, "x", 1, time.Second, errors.New("boom"))
	})
}

// TestSpanHelpers tests that helpers tolerate non-recording spans
func TestSpanHelpers(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordError(ctx, errors.New("boom"))
		SetSpanAttributes(ctx, map[string]interface{}{"rows": 3, "path": "x.csv"})
	})
}

func TestShutdown_NilTelemetry(t *testing.T) {
	var tel *Telemetry
	assert.NoError(t, tel.Shutdown(context.Background()))
	assert.NoError(t, tel.WriteMetrics())
}
