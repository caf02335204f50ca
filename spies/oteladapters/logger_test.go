package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/embedded"
	"go.opentelemetry.io/otel/log/noop"

	"github.com/AntonStoeckl/dynamic-spies-go/spies/oteladapters"
)

func Test_NewSlogBridgeLogger_Construction(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("spies")
	assert.NotNil(t, logger)

	assert.NotPanics(t, func() {
		logger.Info("info message", "key", "value")
		logger.InfoContext(context.Background(), "info message", "key", "value")
	})
}

func Test_SlogBridgeLogger_AllLevels(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)
	ctx := context.Background()

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")
	logger.DebugContext(ctx, "debug context message")
	logger.InfoContext(ctx, "info context message")
	logger.WarnContext(ctx, "warn context message")
	logger.ErrorContext(ctx, "error context message")

	output := buf.String()

	for _, msg := range []string{
		"debug message", "info message", "warn message", "error message",
		"debug context message", "info context message", "warn context message", "error context message",
	} {
		assert.Contains(t, output, msg)
	}

	assert.Contains(t, output, `"level":"DEBUG"`)
	assert.Contains(t, output, `"level":"INFO"`)
	assert.Contains(t, output, `"level":"WARN"`)
	assert.Contains(t, output, `"level":"ERROR"`)
}

func Test_SlogBridgeLogger_WithAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewJSONHandler(&buf, nil))

	logger.InfoContext(context.Background(), "spies: registry finished",
		"status", "passed",
		"pending_expectations", 2,
		"duration_ms", 0.125,
	)

	output := buf.String()
	assert.Contains(t, output, `"msg":"spies: registry finished"`)
	assert.Contains(t, output, `"status":"passed"`)
	assert.Contains(t, output, `"pending_expectations":2`)
	assert.Contains(t, output, `"duration_ms":0.125`)
}

// recordingLogger implements log.Logger and keeps every emitted record.
type recordingLogger struct {
	embedded.Logger

	mu      sync.Mutex
	records []log.Record
}

func (l *recordingLogger) Emit(_ context.Context, record log.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, record)
}

func (l *recordingLogger) Enabled(context.Context, log.EnabledParameters) bool {
	return true
}

func attributesOf(record log.Record) map[string]string {
	attrs := make(map[string]string)
	record.WalkAttributes(func(kv log.KeyValue) bool {
		attrs[kv.Key] = kv.Value.AsString()
		return true
	})

	return attrs
}

func Test_OTelLogger_EmitsRecords(t *testing.T) {
	otelLogger := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(otelLogger)
	ctx := context.Background()

	logger.DebugContext(ctx, "debug message")
	logger.InfoContext(ctx, "info message", "spy_name", "add_one", "named_spies", 3)
	logger.WarnContext(ctx, "warn message")
	logger.ErrorContext(ctx, "error message")

	require.Len(t, otelLogger.records, 4)

	expectedSeverities := []log.Severity{log.SeverityDebug, log.SeverityInfo, log.SeverityWarn, log.SeverityError}
	for i, severity := range expectedSeverities {
		assert.Equal(t, severity, otelLogger.records[i].Severity())
	}

	info := otelLogger.records[1]
	assert.Equal(t, "info message", info.Body().AsString())
	assert.Equal(t, map[string]string{"spy_name": "add_one", "named_spies": "3"}, attributesOf(info))
}

func Test_OTelLogger_ArgumentHandling(t *testing.T) {
	otelLogger := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(otelLogger)
	ctx := context.Background()

	logger.InfoContext(ctx, "odd arguments", "key1", "value1", "key2")
	logger.InfoContext(ctx, "non-string key", 42, "value", "key", "value")
	logger.InfoContext(ctx, "no arguments")

	require.Len(t, otelLogger.records, 3)
	assert.Equal(t, map[string]string{"key1": "value1"}, attributesOf(otelLogger.records[0]))
	assert.Equal(t, map[string]string{"key": "value"}, attributesOf(otelLogger.records[1]))
	assert.Empty(t, attributesOf(otelLogger.records[2]))
}

func Test_OTelLogger_WithNoopProvider(t *testing.T) {
	logger := oteladapters.NewOTelLogger(noop.NewLoggerProvider().Logger("spies"))

	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "info message", "key", "value")
	})
}
