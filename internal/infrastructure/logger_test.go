package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sicli/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "nested", "processor.log")

	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.FileExists(t, logFile)

	logger.Info("subject loaded", "subject", 3)
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &entry))
	assert.Equal(t, "subject loaded", entry["msg"])
	assert.Equal(t, float64(3), entry["subject"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Contains(t, entry, "source")
}

func TestInitializeLogger_Once(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	first, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "console"})
	require.NoError(t, err)
	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "console"})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, GetLogger())
}

func TestInitializeLogger_BadPath(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := InitializeLogger(config.LoggingConfig{
		Level:    "info",
		Output:   "file",
		FilePath: filepath.Join(blocker, "sub", "app.log"),
	})
	assert.Error(t, err)
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, "info")

	ctx := WithTraceID(context.Background(), "run-1234")
	logger.InfoContext(ctx, "with trace")
	logger.Info("without trace")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var withTrace, withoutTrace map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &withTrace))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &withoutTrace))

	assert.Equal(t, "run-1234", withTrace["trace_id"])
	assert.NotContains(t, withoutTrace, "trace_id")
}

func TestTraceIDInjection_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, "info").With("component", "loader").WithGroup("file")

	logger.InfoContext(WithTraceID(context.Background(), "abc"), "read", "rows", 12)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loader", entry["component"])
	group, ok := entry["file"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(12), group["rows"])
	assert.Equal(t, "abc", group["trace_id"])
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		logDebug bool
		logInfo  bool
		logWarn  bool
		logError bool
	}{
		{level: "debug", logDebug: true, logInfo: true, logWarn: true, logError: true},
		{level: "info", logInfo: true, logWarn: true, logError: true},
		{level: "warning", logWarn: true, logError: true},
		{level: "error", logError: true},
		{level: "bogus", logInfo: true, logWarn: true, logError: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewJSONLogger(&buf, tt.level)

			logger.Debug("debug message")
			logger.Info("info message")
			logger.Warn("warn message")
			logger.Error("error message")

			out := buf.String()
			assert.Equal(t, tt.logDebug, strings.Contains(out, "debug message"))
			assert.Equal(t, tt.logInfo, strings.Contains(out, "info message"))
			assert.Equal(t, tt.logWarn, strings.Contains(out, "warn message"))
			assert.Equal(t, tt.logError, strings.Contains(out, "error message"))
		})
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctx = EnsureTraceID(ctx)
	traceID := GetTraceID(ctx)
	assert.Len(t, traceID, 36)

	assert.Equal(t, traceID, GetTraceID(EnsureTraceID(ctx)))
	assert.NotEqual(t, traceID, GenerateTraceID())
}

func TestLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, "info")

	WithError(WithSubject(WithComponent(logger, "merge"), 4), assert.AnError).Info("failed")
	assert.Same(t, logger, WithError(logger, nil))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "merge", entry["component"])
	assert.Equal(t, assert.AnError.Error(), entry["error"])
	assert.Equal(t, float64(4), entry["subject"])
}
