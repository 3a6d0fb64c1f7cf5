package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equitybins/internal/config"
)

func TestNewLogger_Stderr(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := NewLogger(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stderr",
	}, &buf)
	require.NoError(t, err)
	defer closeFn()

	ctx := WithRunID(context.Background(), "run-123")
	logger.InfoContext(ctx, "rows loaded", slog.Int("rows", 4))
	logger.Debug("hidden at info level")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "rows loaded", entry["msg"])
	assert.Equal(t, "run-123", entry["run_id"])
	assert.Equal(t, float64(4), entry["rows"])
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := NewLogger(config.LoggingConfig{
		Level:  "debug",
		Format: "text",
		Output: "stderr",
	}, &buf)
	require.NoError(t, err)
	defer closeFn()

	logger.With("component", "binner").Debug("edges computed")

	assert.Contains(t, buf.String(), "msg=\"edges computed\"")
	assert.Contains(t, buf.String(), "component=binner")
}

func TestNewLogger_Both(t *testing.T) {
	var buf bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "logs", "run.log")

	logger, closeFn, err := NewLogger(config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "both",
		FilePath: logFile,
	}, &buf)
	require.NoError(t, err)

	logger.Info("test message", "key", "value")
	require.NoError(t, closeFn())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "test message")
	assert.Contains(t, buf.String(), "test message")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.input))
		})
	}
}

func TestRunIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRunID(ctx))

	ctx = EnsureRunID(ctx)
	id := GetRunID(ctx)
	assert.Len(t, id, 36)

	// already set: unchanged
	assert.Equal(t, id, GetRunID(EnsureRunID(ctx)))
	assert.NotEqual(t, GenerateRunID(), GenerateRunID())
}
