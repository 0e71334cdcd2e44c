package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pulse/pkg/config"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantLevel zerolog.Level
	}{
		{"debug level", "debug", zerolog.DebugLevel},
		{"info level", "info", zerolog.InfoLevel},
		{"warn level", "warn", zerolog.WarnLevel},
		{"error level", "error", zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(&config.Config{Env: "development", LogLevel: tt.level, LogFormat: "json"})
			require.NotNil(t, log)
			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestLoggerMethods(t *testing.T) {
	tests := []struct {
		name      string
		logFunc   func(l *Logger)
		wantMsg   string
		wantLevel string
	}{
		{"debug", func(l *Logger) { l.Debug("debug message") }, "debug message", "debug"},
		{"info", func(l *Logger) { l.Info("info message") }, "info message", "info"},
		{"warn", func(l *Logger) { l.Warn("warn message") }, "warn message", "warn"},
		{"error", func(l *Logger) { l.Error("error message") }, "error message", "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(&config.Config{Env: "test", LogLevel: "debug", LogFormat: "json"}, &buf)

			tt.logFunc(log)

			entry := decode(t, &buf)
			assert.Equal(t, tt.wantMsg, entry["message"])
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "test", entry["env"])
		})
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{Env: "test", LogLevel: "debug", LogFormat: "json"}, &buf)

	log.WithFields(map[string]interface{}{
		"symbol": "AAPL",
		"score":  8,
	}).Info("scored")

	entry := decode(t, &buf)
	assert.Equal(t, "AAPL", entry["symbol"])
	assert.Equal(t, float64(8), entry["score"])
	assert.Equal(t, "scored", entry["message"])
}

func TestDomainFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{Env: "test", LogLevel: "debug", LogFormat: "json"}, &buf)

	log.WithProvider("finnhub").
		WithSymbol("TSLA").
		WithField("attempt", 2).
		WithError(errors.New("upstream timeout")).
		Warn("fetch failed")

	entry := decode(t, &buf)
	assert.Equal(t, "finnhub", entry["provider"])
	assert.Equal(t, "TSLA", entry["symbol"])
	assert.Equal(t, float64(2), entry["attempt"])
	assert.Equal(t, "upstream timeout", entry["error"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{Env: "test", LogLevel: "warn", LogFormat: "json"}, &buf)

	log.Info("dropped")
	assert.Empty(t, buf.String())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestLogFormats(t *testing.T) {
	for _, format := range []string{"json", "console", "pretty"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(&config.Config{Env: "test", LogLevel: "info", LogFormat: format}, &buf)

			log.Info("test message")

			out := buf.String()
			assert.True(t, strings.Contains(out, "test message"), "output: %s", out)
			if format == "json" {
				assert.True(t, strings.HasPrefix(out, "{"))
			}
		})
	}
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().WithSymbol("AAPL").Info("ignored")
	})
}
