package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/lspdecode/internal/domain/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{" warning ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("drops time and respects level", func(t *testing.T) {
		t.Setenv(LevelEnv, "warn")
		var buf bytes.Buffer
		log := newLogger(&buf, &config.RuntimeConfig{})

		log.Info("hidden")
		log.Warn("shown", "component", "Decoder")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "level=WARN msg=shown component=Decoder")
		assert.NotContains(t, out, "time=")
	})

	t.Run("debug flag overrides environment", func(t *testing.T) {
		t.Setenv(LevelEnv, "error")
		var buf bytes.Buffer
		log := newLogger(&buf, &config.RuntimeConfig{Debug: true})

		log.Debug("resolved ambiguous selector")
		assert.Contains(t, buf.String(), "msg=\"resolved ambiguous selector\"")
		assert.Contains(t, buf.String(), "source=logger_test.go:")
	})
}
