package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomHandler(t *testing.T) {
	tests := []struct {
		name     string
		log      func(l *slog.Logger)
		contains []string
		empty    bool
	}{
		{
			name: "command completion",
			log: func(l *slog.Logger) {
				l.Info("Command completed",
					slog.String("type", "cmd"),
					slog.String("name", "freeslot"),
					slog.String("user_name", "mod"),
					slog.String("status", "success"),
					slog.Duration("took", 120*time.Millisecond),
				)
			},
			contains: []string{"[CMD]", "[INFO", "Command completed [freeslot by mod] [Status: success] (took 120ms)"},
		},
		{
			name: "error details",
			log: func(l *slog.Logger) {
				l.Error("Query failed", slog.String("type", "db"), slog.Any("error", errors.New("boom")))
			},
			contains: []string{"[DB]", "ERROR", "Query failed: boom"},
		},
		{
			name: "extra attributes",
			log: func(l *slog.Logger) {
				l.With(slog.String("guild_id", "7")).Warn("Slot revoked", slog.String("user_id", "42"))
			},
			contains: []string{"[SYS]", "WARN", "guild_id=7", "user_id=42"},
		},
		{
			name:  "below level",
			log:   func(l *slog.Logger) { l.Debug("noise") },
			empty: true,
		},
		{
			name:  "gateway noise",
			log:   func(l *slog.Logger) { l.Info("sending heartbeat") },
			empty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(slog.New(NewHandler(&buf, slog.LevelInfo)))
			if tt.empty {
				assert.Empty(t, buf.String())
				return
			}
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(New(&buf, Options{Level: slog.LevelDebug, Format: "json"}))
	l.Debug("Slot issued", slog.String("type", "sys"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Slot issued", line["msg"])
	assert.Equal(t, "sys", line["type"])
}
