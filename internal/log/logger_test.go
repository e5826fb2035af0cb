package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		want    slog.Level
		wantErr bool
	}{
		{name: "debug", level: "debug", want: slog.LevelDebug},
		{name: "info", level: "info", want: slog.LevelInfo},
		{name: "empty defaults to info", level: "", want: slog.LevelInfo},
		{name: "warn", level: "warn", want: slog.LevelWarn},
		{name: "warning alias", level: "warning", want: slog.LevelWarn},
		{name: "mixed case", level: " ERROR ", want: slog.LevelError},
		{name: "unknown", level: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("ZeroValueIsNotInitialized", func(t *testing.T) {
		logger := Logger{}
		assert.False(t, logger.IsInitialized())
	})

	t.Run("WritesJSONWithNamespace", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf, slog.LevelDebug)
		require.True(t, logger.IsInitialized())

		logger.InfoNs(NsConn, "connected", KV{"path": "/tmp/t.db"})

		record := map[string]any{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "connected", record["msg"])
		assert.Equal(t, NsConn, record["ns"])
		assert.Equal(t, "/tmp/t.db", record["path"])
	})

	t.Run("FiltersBelowLevel", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf, slog.LevelWarn)

		logger.Info("hidden")
		logger.Debug("hidden")
		assert.Empty(t, buf.String())

		logger.Warn("shown")
		assert.Contains(t, buf.String(), "shown")
	})
}
