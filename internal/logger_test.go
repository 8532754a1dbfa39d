package internal

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("prod emits JSON with RFC3339Nano time", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, "prod", "info")

		logger.Info("order created", "tracking_code", "290826-001")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "order created", entry["msg"])
		assert.Equal(t, "290826-001", entry["tracking_code"])

		ts, ok := entry["time"].(string)
		require.True(t, ok)
		_, err := time.Parse(time.RFC3339Nano, ts)
		assert.NoError(t, err)
	})

	t.Run("dev emits text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, "dev", "info")

		logger.Info("listening")

		assert.False(t, json.Valid(buf.Bytes()))
		assert.Contains(t, buf.String(), "msg=listening")
	})

	t.Run("level filters lower records", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, "dev", "warn")

		logger.Info("noise")
		logger.Warn("slow query")

		out := buf.String()
		assert.NotContains(t, out, "noise")
		assert.Contains(t, out, "slow query")
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, "dev", "loud")

		logger.Debug("hidden")
		logger.Info("visible")

		out := buf.String()
		assert.False(t, strings.Contains(out, "hidden"))
		assert.Contains(t, out, "visible")
	})
}
