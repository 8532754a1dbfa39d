package internal

import (
	"io"
	"log/slog"
	"time"
)

// NewLogger builds the process-wide logger. Production emits JSON with
// RFC3339Nano timestamps for the log pipeline; any other env gets
// human-readable text output.
func NewLogger(w io.Writer, env, level string) *slog.Logger {
	lv := new(slog.LevelVar)
	switch level {
	case "debug":
		lv.Set(slog.LevelDebug)
	case "info":
		lv.Set(slog.LevelInfo)
	case "warn":
		lv.Set(slog.LevelWarn)
	case "error":
		lv.Set(slog.LevelError)
	default:
		slog.Default().Warn("Unknown LOG_LEVEL, falling back to info", slog.String("value", level))
	}

	if env == "prod" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: lv,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					a.Value = slog.StringValue(a.Value.Time().Format(time.RFC3339Nano))
				}
				return a
			},
		}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv}))
}
