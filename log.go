package cpusched

import (
	"log/slog"
	"os"
)

// NewLogger builds the default JSON logger writing to stderr
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	}))
}

func errAttr(err error) slog.Attr {
	return slog.Any("error", err)
}
