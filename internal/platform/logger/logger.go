package logger

import (
	"log/slog"
	"os"
)

// New returns a structured logger writing to stdout. format "json" selects
// JSON output for log aggregation; anything else gets the text handler.
func New(format string) *slog.Logger {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	return slog.New(handler)
}
