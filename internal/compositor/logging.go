package compositor

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger: a JSONHandler by default, or a
// TextHandler when format is "text" — the same environment-driven
// handler choice helixml-helix's daemons make, constructed once at
// startup and passed down by reference rather than kept as a package
// global.
func NewLogger(format string) *slog.Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
