package chatlate

import (
	"io"
	"log/slog"
)

// NewLogger returns a text logger writing to w. The level var lets the
// caller flip debug output at runtime; nil logs at Warn and above.
func NewLogger(w io.Writer, level *slog.LevelVar) *slog.Logger {
	var leveler slog.Leveler = slog.LevelWarn
	if level != nil {
		leveler = level
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: leveler})).
		With(slog.String("component", Name))
}

// LogLevel maps the debug setting to a log level.
func LogLevel(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
