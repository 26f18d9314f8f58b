// Package dialogslog provides the two console logger constructors used
// by the dialogs engine and its host applications: a human-readable
// development logger and a machine-readable production one.
package dialogslog

import (
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

// NewDevLogger returns a colorized, human-readable logger for local
// development, backed by github.com/lmittmann/tint.
func NewDevLogger(w io.Writer) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level: slog.LevelDebug,
	}))
}

// NewJSONLogger returns a structured JSON logger suitable for production
// log aggregation.
func NewJSONLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
