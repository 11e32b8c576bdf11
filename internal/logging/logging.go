// Package logging sets up the application's zerolog logger. Output goes to
// a file so the terminal stays free for the interactive UI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New opens (or creates) path for appending and returns a logger writing
// human-readable lines to it. The returned closer releases the file.
func New(level, path string) (zerolog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	return NewWriter(f, lvl), f, nil
}

// NewWriter builds the logger over any writer.
func NewWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.RFC3339}
	return zerolog.New(output).
		With().
		Timestamp().
		Logger().
		Level(level)
}

// ParseLevel accepts zerolog level names; empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q", level)
	}
	return lvl, nil
}
