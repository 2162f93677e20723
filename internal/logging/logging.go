// Package logging builds the zerolog logger used across ormf
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLevel keeps stderr quiet unless something is wrong
const DefaultLevel = zerolog.WarnLevel

// New creates a console logger writing to w. Results go to stdout, so w is
// normally stderr.
func New(w io.Writer, level string, color bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}
	return zerolog.New(output).
		With().
		Timestamp().
		Logger().
		Level(ParseLevel(level))
}

// ParseLevel maps a level name to a zerolog level, falling back to
// DefaultLevel for empty or unknown names
func ParseLevel(raw string) zerolog.Level {
	if raw == "" {
		return DefaultLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return DefaultLevel
	}
	return level
}

// ValidLevel reports whether raw names a zerolog level
func ValidLevel(raw string) bool {
	if raw == "" {
		return true
	}
	_, err := zerolog.ParseLevel(strings.ToLower(raw))
	return err == nil
}
