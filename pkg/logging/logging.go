// Package logging builds the zerolog logger shared by every front end.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options select where log lines go.
type Options struct {
	// Level is a zerolog level name; empty means info.
	Level string
	// File, when set, receives JSON lines instead of the console writer.
	File string
	// Console is the writer for human output, stderr when nil.
	Console io.Writer
	// Disabled returns a no-op logger.
	Disabled bool
}

// New returns a logger and a closer for any file it opened.
func New(o Options) (zerolog.Logger, func() error, error) {
	noop := func() error { return nil }
	if o.Disabled {
		return zerolog.Nop(), noop, nil
	}

	level, err := ParseLevel(o.Level)
	if err != nil {
		return zerolog.Nop(), noop, err
	}

	if o.File != "" {
		f, err := os.OpenFile(o.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("logging: open %s: %w", o.File, err)
		}
		return zerolog.New(f).Level(level).With().Timestamp().Logger(), f.Close, nil
	}

	out := o.Console
	if out == nil {
		out = os.Stderr
	}
	console := zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	return zerolog.New(console).Level(level).With().Timestamp().Logger(), noop, nil
}

// ParseLevel accepts zerolog level names case-insensitively.
func ParseLevel(v string) (zerolog.Level, error) {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(v)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("logging: %w", err)
	}
	return level, nil
}
