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

// Options configures the process logger.
type Options struct {
	// Level is a zerolog level name; empty means info.
	Level string
	// File receives JSON lines when set.
	File string
	// Console writes human-readable lines to this writer when non-nil.
	Console io.Writer
	// NoColor disables ANSI colors on the console writer.
	NoColor bool
}

// New builds the logger handed to every pipeline component. The returned
// close func releases the log file, if any.
func New(opt Options) (zerolog.Logger, func() error, error) {
	level := zerolog.InfoLevel
	if s := strings.TrimSpace(opt.Level); s != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(s))
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("parse log level: %w", err)
		}
		level = l
	}

	var writers []io.Writer
	if opt.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        opt.Console,
			NoColor:    opt.NoColor,
			TimeFormat: time.DateTime,
		})
	}
	closeFn := func() error { return nil }
	if opt.File != "" {
		if err := os.MkdirAll(filepath.Dir(opt.File), 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("mkdir log dir: %w", err)
		}
		f, err := os.OpenFile(opt.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
		closeFn = f.Close
	}
	if len(writers) == 0 {
		return zerolog.Nop(), closeFn, nil
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("app", "visaprep").
		Logger()
	return logger, closeFn, nil
}

// Component derives a child logger tagged with the component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
