package utils

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerOptions controls how NewLogger builds a logger
type LoggerOptions struct {
	Level string // debug, info, warn, error
	File  string // optional rotated log file, written in addition to w
}

// NewLogger creates a [log.Logger] with timestamps writing to w, which
// defaults to [os.Stderr]. When opts.File is set, entries are also written to
// a size-rotated file.
func NewLogger(w io.Writer, opts LoggerOptions) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	if opts.File != "" {
		w = io.MultiWriter(w, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}

	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: true})
	logger.SetLevel(ParseLevel(opts.Level))
	return logger
}

// ParseLevel converts a level name into a [log.Level], falling back to info
func ParseLevel(s string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// DiscardLogger returns a logger that drops everything
func DiscardLogger() *log.Logger {
	return log.New(io.Discard)
}

// OrDiscard returns l, or a discarding logger when l is nil
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return DiscardLogger()
	}
	return l
}
