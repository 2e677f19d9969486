// Package logging builds the logrus logger shared by the portal.
//
// The terminal belongs to the UI, so log output always goes to a file
// (or nowhere) rather than stdout/stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Options controls where and how much the logger writes.
type Options struct {
	Level string
	File  string // empty disables logging
}

// New returns a logger writing to opts.File and a closer for that file.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("logging.New: %w", err)
	}
	if opts.File == "" {
		l := Discard()
		l.SetLevel(level)
		return l, io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.File), 0700); err != nil {
		return nil, nil, fmt.Errorf("logging.New: create log dir: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("logging.New: open log file: %w", err)
	}

	l := logrus.New()
	l.SetOutput(f)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: true,
	})
	return l, f, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return Discard()
	}
	return l
}
