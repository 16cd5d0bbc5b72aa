// Package logging builds the logrus logger shared by the client, the form
// controllers and the terminal UI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options selects where entries go and how verbose they are.
type Options struct {
	Path  string
	Debug bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New opens opts.Path for appending and returns a logger writing to it. The
// terminal belongs to the UI, so a blank path yields a discarding logger
// rather than one that writes to stderr.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return Discard(), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(f)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	logger.SetLevel(level(opts.Debug))
	return logger, f, nil
}

// Discard returns a logger that drops every entry.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func level(debug bool) logrus.Level {
	if debug {
		return logrus.DebugLevel
	}
	return logrus.InfoLevel
}
