// Package logging configures the logrus logger shared by all components.
//
// The viewer owns the terminal, so log lines go to a file when one is
// configured and are discarded otherwise. Print mode may also log to stderr.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/mcncl/unfold/internal/config"
)

// LevelEnv overrides the configured level when set.
const LevelEnv = "UNFOLD_LOG_LEVEL"

var (
	base   = newDiscardLogger()
	baseMu sync.Mutex
)

func newDiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// Options selects where log lines go.
type Options struct {
	Logging config.LoggingConfig
	// Stderr also writes to stderr, but only when it is not a terminal
	// or the level is debug. Never set it while the TUI is running.
	Stderr bool
}

// Setup configures the shared logger. The returned closer releases the log
// file, if one was opened.
func Setup(opts Options) (io.Closer, error) {
	baseMu.Lock()
	defer baseMu.Unlock()

	logger := logrus.New()

	// Configure Level
	levelStr := "info"
	if env := os.Getenv(LevelEnv); env != "" {
		levelStr = env
	} else if opts.Logging.Level != "" {
		levelStr = opts.Logging.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	// Configure File Sink
	if opts.Logging.File != "" {
		path := expandPath(opts.Logging.File)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		writers = append(writers, file)
		closer = file
	}

	if opts.Stderr {
		isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		if level >= logrus.DebugLevel || !isInteractive {
			writers = append(writers, os.Stderr)
		}
	}

	// Configure the output based on the number of writers
	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	base = logger
	return closer, nil
}

// SetOutput redirects the shared logger, mainly for tests.
func SetOutput(w io.Writer, level logrus.Level) {
	baseMu.Lock()
	defer baseMu.Unlock()
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})
	base = logger
}

// For returns a logger tagged with the component name.
func For(component string) *logrus.Entry {
	baseMu.Lock()
	defer baseMu.Unlock()
	return base.WithField("component", component)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// expandPath expands tilde in file paths
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
