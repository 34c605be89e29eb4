// Package logging builds the logrus logger shared by every command: a
// console sink on stderr and an optional per-run debug file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/writer"
)

// FilePrefix starts the name of every log file.
const FilePrefix = "chromexport"

// Options configures New.
type Options struct {
	// Level is the console level. Verbose forces debug.
	Level   string
	Verbose bool
	// Console defaults to os.Stderr.
	Console io.Writer
	// Dir receives a debug log file per run. Empty disables file logging.
	Dir string
	Now time.Time
}

// Logger is a configured logger plus the resources it holds open.
type Logger struct {
	*logrus.Logger
	// File is the path of the run's log file, empty when disabled.
	File string

	closer io.Closer
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

// New creates a logger at debug level whose own output is discarded; each
// sink is a writer hook with its own level.
func New(opts Options) (*Logger, error) {
	consoleLevel := logrus.InfoLevel
	if opts.Level != "" {
		lvl, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
		consoleLevel = lvl
	}
	if opts.Verbose && consoleLevel < logrus.DebugLevel {
		consoleLevel = logrus.DebugLevel
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	base := logrus.New()
	base.SetLevel(logrus.DebugLevel)
	base.SetOutput(io.Discard)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})
	base.AddHook(&writer.Hook{Writer: console, LogLevels: levelsUpTo(consoleLevel)})

	l := &Logger{Logger: base}
	if opts.Dir == "" {
		return l, nil
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	l.File = filepath.Join(opts.Dir, FileName(now))
	f, err := os.OpenFile(l.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	l.closer = f
	base.AddHook(&writer.Hook{Writer: f, LogLevels: levelsUpTo(logrus.DebugLevel)})

	return l, nil
}

// FileName is the log file name for a run started at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("%s-%s.log", FilePrefix, t.Format("2006_01_02_150405"))
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func levelsUpTo(max logrus.Level) []logrus.Level {
	var out []logrus.Level
	for _, lvl := range logrus.AllLevels {
		if lvl <= max {
			out = append(out, lvl)
		}
	}
	return out
}
