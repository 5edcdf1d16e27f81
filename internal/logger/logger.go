// Package logger is a thin leveled logging facade over charmbracelet/log.
// Calls made before Init are dropped.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Options configures the console backend.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// Debug forces debug level regardless of Level.
	Debug bool
	// Writer defaults to stderr so stdout stays free for exports.
	Writer    io.Writer
	Timestamp bool
}

var (
	mu       sync.RWMutex
	instance *log.Logger
)

// Init installs the global logger.
func Init(opts Options) error {
	level := log.InfoLevel
	if s := strings.TrimSpace(opts.Level); s != "" {
		l, err := log.ParseLevel(s)
		if err != nil {
			return err
		}
		level = l
	}
	if opts.Debug {
		level = log.DebugLevel
	}
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: opts.Timestamp,
		Level:           level,
		Prefix:          "tradegraph",
	})

	mu.Lock()
	instance = l
	mu.Unlock()
	return nil
}

func get() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// With returns a child logger carrying keyvals. Before Init it discards
// everything.
func With(keyvals ...any) *log.Logger {
	if l := get(); l != nil {
		return l.With(keyvals...)
	}
	return log.New(io.Discard)
}

func Debug(msg string, keyvals ...any) {
	if l := get(); l != nil {
		l.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if l := get(); l != nil {
		l.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if l := get(); l != nil {
		l.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if l := get(); l != nil {
		l.Error(msg, keyvals...)
	}
}
