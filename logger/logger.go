// Package logger owns the process-wide structured logger.
//
// It is initialised once from the configuration at startup; packages that
// log before that (or tests that never call Init) get slog.Default.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/natefinch/lumberjack"
)

const (
	TypeConsole = "console"
	TypeFile    = "file"
)

// Settings selects where and how verbosely to log.
type Settings struct {
	Level      string
	Type       string
	FilePath   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
}

var (
	instance *slog.Logger
	initErr  error
	once     sync.Once
)

// Init builds the singleton logger. Later calls are no-ops and return the
// first result.
func Init(s Settings) error {
	once.Do(func() {
		instance, initErr = newLogger(s)
		if initErr == nil {
			slog.SetDefault(instance)
		}
	})
	return initErr
}

// Get returns the initialised logger or slog.Default.
func Get() *slog.Logger {
	if instance == nil {
		return slog.Default()
	}
	return instance
}

func newLogger(s Settings) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: parseLevel(s.Level)}

	switch s.Type {
	case TypeConsole, "":
		return slog.New(slog.NewTextHandler(os.Stdout, opts)), nil
	case TypeFile:
		if s.FilePath == "" {
			return nil, fmt.Errorf("file path required for file logger")
		}
		return slog.New(slog.NewJSONHandler(fileWriter(s), opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log type: %s", s.Type)
	}
}

func fileWriter(s Settings) io.Writer {
	w := &lumberjack.Logger{
		Filename:   s.FilePath,
		MaxSize:    s.MaxSize,
		MaxBackups: s.MaxBackups,
		MaxAge:     s.MaxAge,
		Compress:   true,
	}
	if w.MaxSize <= 0 {
		w.MaxSize = 10
	}
	if w.MaxBackups <= 0 {
		w.MaxBackups = 3
	}
	if w.MaxAge <= 0 {
		w.MaxAge = 28
	}
	return w
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
