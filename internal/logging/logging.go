// Package logging sets up the process loggers: a JSON log file under the
// XDG cache directory, optionally mirrored to stderr.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const appName = "nanotasks"

// Log level mapping.
var logLevelMap = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Options configures Setup.
type Options struct {
	// Level is one of debug, info, warn, error. Unknown values mean warn.
	Level string
	// Stderr mirrors the main log to stderr as text.
	Stderr bool
	// Dir overrides the XDG cache directory.
	Dir string
	// StderrWriter replaces os.Stderr, for tests.
	StderrWriter io.Writer
}

// Loggers are the configured process loggers.
type Loggers struct {
	// Main receives application logs and becomes slog.Default().
	Main *slog.Logger
	// Access receives one record per web request.
	Access *slog.Logger

	LogPath    string
	AccessPath string

	files []*os.File
}

// Close closes the log files.
func (l *Loggers) Close() error {
	var errs []error
	for _, f := range l.files {
		errs = append(errs, f.Close())
	}
	return errors.Join(errs...)
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, bool) {
	level, ok := logLevelMap[strings.ToLower(strings.TrimSpace(name))]
	return level, ok
}

// Setup initializes the logging system with file and optional stderr handlers.
func Setup(opts Options) (*Loggers, error) {
	level, ok := ParseLevel(opts.Level)
	if !ok {
		level = slog.LevelWarn // Default to WARN
	}

	logDir := opts.Dir
	if logDir == "" {
		logDir = CacheDir()
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	loggers := &Loggers{
		LogPath:    filepath.Join(logDir, appName+".log"),
		AccessPath: filepath.Join(logDir, appName+"-access.log"),
	}

	logFile, err := os.OpenFile(loggers.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	loggers.files = append(loggers.files, logFile)

	// Create file handler with JSON format for structured logging
	var mainHandler slog.Handler = slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	})

	if opts.Stderr {
		w := opts.StderrWriter
		if w == nil {
			w = os.Stderr
		}
		stderrHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
		mainHandler = &multiHandler{
			handlers: []slog.Handler{mainHandler, stderrHandler},
		}
	}

	loggers.Main = slog.New(mainHandler)
	slog.SetDefault(loggers.Main)

	accessFile, err := os.OpenFile(loggers.AccessPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		_ = loggers.Close()
		return nil, fmt.Errorf("failed to open access log file: %w", err)
	}
	loggers.files = append(loggers.files, accessFile)

	// Always log requests at INFO level
	loggers.Access = slog.New(slog.NewJSONHandler(accessFile, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With("logger", "access")

	loggers.Main.Debug("logging initialized",
		"level", level.String(),
		"log_file", loggers.LogPath,
		"access_file", loggers.AccessPath,
		"stderr", opts.Stderr)

	return loggers, nil
}

// Discard returns loggers that drop everything.
func Discard() *Loggers {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Loggers{Main: l, Access: l}
}

// CacheDir returns the XDG cache directory for nanotasks.
func CacheDir() string {
	// First check XDG_CACHE_HOME
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, appName)
	}

	// Fall back to default based on OS
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Last resort - use temp directory
		return filepath.Join(os.TempDir(), appName)
	}

	if runtime.GOOS == "darwin" {
		// macOS uses ~/Library/Caches
		return filepath.Join(homeDir, "Library", "Caches", appName)
	}

	// Linux and others use ~/.cache
	return filepath.Join(homeDir, ".cache", appName)
}

// multiHandler implements slog.Handler to write to multiple handlers.
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}
