// Package logger is the process-wide structured logger of DittoNAS.
//
// It wraps log/slog with a runtime-adjustable level and format, a colored
// text handler for terminals and the request-scoped LogContext that API
// handlers annotate as a request is served.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Config mirrors the logging section of the server configuration.
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // text, json
	Output string // stdout, stderr, or file path
}

// sink is where log lines go. closer is set for files opened by Init.
type sink struct {
	w      io.Writer
	color  bool
	closer io.Closer
}

var (
	level = new(slog.LevelVar)

	mu      sync.RWMutex
	out     = sink{w: os.Stdout, color: isTerminal(os.Stdout.Fd())}
	format  = "text"
	current *slog.Logger
)

func init() {
	mu.Lock()
	rebuildLocked()
	mu.Unlock()
}

// rebuildLocked swaps the slog handler for the current sink and format.
// The level is shared through the LevelVar, so SetLevel never rebuilds.
func rebuildLocked() {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		current = slog.New(slog.NewJSONHandler(out.w, opts))
		return
	}
	current = slog.New(newTextHandler(out.w, opts, out.color))
}

// Init applies cfg. Empty fields keep their current value; an unknown level
// or format is an error.
func Init(cfg Config) error {
	if cfg.Level != "" {
		lvl, err := ParseLevel(cfg.Level)
		if err != nil {
			return err
		}
		level.Set(lvl)
	}

	if cfg.Format != "" && !validFormat(cfg.Format) {
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}

	var next *sink
	if cfg.Output != "" {
		s, err := openSink(cfg.Output)
		if err != nil {
			return err
		}
		next = &s
	}

	mu.Lock()
	defer mu.Unlock()
	if next != nil {
		if out.closer != nil {
			_ = out.closer.Close()
		}
		out = *next
	}
	if cfg.Format != "" {
		format = strings.ToLower(cfg.Format)
	}
	rebuildLocked()
	return nil
}

func openSink(target string) (sink, error) {
	switch strings.ToLower(target) {
	case "stdout":
		return sink{w: os.Stdout, color: isTerminal(os.Stdout.Fd())}, nil
	case "stderr":
		return sink{w: os.Stderr, color: isTerminal(os.Stderr.Fd())}, nil
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return sink{}, fmt.Errorf("failed to open log file %q: %w", target, err)
	}
	return sink{w: f, closer: f}, nil
}

// ParseLevel accepts DEBUG, INFO, WARN and ERROR in any case.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func validFormat(f string) bool {
	f = strings.ToLower(f)
	return f == "text" || f == "json"
}

// SetLevel changes the minimum level. Unknown levels are ignored so a bad
// hot-reloaded value leaves logging as it was.
func SetLevel(s string) {
	if lvl, err := ParseLevel(s); err == nil {
		level.Set(lvl)
	}
}

// SetFormat switches between text and json. Unknown formats are ignored.
func SetFormat(f string) {
	if !validFormat(f) {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	format = strings.ToLower(f)
	rebuildLocked()
}

func getLogger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Enabled reports whether a record at lvl would be written.
func Enabled(lvl slog.Level) bool {
	return getLogger().Enabled(context.Background(), lvl)
}

// emit is the single write path. Fields of a LogContext found in ctx are
// placed before args.
func emit(ctx context.Context, lvl slog.Level, msg string, args []any) {
	l := getLogger()
	if !l.Enabled(ctx, lvl) {
		return
	}
	if lc := FromContext(ctx); lc != nil {
		args = append(lc.Fields(), args...)
	}
	l.Log(ctx, lvl, msg, args...)
}

// Debug logs msg with alternating key/value args or slog.Attr values.
func Debug(msg string, args ...any) { emit(context.Background(), slog.LevelDebug, msg, args) }

func Info(msg string, args ...any) { emit(context.Background(), slog.LevelInfo, msg, args) }

func Warn(msg string, args ...any) { emit(context.Background(), slog.LevelWarn, msg, args) }

func Error(msg string, args ...any) { emit(context.Background(), slog.LevelError, msg, args) }

// DebugCtx is Debug plus the request fields of the LogContext in ctx.
func DebugCtx(ctx context.Context, msg string, args ...any) {
	emit(ctx, slog.LevelDebug, msg, args)
}

func InfoCtx(ctx context.Context, msg string, args ...any) {
	emit(ctx, slog.LevelInfo, msg, args)
}

func WarnCtx(ctx context.Context, msg string, args ...any) {
	emit(ctx, slog.LevelWarn, msg, args)
}

func ErrorCtx(ctx context.Context, msg string, args ...any) {
	emit(ctx, slog.LevelError, msg, args)
}

// Duration returns the milliseconds elapsed since start.
func Duration(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
