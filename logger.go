package delaunay

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with triangulation-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogBuild logs a triangulation build.
func (l *Logger) LogBuild(ctx context.Context, points, vertices, simplices int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "triangulation failed",
			"points", points,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "triangulation built",
		"points", points,
		"vertices", vertices,
		"simplices", simplices,
		"elapsed", elapsed,
	)
}

// LogCoplanar logs input points that ended up in no simplex.
func (l *Logger) LogCoplanar(ctx context.Context, coplanar []int) {
	if len(coplanar) == 0 {
		return
	}
	l.DebugContext(ctx, "points not used as vertices",
		"count", len(coplanar),
		"first", coplanar[0],
	)
}

// LogLocateFallback logs a walk that revisited a simplex.
func (l *Logger) LogLocateFallback(ctx context.Context, start, simplex, steps int) {
	l.WarnContext(ctx, "simplex walk cycled, falling back to bruteforce",
		"start", start,
		"simplex", simplex,
		"steps", steps,
	)
}

// LogBatchLocate logs a batch query.
func (l *Logger) LogBatchLocate(ctx context.Context, count, found int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "batch locate failed",
			"count", count,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "batch locate completed",
		"count", count,
		"found", found,
	)
}

// LogSnapshot logs a snapshot save.
func (l *Logger) LogSnapshot(ctx context.Context, name string, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot saved",
		"name", name,
		"bytes", bytes,
	)
}

// LogLoad logs a snapshot load.
func (l *Logger) LogLoad(ctx context.Context, name string, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot load failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot loaded",
		"name", name,
		"bytes", bytes,
	)
}
