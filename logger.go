package hashsync

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/hashsync/model"
)

// Logger wraps slog.Logger with store-specific helpers.
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
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithRowID adds a row_id field to the logger.
func (l *Logger) WithRowID(id model.RowID) *Logger {
	return &Logger{
		Logger: l.Logger.With("row_id", uint64(id)),
	}
}

// WithIndexID adds an index_id field to the logger.
func (l *Logger) WithIndexID(id model.IndexID) *Logger {
	return &Logger{
		Logger: l.Logger.With("index_id", uint64(id)),
	}
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(ctx context.Context, id model.RowID, indexes int) {
	l.DebugContext(ctx, "insert completed",
		"row_id", uint64(id),
		"indexes", indexes,
	)
}

// LogDelete logs a delete operation.
func (l *Logger) LogDelete(ctx context.Context, id model.RowID, found bool) {
	l.DebugContext(ctx, "delete completed",
		"row_id", uint64(id),
		"found", found,
	)
}

// LogReplace logs a replace operation.
func (l *Logger) LogReplace(ctx context.Context, id model.RowID, existed bool) {
	l.DebugContext(ctx, "replace completed",
		"row_id", uint64(id),
		"existed", existed,
	)
}

// LogRegister logs the registration and backfill of an index.
func (l *Logger) LogRegister(ctx context.Context, id model.IndexID, backfilled int, elapsed time.Duration) {
	l.InfoContext(ctx, "index registered",
		"index_id", uint64(id),
		"backfilled", backfilled,
		"elapsed", elapsed,
	)
}

// LogDropIndexes logs the detachment of a store view's indexes.
func (l *Logger) LogDropIndexes(ctx context.Context, dropped int) {
	l.InfoContext(ctx, "indexes dropped",
		"dropped", dropped,
	)
}
