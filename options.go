package hashsync

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/hashsync/internal/table"
)

type options struct {
	numShards        int
	backfillWorkers  int
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Store.
type Option func(*options)

// WithNumShards configures the number of primary table shards.
//
// Each shard has its own lock, so writes to rows in different shards proceed
// in parallel. The value is rounded up to a power of two and capped at 65536.
// If numShards <= 0, a default of 32 is used.
func WithNumShards(numShards int) Option {
	return func(o *options) {
		o.numShards = numShards
	}
}

// WithBackfillWorkers bounds the goroutines used to extract keys when an
// index is registered on a non-empty store.
// If n <= 0, GOMAXPROCS is used.
func WithBackfillWorkers(n int) Option {
	return func(o *options) {
		o.backfillWorkers = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &hashsync.BasicMetricsCollector{}
//	s := hashsync.New[Row](hashsync.WithMetricsCollector(metrics))
//	// ... use s ...
//	stats := metrics.GetStats()
//	fmt.Printf("Inserts: %d, Avg latency: %dns\n", stats.InsertCount, stats.InsertAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := hashsync.NewJSONLogger(slog.LevelInfo)
//	s := hashsync.New[Row](hashsync.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		numShards:        table.DefaultShards,
		backfillWorkers:  runtime.GOMAXPROCS(0),
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.backfillWorkers <= 0 {
		o.backfillWorkers = runtime.GOMAXPROCS(0)
	}
	o.numShards = table.NormalizeShards(o.numShards)
	return o
}
