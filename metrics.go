package hashsync

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// metrics/prometheus package ships a Prometheus implementation.
//
// Implementations must be safe for concurrent use.
type MetricsCollector interface {
	// RecordInsert is called after each insert.
	RecordInsert(duration time.Duration)

	// RecordDelete is called after each delete. found is false when the id
	// was unknown.
	RecordDelete(duration time.Duration, found bool)

	// RecordReplace is called after each replace. existed is false when the
	// id had no row before.
	RecordReplace(duration time.Duration, existed bool)

	// RecordRegister is called after an index was registered and backfilled
	// with the given number of rows.
	RecordRegister(duration time.Duration, backfilled int)

	// RecordLookup is called after each index lookup. hits is the number of
	// rows returned, misses the number of stale ids skipped.
	RecordLookup(duration time.Duration, hits, misses int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(time.Duration)           {}
func (NoopMetricsCollector) RecordDelete(time.Duration, bool)     {}
func (NoopMetricsCollector) RecordReplace(time.Duration, bool)    {}
func (NoopMetricsCollector) RecordRegister(time.Duration, int)    {}
func (NoopMetricsCollector) RecordLookup(time.Duration, int, int) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	InsertCount      atomic.Int64
	InsertTotalNanos atomic.Int64
	DeleteCount      atomic.Int64
	DeleteMisses     atomic.Int64
	ReplaceCount     atomic.Int64
	ReplaceCreated   atomic.Int64
	RegisterCount    atomic.Int64
	BackfilledRows   atomic.Int64
	LookupCount      atomic.Int64
	LookupTotalNanos atomic.Int64
	LookupHits       atomic.Int64
	LookupStale      atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(_ time.Duration, found bool) {
	b.DeleteCount.Add(1)
	if !found {
		b.DeleteMisses.Add(1)
	}
}

// RecordReplace implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReplace(_ time.Duration, existed bool) {
	b.ReplaceCount.Add(1)
	if !existed {
		b.ReplaceCreated.Add(1)
	}
}

// RecordRegister implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRegister(_ time.Duration, backfilled int) {
	b.RegisterCount.Add(1)
	b.BackfilledRows.Add(int64(backfilled))
}

// RecordLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookup(duration time.Duration, hits, misses int) {
	b.LookupCount.Add(1)
	b.LookupTotalNanos.Add(duration.Nanoseconds())
	b.LookupHits.Add(int64(hits))
	b.LookupStale.Add(int64(misses))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:    b.InsertCount.Load(),
		InsertAvgNanos: avg(b.InsertTotalNanos.Load(), b.InsertCount.Load()),
		DeleteCount:    b.DeleteCount.Load(),
		DeleteMisses:   b.DeleteMisses.Load(),
		ReplaceCount:   b.ReplaceCount.Load(),
		ReplaceCreated: b.ReplaceCreated.Load(),
		RegisterCount:  b.RegisterCount.Load(),
		BackfilledRows: b.BackfilledRows.Load(),
		LookupCount:    b.LookupCount.Load(),
		LookupAvgNanos: avg(b.LookupTotalNanos.Load(), b.LookupCount.Load()),
		LookupHits:     b.LookupHits.Load(),
		LookupStale:    b.LookupStale.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount    int64
	InsertAvgNanos int64
	DeleteCount    int64
	DeleteMisses   int64
	ReplaceCount   int64
	ReplaceCreated int64
	RegisterCount  int64
	BackfilledRows int64
	LookupCount    int64
	LookupAvgNanos int64
	LookupHits     int64
	LookupStale    int64
}

// lookupObserver forwards index lookups to a MetricsCollector.
type lookupObserver struct {
	mc MetricsCollector
}

func (o lookupObserver) ObserveLookup(d time.Duration, hits, misses int) {
	o.mc.RecordLookup(d, hits, misses)
}
