package hashsync

import (
	"context"
	"time"

	"github.com/hupe1980/hashsync/index"
	"github.com/hupe1980/hashsync/model"
)

// Register attaches a new index built from extractor to s and returns its
// read handle.
//
// Writers on s and on every view sharing its table are held off while the
// existing rows are backfilled, so the new index starts out as an exact
// image of the table at registration time. Key extraction during backfill
// may run on several goroutines; extractor must be safe for that.
func Register[K comparable, V any](s *Store[V], extractor index.KeyExtractor[K, V]) *index.Read[K, V] {
	start := time.Now()

	s.core.gate.Lock()
	defer s.core.gate.Unlock()

	ix := index.New(model.NewIndexID(s.core.indexIDs.Allocate()), extractor)
	backfilled := ix.Backfill(s.core.rows.Snapshot(), s.opts.backfillWorkers)

	var splitOpts []index.SplitOption
	if _, noop := s.opts.metricsCollector.(NoopMetricsCollector); !noop {
		splitOpts = append(splitOpts, index.WithObserver(lookupObserver{mc: s.opts.metricsCollector}))
	}
	r, w := index.Split(ix, s.core.rows, splitOpts...)
	s.writers = append(s.writers, w)

	elapsed := time.Since(start)
	s.opts.metricsCollector.RecordRegister(elapsed, backfilled)
	s.opts.logger.LogRegister(context.Background(), r.ID(), backfilled, elapsed)
	return r
}

// Index registers an index with one key per row.
func Index[K comparable, V any](s *Store[V], fn func(V) K) *index.Read[K, V] {
	return Register(s, index.Func(fn))
}

// IndexMany registers an index with any number of keys per row.
func IndexMany[K comparable, V any](s *Store[V], fn func(V) []K) *index.Read[K, V] {
	return Register(s, index.ManyFunc(fn))
}

// IndexID registers an index with one key per row, derived from the row id
// and value.
func IndexID[K comparable, V any](s *Store[V], fn func(model.RowID, V) K) *index.Read[K, V] {
	return Register(s, index.IDFunc(fn))
}

// IndexIDMany registers an index with any number of keys per row, derived
// from the row id and value.
func IndexIDMany[K comparable, V any](s *Store[V], fn func(model.RowID, V) []K) *index.Read[K, V] {
	return Register(s, index.IDManyFunc(fn))
}
