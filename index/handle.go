package index

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/hashsync/model"
)

// Rows resolves row ids against the live primary table.
type Rows[V any] interface {
	Get(id model.RowID) (V, bool)
}

// Writer is the maintenance side of an index, independent of its key type.
// A store keeps one Writer per registered index.
type Writer[V any] interface {
	ID() model.IndexID
	Insert(entry model.Indexed[V])
	Delete(entry model.Indexed[V])
	Update(old, updated model.Indexed[V])
}

// Observer receives lookup measurements from a Read handle.
// hits counts resolved rows, misses counts ids dropped as stale.
type Observer interface {
	ObserveLookup(d time.Duration, hits, misses int)
}

// PoisonedError is the panic value raised by a poisoned index.
type PoisonedError struct {
	Index model.IndexID
}

func (e *PoisonedError) Error() string {
	return fmt.Sprintf("index %d: %v", uint64(e.Index), model.ErrPoisoned)
}

func (e *PoisonedError) Unwrap() error { return model.ErrPoisoned }

type shared[K comparable, V any] struct {
	mu       sync.RWMutex
	ix       *Index[K, V]
	poisoned atomic.Bool
}

func (s *shared[K, V]) checkLocked() {
	if s.poisoned.Load() {
		panic(&PoisonedError{Index: s.ix.id})
	}
}

// write runs fn under the exclusive lock and poisons the index if fn panics.
func (s *shared[K, V]) write(fn func(ix *Index[K, V])) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkLocked()

	done := false
	defer func() {
		if !done {
			s.poisoned.Store(true)
		}
	}()
	fn(s.ix)
	done = true
}

func (s *shared[K, V]) read(fn func(ix *Index[K, V])) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.checkLocked()
	fn(s.ix)
}

type splitOptions struct {
	observer Observer
}

// SplitOption configures the handles returned by Split.
type SplitOption func(*splitOptions)

// WithObserver reports lookup timings of the Read handle to o.
// A nil o disables reporting.
func WithObserver(o Observer) SplitOption {
	return func(so *splitOptions) {
		so.observer = o
	}
}

// Split hands ix over to a Read and a Write handle sharing it.
// ix must not be used directly afterwards.
func Split[K comparable, V any](ix *Index[K, V], rows Rows[V], optFns ...SplitOption) (*Read[K, V], *Write[K, V]) {
	var so splitOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&so)
		}
	}
	s := &shared[K, V]{ix: ix}
	return &Read[K, V]{s: s, rows: rows, observer: so.observer}, &Write[K, V]{s: s}
}

// Write is the mutation handle of a shared index.
type Write[K comparable, V any] struct {
	s *shared[K, V]
}

var _ Writer[int] = (*Write[string, int])(nil)

// ID returns the index identifier.
func (w *Write[K, V]) ID() model.IndexID {
	return w.s.ix.id
}

// Insert indexes entry.
func (w *Write[K, V]) Insert(entry model.Indexed[V]) {
	w.s.write(func(ix *Index[K, V]) { ix.Insert(entry) })
}

// Delete unindexes entry. entry must carry the value that was inserted.
func (w *Write[K, V]) Delete(entry model.Indexed[V]) {
	w.s.write(func(ix *Index[K, V]) { ix.Delete(entry) })
}

// Update replaces old by updated under a single exclusive section, so
// readers of this index never observe the row under neither value.
func (w *Write[K, V]) Update(old, updated model.Indexed[V]) {
	w.s.write(func(ix *Index[K, V]) { ix.Update(old, updated) })
}

// Read is the lookup handle of a shared index.
// It is safe for concurrent use and stays valid for the life of the table.
type Read[K comparable, V any] struct {
	s        *shared[K, V]
	rows     Rows[V]
	observer Observer
}

// ID returns the index identifier.
func (r *Read[K, V]) ID() model.IndexID {
	return r.s.ix.id
}

// Get returns the live rows currently indexed under key, in ascending id
// order. Ids whose row is gone from the table are skipped.
func (r *Read[K, V]) Get(key K) []model.Indexed[V] {
	start := time.Now()

	ids := r.GetIDs(key)
	if len(ids) == 0 {
		r.observe(start, 0, 0)
		return nil
	}

	out := make([]model.Indexed[V], 0, len(ids))
	for _, id := range ids {
		v, ok := r.rows.Get(id)
		if !ok {
			continue
		}
		out = append(out, model.NewIndexed(id, v))
	}

	r.observe(start, len(out), len(ids)-len(out))
	return out
}

// GetValues is Get without the row ids.
func (r *Read[K, V]) GetValues(key K) []V {
	rows := r.Get(key)
	if len(rows) == 0 {
		return nil
	}
	values := make([]V, len(rows))
	for i, row := range rows {
		values[i] = row.Value()
	}
	return values
}

// GetIDs returns the candidate ids for key without joining them against the
// table. The result may include ids whose deletion is still propagating.
func (r *Read[K, V]) GetIDs(key K) []model.RowID {
	var ids []model.RowID
	r.s.read(func(ix *Index[K, V]) { ids = ix.lookup(key) })
	return ids
}

// Contains reports whether any row is indexed under key.
func (r *Read[K, V]) Contains(key K) bool {
	var ok bool
	r.s.read(func(ix *Index[K, V]) { ok = ix.Contains(key) })
	return ok
}

// Keys returns a snapshot of every key with at least one member.
func (r *Read[K, V]) Keys() []K {
	var keys []K
	r.s.read(func(ix *Index[K, V]) { keys = ix.Keys() })
	return keys
}

// Stats returns a summary of the index contents.
func (r *Read[K, V]) Stats() Stats {
	var st Stats
	r.s.read(func(ix *Index[K, V]) { st = ix.Stats() })
	return st
}

func (r *Read[K, V]) observe(start time.Time, hits, misses int) {
	if r.observer != nil {
		r.observer.ObserveLookup(time.Since(start), hits, misses)
	}
}
