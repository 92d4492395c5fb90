package hashsync

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/hupe1980/hashsync/index"
	"github.com/hupe1980/hashsync/internal/table"
	"github.com/hupe1980/hashsync/model"
)

// core is the state shared by a store and every view derived from it with
// DropIndexes.
type core[V any] struct {
	rows     *table.Table[V]
	rowIDs   *model.Generator
	indexIDs *model.Generator

	// gate is held shared by mutations and exclusively by index
	// registration, so a backfill sees a point-in-time table and no
	// mutation can slip between the snapshot and the index going live.
	gate sync.RWMutex
}

// Store is a concurrent row table with live secondary indexes.
//
// Every mutation is applied to the table and to all indexes registered on
// this store under the row's shard lock, so a single row is never observed
// half-updated through ByID. Indexes are updated one after another; a reader
// of one index may see a mutation before a reader of another does.
type Store[V any] struct {
	core    *core[V]
	writers []index.Writer[V] // guarded by core.gate

	opts options
}

// New creates an empty store.
func New[V any](optFns ...Option) *Store[V] {
	opts := applyOptions(optFns)
	return &Store[V]{
		core: &core[V]{
			rows:     table.New[V](opts.numShards),
			rowIDs:   model.NewGenerator(0),
			indexIDs: model.NewGenerator(0),
		},
		opts: opts,
	}
}

// Insert stores v under a fresh row id and indexes it.
func (s *Store[V]) Insert(v V) model.RowID {
	start := time.Now()

	s.core.gate.RLock()
	defer s.core.gate.RUnlock()

	id := s.insertLocked(v)

	s.opts.metricsCollector.RecordInsert(time.Since(start))
	s.opts.logger.LogInsert(context.Background(), id, len(s.writers))
	return id
}

// InsertMany inserts every value in order and returns their row ids.
func (s *Store[V]) InsertMany(values ...V) []model.RowID {
	ids := make([]model.RowID, 0, len(values))
	for _, v := range values {
		ids = append(ids, s.Insert(v))
	}
	return ids
}

func (s *Store[V]) insertLocked(v V) model.RowID {
	for {
		id := model.NewRowID(s.core.rowIDs.Allocate())
		inserted := false
		s.core.rows.Update(id, func(cur V, ok bool) (V, bool) {
			if ok {
				// A concurrent Replace claimed this id before the generator
				// was raised past it.
				return cur, true
			}
			entry := model.NewIndexed(id, v)
			for _, w := range s.writers {
				w.Insert(entry)
			}
			inserted = true
			return v, true
		})
		if inserted {
			return id
		}
	}
}

// Delete removes the row stored under id and unindexes it.
// It returns the removed value, or false if id was unknown.
func (s *Store[V]) Delete(id model.RowID) (V, bool) {
	start := time.Now()

	s.core.gate.RLock()
	defer s.core.gate.RUnlock()

	var (
		old   V
		found bool
	)
	s.core.rows.Update(id, func(cur V, ok bool) (V, bool) {
		if !ok {
			return cur, false
		}
		old, found = cur, true
		entry := model.NewIndexed(id, cur)
		for _, w := range s.writers {
			w.Delete(entry)
		}
		return cur, false
	})

	s.opts.metricsCollector.RecordDelete(time.Since(start), found)
	s.opts.logger.LogDelete(context.Background(), id, found)
	return old, found
}

// Replace stores v under id, replacing any existing row, and returns the
// previous value if there was one. The row generator is advanced past id so
// later inserts never reuse it.
//
// Replace is atomic per row: table readers observe either the old or the new
// value, and each index moves the row from its old keys to its new keys in
// one exclusive section.
func (s *Store[V]) Replace(id model.RowID, v V) (V, bool) {
	start := time.Now()

	s.core.gate.RLock()
	defer s.core.gate.RUnlock()

	s.core.rowIDs.RaiseTo(id.Next().Uint64())

	var (
		old     V
		existed bool
	)
	s.core.rows.Update(id, func(cur V, ok bool) (V, bool) {
		entry := model.NewIndexed(id, v)
		if ok {
			old, existed = cur, true
			prev := model.NewIndexed(id, cur)
			for _, w := range s.writers {
				w.Update(prev, entry)
			}
		} else {
			for _, w := range s.writers {
				w.Insert(entry)
			}
		}
		return v, true
	})

	s.opts.metricsCollector.RecordReplace(time.Since(start), existed)
	s.opts.logger.LogReplace(context.Background(), id, existed)
	return old, existed
}

// ByID returns the value stored under id.
func (s *Store[V]) ByID(id model.RowID) (V, bool) {
	return s.core.rows.Get(id)
}

// ByIDIndexed returns the row stored under id paired with its id.
func (s *Store[V]) ByIDIndexed(id model.RowID) (model.Indexed[V], bool) {
	v, ok := s.core.rows.Get(id)
	if !ok {
		return model.Indexed[V]{}, false
	}
	return model.NewIndexed(id, v), true
}

// Keys returns the ids of all live rows in ascending order.
func (s *Store[V]) Keys() []model.RowID {
	return s.core.rows.Keys()
}

// Len returns the number of live rows.
func (s *Store[V]) Len() int {
	return s.core.rows.Len()
}

// All iterates over a snapshot of the rows in ascending id order.
func (s *Store[V]) All() iter.Seq2[model.RowID, V] {
	return s.core.rows.All()
}

// IndexCount returns the number of indexes maintained by this store view.
func (s *Store[V]) IndexCount() int {
	s.core.gate.RLock()
	defer s.core.gate.RUnlock()
	return len(s.writers)
}

// DropIndexes returns a view of the same table without any indexes.
//
// The returned store shares rows and id generators with s. Mutations made
// through it do not reach the indexes of s, while read handles obtained
// from s stay valid and keep resolving against the shared table.
func (s *Store[V]) DropIndexes() *Store[V] {
	dropped := s.IndexCount()
	s.opts.logger.LogDropIndexes(context.Background(), dropped)
	return &Store[V]{
		core: s.core,
		opts: s.opts,
	}
}
