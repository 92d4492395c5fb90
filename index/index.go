package index

import (
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/hupe1980/hashsync/model"
	"golang.org/x/sync/errgroup"
)

// minBackfillChunk keeps tiny tables from paying for goroutines.
const minBackfillChunk = 1024

// Index maps extracted keys to the set of row ids producing them.
// Index is not synchronized; use Split to share it between goroutines.
type Index[K comparable, V any] struct {
	id        model.IndexID
	extractor KeyExtractor[K, V]
	postings  map[K]*IDSet
}

// New creates an empty index around extractor.
func New[K comparable, V any](id model.IndexID, extractor KeyExtractor[K, V]) *Index[K, V] {
	return &Index[K, V]{
		id:        id,
		extractor: extractor,
		postings:  make(map[K]*IDSet),
	}
}

// ID returns the identifier assigned at creation.
func (ix *Index[K, V]) ID() model.IndexID {
	return ix.id
}

// Insert adds entry's id under every key the extractor emits for it.
func (ix *Index[K, V]) Insert(entry model.Indexed[V]) {
	ix.addKeys(entry.ID(), ix.extractor.ExtractKeys(entry))
}

// Delete removes entry's id from every key the extractor emits for it.
// entry must carry the same value that was inserted.
func (ix *Index[K, V]) Delete(entry model.Indexed[V]) {
	ix.removeKeys(entry.ID(), ix.extractor.ExtractKeys(entry))
}

// Update moves a row from the keys of old to the keys of updated.
func (ix *Index[K, V]) Update(old, updated model.Indexed[V]) {
	ix.Delete(old)
	ix.Insert(updated)
}

// Get returns a copy of the id set for key. The set is empty if key is absent.
func (ix *Index[K, V]) Get(key K) *IDSet {
	ids, ok := ix.postings[key]
	if !ok {
		return NewIDSet()
	}
	return ids.Clone()
}

// Contains reports whether key has at least one member.
func (ix *Index[K, V]) Contains(key K) bool {
	_, ok := ix.postings[key]
	return ok
}

// Keys returns every key with a non-empty id set, in no particular order.
func (ix *Index[K, V]) Keys() []K {
	keys := make([]K, 0, len(ix.postings))
	for k := range ix.postings {
		keys = append(keys, k)
	}
	return keys
}

// Stats summarises the index contents.
func (ix *Index[K, V]) Stats() Stats {
	st := Stats{ID: ix.id, Keys: len(ix.postings)}
	for _, ids := range ix.postings {
		st.Postings += uint64(ids.Len())
		st.SizeInBytes += ids.SizeInBytes()
	}
	return st
}

// Backfill inserts rows into the index, extracting keys on up to workers
// goroutines. Postings are applied on the calling goroutine, in row order.
// A panic in the extractor is re-raised on the calling goroutine.
// Backfill returns the number of rows inserted.
func (ix *Index[K, V]) Backfill(rows []model.Indexed[V], workers int) int {
	if len(rows) == 0 {
		return 0
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	keys := make([][]K, len(rows))

	chunk := (len(rows) + workers - 1) / workers
	if chunk < minBackfillChunk {
		chunk = minBackfillChunk
	}

	if chunk >= len(rows) {
		for i, row := range rows {
			keys[i] = ix.extractor.ExtractKeys(row)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(workers)
		for start := 0; start < len(rows); start += chunk {
			end := min(start+chunk, len(rows))
			g.Go(func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = &extractorPanic{value: r}
					}
				}()
				for i := start; i < end; i++ {
					keys[i] = ix.extractor.ExtractKeys(rows[i])
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			panic(err.(*extractorPanic).value)
		}
	}

	for i, row := range rows {
		ix.addKeys(row.ID(), keys[i])
	}
	return len(rows)
}

func (ix *Index[K, V]) addKeys(id model.RowID, keys []K) {
	for _, k := range keys {
		ids, ok := ix.postings[k]
		if !ok {
			ids = NewIDSet()
			ix.postings[k] = ids
		}
		ids.Add(id)
	}
}

func (ix *Index[K, V]) removeKeys(id model.RowID, keys []K) {
	for _, k := range keys {
		ids, ok := ix.postings[k]
		if !ok {
			continue
		}
		ids.Remove(id)
		if ids.IsEmpty() {
			delete(ix.postings, k)
		}
	}
}

// lookup returns the members of key's set without copying the set itself.
func (ix *Index[K, V]) lookup(key K) []model.RowID {
	ids, ok := ix.postings[key]
	if !ok {
		return nil
	}
	return ids.ToSlice()
}

type extractorPanic struct {
	value any
}

func (e *extractorPanic) Error() string {
	return fmt.Sprintf("key extractor panicked: %v", e.value)
}

// Stats is a point-in-time summary of an index.
type Stats struct {
	ID          model.IndexID
	Keys        int
	Postings    uint64
	SizeInBytes uint64
}

// String returns a human-readable summary.
func (s Stats) String() string {
	return fmt.Sprintf("%s: %d keys, %d postings, %s", s.ID, s.Keys, s.Postings, humanize.Bytes(s.SizeInBytes))
}
