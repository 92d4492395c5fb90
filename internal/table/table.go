package table

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"hash/maphash"
	"iter"
	"math/bits"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/hashsync/model"
	"golang.org/x/sys/cpu"
)

// DefaultShards is the shard count used when none is configured.
const DefaultShards = 32

// MaxShards bounds the shard count.
const MaxShards = 1 << 16

// PoisonedError is the panic value raised by a poisoned shard.
type PoisonedError struct {
	Shard int
}

func (e *PoisonedError) Error() string {
	return fmt.Sprintf("table shard %d: %v", e.Shard, model.ErrPoisoned)
}

func (e *PoisonedError) Unwrap() error { return model.ErrPoisoned }

type shard[V any] struct {
	mu       sync.RWMutex
	rows     map[model.RowID]V
	poisoned atomic.Bool
	_        cpu.CacheLinePad
}

// Table is a concurrent map from row id to row value.
type Table[V any] struct {
	shards []shard[V]
	mask   uint64
	seed   maphash.Seed
}

// New creates a table with numShards shards, rounded up to a power of two.
// numShards <= 0 selects DefaultShards.
func New[V any](numShards int) *Table[V] {
	n := NormalizeShards(numShards)
	t := &Table[V]{
		shards: make([]shard[V], n),
		mask:   uint64(n - 1),
		seed:   maphash.MakeSeed(),
	}
	for i := range t.shards {
		t.shards[i].rows = make(map[model.RowID]V)
	}
	return t
}

// NormalizeShards maps a requested shard count to the one New will use.
func NormalizeShards(n int) int {
	if n <= 0 {
		return DefaultShards
	}
	if n > MaxShards {
		return MaxShards
	}
	return 1 << bits.Len(uint(n-1))
}

// NumShards returns the number of shards.
func (t *Table[V]) NumShards() int {
	return len(t.shards)
}

func (t *Table[V]) shardIndex(id model.RowID) int {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(id))
	return int(maphash.Bytes(t.seed, buf[:]) & t.mask)
}

func (t *Table[V]) shard(id model.RowID) (*shard[V], int) {
	i := t.shardIndex(id)
	return &t.shards[i], i
}

func (s *shard[V]) check(i int) {
	if s.poisoned.Load() {
		panic(&PoisonedError{Shard: i})
	}
}

// Get returns the value stored under id.
func (t *Table[V]) Get(id model.RowID) (V, bool) {
	s, i := t.shard(id)
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.check(i)

	v, ok := s.rows[id]
	return v, ok
}

// Update runs fn with the current value of id under the shard's write lock.
// If fn returns keep=true, next is stored under id; otherwise id is removed.
// A panic in fn poisons the shard and propagates.
func (t *Table[V]) Update(id model.RowID, fn func(cur V, ok bool) (next V, keep bool)) {
	s, i := t.shard(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.check(i)

	done := false
	defer func() {
		if !done {
			s.poisoned.Store(true)
		}
	}()

	cur, ok := s.rows[id]
	next, keep := fn(cur, ok)
	if keep {
		s.rows[id] = next
	} else if ok {
		delete(s.rows, id)
	}
	done = true
}

// Len returns the number of rows. Under concurrent writes it is a moving
// target; no shard is locked while another is counted.
func (t *Table[V]) Len() int {
	n := 0
	for i := range t.shards {
		s := &t.shards[i]
		s.mu.RLock()
		s.check(i)
		n += len(s.rows)
		s.mu.RUnlock()
	}
	return n
}

// Keys returns all row ids in ascending order.
func (t *Table[V]) Keys() []model.RowID {
	ids := make([]model.RowID, 0, t.Len())
	for i := range t.shards {
		s := &t.shards[i]
		s.mu.RLock()
		s.check(i)
		for id := range s.rows {
			ids = append(ids, id)
		}
		s.mu.RUnlock()
	}
	slices.Sort(ids)
	return ids
}

// Snapshot copies every row, ordered by id. It is point-in-time only if the
// caller keeps writers out for the duration.
func (t *Table[V]) Snapshot() []model.Indexed[V] {
	rows := make([]model.Indexed[V], 0, t.Len())
	for i := range t.shards {
		s := &t.shards[i]
		s.mu.RLock()
		s.check(i)
		for id, v := range s.rows {
			rows = append(rows, model.NewIndexed(id, v))
		}
		s.mu.RUnlock()
	}
	slices.SortFunc(rows, func(a, b model.Indexed[V]) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return rows
}

// All iterates over a snapshot of the table in ascending id order.
func (t *Table[V]) All() iter.Seq2[model.RowID, V] {
	return func(yield func(model.RowID, V) bool) {
		for _, row := range t.Snapshot() {
			if !yield(row.ID(), row.Value()) {
				return
			}
		}
	}
}
