package index

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/hashsync/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	A, B int
}

// mapRows is a Rows implementation for tests.
type mapRows[V any] struct {
	mu sync.RWMutex
	m  map[model.RowID]V
}

func newMapRows[V any]() *mapRows[V] {
	return &mapRows[V]{m: make(map[model.RowID]V)}
}

func (r *mapRows[V]) Get(id model.RowID) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.m[id]
	return v, ok
}

func (r *mapRows[V]) put(id model.RowID, v V) model.Indexed[V] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[id] = v
	return model.NewIndexed(id, v)
}

func (r *mapRows[V]) remove(id model.RowID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, id)
}

func TestIndex_InsertGetDelete(t *testing.T) {
	ix := New(model.NewIndexID(0), Func(func(p pair) int { return p.A }))

	ix.Insert(model.NewIndexed[pair](0, pair{1, 2}))
	ix.Insert(model.NewIndexed[pair](1, pair{1, 3}))
	ix.Insert(model.NewIndexed[pair](2, pair{3, 4}))

	assert.Equal(t, []model.RowID{0, 1}, ix.Get(1).ToSlice())
	assert.Equal(t, []model.RowID{2}, ix.Get(3).ToSlice())
	assert.True(t, ix.Get(42).IsEmpty())

	keys := ix.Keys()
	slices.Sort(keys)
	assert.Equal(t, []int{1, 3}, keys)

	ix.Delete(model.NewIndexed[pair](2, pair{3, 4}))
	assert.False(t, ix.Contains(3))
	assert.Equal(t, []int{1}, ix.Keys())

	// Deleting an entry that was never indexed is a no-op.
	ix.Delete(model.NewIndexed[pair](9, pair{7, 7}))
	assert.Equal(t, []int{1}, ix.Keys())
}

func TestIndex_GetReturnsCopy(t *testing.T) {
	ix := New(model.NewIndexID(0), Func(func(v string) string { return v }))
	ix.Insert(model.NewIndexed[string](0, "a"))

	ids := ix.Get("a")
	ids.Add(99)
	assert.Equal(t, []model.RowID{0}, ix.Get("a").ToSlice())
}

func TestIndex_ManyKeys(t *testing.T) {
	ix := New(model.NewIndexID(0), ManyFunc(func(tags []string) []string { return tags }))

	row := model.NewIndexed[[]string](7, []string{"x", "y", "z", "x"})
	ix.Insert(row)
	for _, k := range []string{"x", "y", "z"} {
		assert.Equal(t, []model.RowID{7}, ix.Get(k).ToSlice(), k)
	}

	ix.Delete(row)
	assert.Empty(t, ix.Keys())
}

func TestIndex_ZeroKeys(t *testing.T) {
	ix := New(model.NewIndexID(0), ManyFunc(func(int) []string { return nil }))
	ix.Insert(model.NewIndexed(model.RowID(1), 1))
	assert.Empty(t, ix.Keys())
	assert.Equal(t, 0, ix.Stats().Keys)
}

func TestIndex_IDExtractors(t *testing.T) {
	parity := New(model.NewIndexID(0), IDFunc(func(id model.RowID, _ string) bool { return id%2 == 0 }))
	both := New(model.NewIndexID(1), IDManyFunc(func(id model.RowID, v string) []string {
		return []string{v, fmt.Sprint(uint64(id))}
	}))

	for i, v := range []string{"a", "b", "a"} {
		e := model.NewIndexed(model.RowID(i), v)
		parity.Insert(e)
		both.Insert(e)
	}

	assert.Equal(t, []model.RowID{0, 2}, parity.Get(true).ToSlice())
	assert.Equal(t, []model.RowID{1}, parity.Get(false).ToSlice())
	assert.Equal(t, []model.RowID{0, 2}, both.Get("a").ToSlice())
	assert.Equal(t, []model.RowID{1}, both.Get("1").ToSlice())
}

func TestIndex_Update(t *testing.T) {
	ix := New(model.NewIndexID(0), Func(func(p pair) int { return p.B }))
	old := model.NewIndexed[pair](4, pair{0, 1})
	ix.Insert(old)

	ix.Update(old, model.NewIndexed[pair](4, pair{0, 2}))
	assert.False(t, ix.Contains(1))
	assert.Equal(t, []model.RowID{4}, ix.Get(2).ToSlice())
}

func TestIndex_Stats(t *testing.T) {
	ix := New(model.NewIndexID(3), ManyFunc(func(v []int) []int { return v }))
	ix.Insert(model.NewIndexed[[]int](0, []int{1, 2}))
	ix.Insert(model.NewIndexed[[]int](1, []int{2}))

	st := ix.Stats()
	assert.Equal(t, model.IndexID(3), st.ID)
	assert.Equal(t, 2, st.Keys)
	assert.Equal(t, uint64(3), st.Postings)
	assert.Positive(t, st.SizeInBytes)
	assert.Contains(t, st.String(), "2 keys, 3 postings")
}

func TestIndex_BackfillParallel(t *testing.T) {
	const n = 10 * minBackfillChunk
	rows := make([]model.Indexed[int], n)
	for i := range rows {
		rows[i] = model.NewIndexed(model.RowID(i), i)
	}

	ix := New(model.NewIndexID(0), Func(func(v int) int { return v % 10 }))
	assert.Equal(t, n, ix.Backfill(rows, 4))

	assert.Len(t, ix.Keys(), 10)
	for k := range 10 {
		assert.Equal(t, n/10, ix.Get(k).Len())
	}
}

func TestIndex_BackfillPanicPropagates(t *testing.T) {
	rows := make([]model.Indexed[int], 4*minBackfillChunk)
	for i := range rows {
		rows[i] = model.NewIndexed(model.RowID(i), i)
	}
	ix := New(model.NewIndexID(0), Func(func(v int) int {
		if v == len(rows)-1 {
			panic("boom")
		}
		return v
	}))

	assert.PanicsWithValue(t, "boom", func() { ix.Backfill(rows, 4) })
}

func TestSplit_ReadJoinsLiveRows(t *testing.T) {
	rows := newMapRows[pair]()
	r, w := Split(New(model.NewIndexID(0), Func(func(p pair) int { return p.A })), rows)

	for i, p := range []pair{{1, 2}, {1, 3}, {3, 4}} {
		w.Insert(rows.put(model.RowID(i), p))
	}

	assert.Equal(t, []pair{{1, 2}, {1, 3}}, r.GetValues(1))
	assert.Equal(t, []model.Indexed[pair]{model.NewIndexed[pair](2, pair{3, 4})}, r.Get(3))
	assert.True(t, r.Contains(3))
	assert.Nil(t, r.Get(5))
	assert.Nil(t, r.GetValues(5))

	// A row gone from the table but not yet unindexed is skipped.
	rows.remove(0)
	assert.Equal(t, []model.RowID{0, 1}, r.GetIDs(1))
	assert.Equal(t, []pair{{1, 3}}, r.GetValues(1))

	w.Delete(model.NewIndexed[pair](0, pair{1, 2}))
	assert.Equal(t, []model.RowID{1}, r.GetIDs(1))
}

type recordingObserver struct {
	mu                  sync.Mutex
	calls, hits, misses int
}

func (o *recordingObserver) ObserveLookup(_ time.Duration, hits, misses int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	o.hits += hits
	o.misses += misses
}

func TestSplit_Observer(t *testing.T) {
	rows := newMapRows[int]()
	obs := &recordingObserver{}
	r, w := Split(New(model.NewIndexID(0), Func(func(v int) int { return v % 2 })), rows, WithObserver(obs))

	w.Insert(rows.put(0, 2))
	w.Insert(rows.put(1, 4))
	rows.remove(1)

	assert.Len(t, r.Get(0), 1)
	assert.Empty(t, r.Get(1))

	assert.Equal(t, 2, obs.calls)
	assert.Equal(t, 1, obs.hits)
	assert.Equal(t, 1, obs.misses)
}

func TestSplit_PoisonedAfterExtractorPanic(t *testing.T) {
	rows := newMapRows[int]()
	r, w := Split(New(model.NewIndexID(7), Func(func(v int) int {
		if v < 0 {
			panic("negative")
		}
		return v
	})), rows)

	w.Insert(rows.put(0, 1))
	assert.PanicsWithValue(t, "negative", func() { w.Insert(rows.put(1, -1)) })

	assertPoisoned := func(fn func()) {
		t.Helper()
		defer func() {
			rec := recover()
			require.NotNil(t, rec)
			err, ok := rec.(error)
			require.True(t, ok)
			assert.True(t, errors.Is(err, model.ErrPoisoned))
			var pe *PoisonedError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, model.IndexID(7), pe.Index)
		}()
		fn()
	}

	assertPoisoned(func() { r.Get(1) })
	assertPoisoned(func() { r.Keys() })
	assertPoisoned(func() { w.Insert(rows.put(2, 2)) })
}

func TestSplit_ConcurrentReadersAndWriter(t *testing.T) {
	rows := newMapRows[int]()
	r, w := Split(New(model.NewIndexID(0), Func(func(v int) int { return v % 4 })), rows)

	const n = 2000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range n {
			w.Insert(rows.put(model.RowID(i), i))
		}
	}()

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range n {
				for _, v := range r.GetValues(i % 4) {
					if v%4 != i%4 {
						t.Errorf("value %d under key %d", v, i%4)
						return
					}
				}
				_ = r.Keys()
			}
		}()
	}
	wg.Wait()

	total := 0
	for k := range 4 {
		total += len(r.Get(k))
	}
	assert.Equal(t, n, total)
}
