package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRNG_Reproducible(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)
	assert.Equal(t, a.Ops(100, OpMix{Insert: 2, Delete: 1, Replace: 1}, 10), b.Ops(100, OpMix{Insert: 2, Delete: 1, Replace: 1}, 10))

	first := a.Strings(5, 3, 4)
	a.Reset()
	a.Ops(100, OpMix{Insert: 2, Delete: 1, Replace: 1}, 10)
	assert.Equal(t, first, a.Strings(5, 3, 4))
	assert.Equal(t, int64(42), a.Seed())
}

func TestRNG_OpsRespectMix(t *testing.T) {
	rng := NewRNG(1)
	for _, op := range rng.Ops(500, OpMix{Delete: 1}, 8) {
		assert.Equal(t, OpDelete, op.Kind)
		assert.Less(t, op.Target, uint64(8))
	}

	// An empty mix degenerates to inserts.
	for _, op := range rng.Ops(50, OpMix{}, 8) {
		assert.Equal(t, OpInsert, op.Kind)
	}
	assert.Equal(t, "replace", OpReplace.String())
}

func TestRNG_Strings(t *testing.T) {
	rng := NewRNG(7)
	for _, s := range rng.Strings(200, 3, 2) {
		assert.NotEmpty(t, s)
		assert.LessOrEqual(t, len(s), 3)
		for _, c := range s {
			assert.Contains(t, "ab", string(c))
		}
	}
}
