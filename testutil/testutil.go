package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Strings returns n random lowercase strings of length 1..maxLen drawn from
// an alphabet of size alphabet (at most 26). Small alphabets give many
// duplicates, which is what index tests want.
func (r *RNG) Strings(n, maxLen, alphabet int) []string {
	alphabet = min(max(alphabet, 1), 26)
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, n)
	for i := range out {
		b := make([]byte, 1+r.rand.Intn(maxLen))
		for j := range b {
			b[j] = byte('a' + r.rand.Intn(alphabet))
		}
		out[i] = string(b)
	}
	return out
}

// OpKind is the kind of a generated store operation.
type OpKind int

// Operation kinds.
const (
	OpInsert OpKind = iota
	OpDelete
	OpReplace
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// OpMix weights the operation kinds. Zero weights disable a kind.
type OpMix struct {
	Insert, Delete, Replace int
}

// Op is one generated store operation.
//
// For OpDelete and OpReplace, Target is a row id drawn from [0, idSpace);
// it may or may not exist in the store. Value is a payload for OpInsert and
// OpReplace.
type Op struct {
	Kind   OpKind
	Target uint64
	Value  int
}

// Ops returns n operations drawn according to mix. Targets are drawn from
// [0, idSpace) so that deletes and replaces hit live rows, dead rows and
// never-used ids alike.
func (r *RNG) Ops(n int, mix OpMix, idSpace int) []Op {
	total := mix.Insert + mix.Delete + mix.Replace
	if total <= 0 {
		mix, total = OpMix{Insert: 1}, 1
	}
	idSpace = max(idSpace, 1)

	r.mu.Lock()
	defer r.mu.Unlock()

	ops := make([]Op, n)
	for i := range ops {
		w := r.rand.Intn(total)
		op := Op{Value: r.rand.Intn(1 << 16)}
		switch {
		case w < mix.Insert:
			op.Kind = OpInsert
		case w < mix.Insert+mix.Delete:
			op.Kind = OpDelete
			op.Target = uint64(r.rand.Intn(idSpace))
		default:
			op.Kind = OpReplace
			op.Target = uint64(r.rand.Intn(idSpace))
		}
		ops[i] = op
	}
	return ops
}
