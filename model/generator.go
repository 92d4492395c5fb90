package model

import "sync/atomic"

// Generator allocates identifiers from an atomic counter.
// The zero value starts at 0 and is ready to use.
type Generator struct {
	next atomic.Uint64
}

// NewGenerator returns a generator whose first allocation is start.
func NewGenerator(start uint64) *Generator {
	g := &Generator{}
	g.next.Store(start)
	return g
}

// Allocate returns the next identifier and advances the counter.
func (g *Generator) Allocate() uint64 {
	return g.next.Add(1) - 1
}

// Peek returns the value the next Allocate will return.
func (g *Generator) Peek() uint64 {
	return g.next.Load()
}

// RaiseTo advances the counter to at least n. It never lowers it.
func (g *Generator) RaiseTo(n uint64) {
	for {
		cur := g.next.Load()
		if cur >= n {
			return
		}
		if g.next.CompareAndSwap(cur, n) {
			return
		}
	}
}
