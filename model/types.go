package model

import (
	"fmt"
)

// RowID identifies a row in the primary table.
// Freshly allocated values increase monotonically and are never reused.
type RowID uint64

// NewRowID returns the RowID equal to n.
func NewRowID(n uint64) RowID {
	return RowID(n)
}

// Next returns the smallest RowID strictly greater than id.
func (id RowID) Next() RowID {
	return id + 1
}

// Uint64 returns the raw value of id.
func (id RowID) Uint64() uint64 {
	return uint64(id)
}

// String returns a string representation of the RowID.
func (id RowID) String() string {
	return fmt.Sprintf("Row(%d)", uint64(id))
}

// IndexID identifies a secondary index within a store.
// It is informational; lookups never go through it.
type IndexID uint64

// NewIndexID returns the IndexID equal to n.
func NewIndexID(n uint64) IndexID {
	return IndexID(n)
}

// Next returns the smallest IndexID strictly greater than id.
func (id IndexID) Next() IndexID {
	return id + 1
}

// String returns a string representation of the IndexID.
func (id IndexID) String() string {
	return fmt.Sprintf("Index(%d)", uint64(id))
}
