package index

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/hupe1980/hashsync/model"
)

// IDSet is a set of row ids.
// It wraps a 64-bit roaring bitmap and is not safe for concurrent mutation.
type IDSet struct {
	rb *roaring64.Bitmap
}

// NewIDSet creates a set holding ids.
func NewIDSet(ids ...model.RowID) *IDSet {
	s := &IDSet{rb: roaring64.New()}
	for _, id := range ids {
		s.rb.Add(uint64(id))
	}
	return s
}

// Add adds id to the set.
func (s *IDSet) Add(id model.RowID) {
	s.rb.Add(uint64(id))
}

// Remove removes id from the set.
func (s *IDSet) Remove(id model.RowID) {
	s.rb.Remove(uint64(id))
}

// Contains reports whether id is in the set.
func (s *IDSet) Contains(id model.RowID) bool {
	return s.rb.Contains(uint64(id))
}

// IsEmpty returns true if the set has no members.
func (s *IDSet) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Len returns the number of members.
func (s *IDSet) Len() int {
	return int(s.rb.GetCardinality())
}

// Clone returns a deep copy of the set.
func (s *IDSet) Clone() *IDSet {
	return &IDSet{rb: s.rb.Clone()}
}

// ToSlice returns the members in ascending order.
func (s *IDSet) ToSlice() []model.RowID {
	ids := make([]model.RowID, 0, s.rb.GetCardinality())
	it := s.rb.Iterator()
	for it.HasNext() {
		ids = append(ids, model.RowID(it.Next()))
	}
	return ids
}

// All returns an iterator over the members in ascending order.
func (s *IDSet) All() iter.Seq[model.RowID] {
	return func(yield func(model.RowID) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(model.RowID(it.Next())) {
				return
			}
		}
	}
}

// SizeInBytes returns the serialized size of the underlying bitmap.
func (s *IDSet) SizeInBytes() uint64 {
	return s.rb.GetSizeInBytes()
}
