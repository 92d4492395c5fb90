package model

// Indexed pairs a row identifier with a row value.
// It is the unit passed into index maintenance and returned from lookups.
type Indexed[V any] struct {
	id    RowID
	value V
}

// NewIndexed creates an Indexed entry.
func NewIndexed[V any](id RowID, value V) Indexed[V] {
	return Indexed[V]{id: id, value: value}
}

// ID returns the row identifier.
func (e Indexed[V]) ID() RowID {
	return e.id
}

// Value returns the row value.
func (e Indexed[V]) Value() V {
	return e.value
}

// IntoValue discards the identifier and returns the value.
func (e Indexed[V]) IntoValue() V {
	return e.value
}
