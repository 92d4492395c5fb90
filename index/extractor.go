package index

import "github.com/hupe1980/hashsync/model"

// KeyExtractor derives the index keys of a row.
// It may return zero, one or many keys; duplicates are harmless.
type KeyExtractor[K comparable, V any] interface {
	ExtractKeys(row model.Indexed[V]) []K
}

// ExtractorFunc adapts a function to KeyExtractor.
type ExtractorFunc[K comparable, V any] func(row model.Indexed[V]) []K

// ExtractKeys implements KeyExtractor.
func (f ExtractorFunc[K, V]) ExtractKeys(row model.Indexed[V]) []K {
	return f(row)
}

// Func extracts exactly one key from the row value.
func Func[K comparable, V any](fn func(V) K) KeyExtractor[K, V] {
	return ExtractorFunc[K, V](func(row model.Indexed[V]) []K {
		return []K{fn(row.Value())}
	})
}

// ManyFunc extracts any number of keys from the row value.
func ManyFunc[K comparable, V any](fn func(V) []K) KeyExtractor[K, V] {
	return ExtractorFunc[K, V](func(row model.Indexed[V]) []K {
		return fn(row.Value())
	})
}

// IDFunc extracts exactly one key from the row id and value.
func IDFunc[K comparable, V any](fn func(model.RowID, V) K) KeyExtractor[K, V] {
	return ExtractorFunc[K, V](func(row model.Indexed[V]) []K {
		return []K{fn(row.ID(), row.Value())}
	})
}

// IDManyFunc extracts any number of keys from the row id and value.
func IDManyFunc[K comparable, V any](fn func(model.RowID, V) []K) KeyExtractor[K, V] {
	return ExtractorFunc[K, V](func(row model.Indexed[V]) []K {
		return fn(row.ID(), row.Value())
	})
}
