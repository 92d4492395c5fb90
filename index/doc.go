// Package index implements live secondary indexes over a row table.
//
// An Index owns one KeyExtractor and an inverted mapping from extracted key
// to the set of row ids currently producing that key. Key sets are roaring
// bitmaps; a key whose set becomes empty is removed, so Keys never reports
// keys without members.
//
// # Read / Write Split
//
// Split wraps an Index into two handles sharing it behind one RWMutex:
//
//   - Write receives Insert/Delete/Update from the owning store on every
//     mutation and takes the lock exclusively per call.
//   - Read serves lookups under the shared lock and joins the candidate ids
//     back against the live table through the Rows interface. Ids whose row
//     has disappeared are dropped silently (staleness-tolerant read).
//
// # Key Extraction
//
// All four call shapes normalise to a KeyExtractor that sees the row id and
// value and emits any number of keys:
//
//	index.Func(func(v Row) string { return v.Name })
//	index.ManyFunc(func(v Row) []string { return v.Tags })
//	index.IDFunc(func(id model.RowID, v Row) uint64 { return uint64(id) % 8 })
//	index.IDManyFunc(func(id model.RowID, v Row) []string { ... })
//
// Extractors must be pure: Delete recomputes keys from the presented value
// rather than remembering them, and backfill may call an extractor from
// several goroutines at once.
//
// # Poisoning
//
// A panic raised by an extractor while the write lock is held poisons the
// index. Every later call on either handle panics with a *PoisonedError.
package index
