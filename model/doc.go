// Package model defines the value types shared by the store, its table and
// its indexes.
//
// # Identity Types
//
//   - RowID: row identifier, allocated monotonically and never reused (uint64)
//   - IndexID: identifier assigned to an index at registration (uint64)
//
// # Data Types
//
//   - Indexed: an immutable (RowID, value) pair handed to index maintenance
//     and returned from index lookups
//   - Generator: lock-free allocator for identifiers
package model
