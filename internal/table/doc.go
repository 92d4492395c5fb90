// Package table implements the sharded primary row table.
//
// Rows are spread over a power-of-two number of shards chosen by hashing the
// row id. Each shard has its own RWMutex, so independent rows are read and
// written without a global lock, while Update gives an atomic
// read-modify-write of a single row. Shards are padded to a cache line to
// keep neighbouring locks from false sharing.
package table
