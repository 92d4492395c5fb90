// Package testutil provides testing utilities for hashsync.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe RNG and a generator of random store
// workloads for model-based tests.
//
// # Random Workloads
//
//	rng := testutil.NewRNG(seed)
//	ops := rng.Ops(1000, testutil.OpMix{Insert: 6, Delete: 3, Replace: 1}, 64)
//	for _, op := range ops {
//	    switch op.Kind {
//	    case testutil.OpInsert:  // ...
//	    case testutil.OpDelete:  // ...
//	    case testutil.OpReplace: // ...
//	    }
//	}
package testutil
