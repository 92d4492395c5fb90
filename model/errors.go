package model

import "errors"

// ErrPoisoned reports that a structure was left in an unknown state by a
// panic inside one of its critical sections. It is never recoverable.
var ErrPoisoned = errors.New("hashsync: poisoned by an earlier panic")
