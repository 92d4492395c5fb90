package hashsync

import (
	"github.com/hupe1980/hashsync/index"
	"github.com/hupe1980/hashsync/internal/table"
	"github.com/hupe1980/hashsync/model"
)

// ErrPoisoned is wrapped by every panic value raised after a panic left a
// table shard or an index in an unknown state. Such a store cannot be
// trusted anymore; there is no recovery path.
//
// Match it with errors.Is on the recovered value:
//
//	defer func() {
//	    if err, ok := recover().(error); ok && errors.Is(err, hashsync.ErrPoisoned) {
//	        // ...
//	    }
//	}()
var ErrPoisoned = model.ErrPoisoned

// IndexPoisonedError is the panic value of a poisoned index.
type IndexPoisonedError = index.PoisonedError

// ShardPoisonedError is the panic value of a poisoned table shard.
type ShardPoisonedError = table.PoisonedError
