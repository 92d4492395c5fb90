// Package hashsync provides an in-process, generically typed table store
// with live secondary indexes.
//
// A Store maps row ids to row values. Any number of indexes can be attached
// to it at any time; each one maps keys extracted from a row to the set of
// row ids producing them and is kept in step with every later mutation.
//
// # Quick Start
//
//	type User struct {
//	    Name  string
//	    Roles []string
//	}
//
//	users := hashsync.New[User]()
//	id := users.Insert(User{Name: "ada", Roles: []string{"admin"}})
//
//	byName := hashsync.Index(users, func(u User) string { return u.Name })
//	byRole := hashsync.IndexMany(users, func(u User) []string { return u.Roles })
//
//	byName.GetValues("ada")  // [{ada [admin]}]
//	byRole.Get("admin")      // [{id {ada [admin]}}]
//
//	users.Delete(id)
//	byRole.Keys()            // []
//
// # Registering Indexes
//
// Index, IndexMany, IndexID and IndexIDMany cover the four key extraction
// shapes; Register takes any index.KeyExtractor. Registration backfills the
// new index from the rows present at that instant while writers are held
// off, then returns the read handle.
//
// # Concurrency
//
// All methods are safe for concurrent use. The table is sharded; a mutation
// locks only its row's shard and runs index maintenance inside that
// section, so ByID never observes a row half-updated and Replace never
// exposes a gap. Indexes are updated one after another: a mutation is not
// visible in all indexes at the same instant.
//
// Index reads resolve candidate ids against the live table and silently
// skip ids whose row has disappeared in the meantime.
//
// # Failure Model
//
// Lookups of unknown ids return (zero, false). A panic raised by a key
// extractor while an index or shard lock is held poisons that structure;
// later accesses panic with an error wrapping ErrPoisoned.
//
// # Observability
//
// WithLogger enables structured logging (log/slog); WithMetricsCollector
// plugs in a MetricsCollector such as BasicMetricsCollector or the
// Prometheus collector in metrics/prometheus.
package hashsync
