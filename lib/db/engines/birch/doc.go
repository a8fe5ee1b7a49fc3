// Package birch provides a sharded in-memory implementation of the db.KVDB
// interface, tuned for the access pattern of a record store that is read in
// batches: unconditional overwrites, immediate deletes, and a GetMany
// operation that resolves an ordered list of keys in one pass.
//
// Architecture:
//
//   - Sharding: Keys are hashed (seeded FNV-1a, see lib/db/util) to integer
//     keys and distributed over N independent shards (default: one per CPU).
//     Each shard owns a lock-free concurrent map, so operations on different
//     shards never contend.
//
//   - Write indices: Every write carries a logical timestamp. Writes with an
//     index older than the stored entry's are ignored, which keeps replayed
//     or re-ordered writes from resurrecting stale data.
//
//   - Persistence: Save writes a binary snapshot (magic number, version,
//     hash seed, then length-prefixed entries) that Load can restore into a
//     fresh set of shards. Save tolerates concurrent reads and writes; Load
//     must run exclusively.
//
// Unlike engines built for cache-like workloads, birch has no expiration,
// no TTL bookkeeping and no background garbage collection: entries live
// until they are explicitly deleted.
//
// Usage:
//
//	database := birch.NewBirchDB(nil) // default options
//	database.Set("article:abc", payload, 1)
//	values, loaded := database.GetMany([]string{"article:abc", "article:def"})
package birch
