// Package astore provides the local implementation of the article store.
// It composes a key-value engine (the record store) with a chronological
// index (the listing order) and implements all article semantics on top:
// slug assignment, validation, partial-update merging, favorite counting,
// batch-fetched paginated listings and snapshot persistence.
//
// Key Components:
//
//   - NewArticleStore: Factory creating a store from a db.KVDB factory, an
//     index.IndexFactory and an article serializer. The returned store
//     satisfies store.IArticleStore plus snapshot Save/Load.
//
//   - Listing pipeline: List resolves a rank window against the index and
//     batch-loads the records with a single KVDB.GetMany pass. ListByAuthor
//     has no index support; it loads the full corpus in chronological order
//     and filters by author email in memory.
//
//   - Persistence: Save delegates to the engine snapshot. Load restores the
//     engine and rebuilds the chronological index by decoding every stored
//     record, since the index itself is not persisted.
//
// Consistency model:
//
//	Record and index writes are sequential, not transactional. Mutations use
//	read-modify-write without locking, so concurrent updates to the same
//	slug can lose writes; the last persist wins wholesale. Corrupt or
//	missing records referenced by the index are logged and skipped by
//	listings rather than surfaced as errors.
package astore
