// Package serializer provides payload serialization for article records and
// the operation payloads of the article store. It defines a common interface
// and multiple implementations so the stored representation is pluggable.
//
// Key Components:
//
//   - IArticleSerializer: Core interface that all serializer implementations
//     must satisfy. It covers the persisted Article record, listing Pages,
//     and the NewArticle/UpdateArticle operation payloads.
//
//   - jsonSerializerImpl: The default implementation. Stored payloads are
//     camelCase JSON documents with RFC3339 timestamps, which makes records
//     human-readable and interoperable with non-Go consumers.
//
//   - gobSerializerImpl: Implementation using Go's built-in gob encoding.
//     More compact for large bodies, but Go-only and not human-readable.
//
// Decoding failures are reported as plain errors; the store layer decides
// how to handle a corrupt stored payload (it logs and treats the record as
// absent rather than failing a whole listing).
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
package serializer
