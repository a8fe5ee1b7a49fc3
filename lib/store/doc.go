// Package store provides a high-level interface for article storage with
// chronological listing, pagination and unified error handling. It serves as
// an abstraction layer over the lower-level db.KVDB implementations, adding
// article semantics such as slug assignment, partial updates, favorite
// counting and write index management.
//
// The package focuses on:
//   - A unified interface (IArticleStore) for article operations across
//     different backends
//   - Pluggable storage backend architecture through the DBFactory pattern
//
// Key Components:
//
//   - IArticleStore Interface: The core abstraction defining operations for
//     interacting with an article store. All implementations share this
//     common interface, allowing applications to switch between a local
//     store and a remote RPC-backed store without code changes. The
//     interface methods return custom Error types that provide detailed
//     information about operation results.
//
//   - Error System: A structured error reporting mechanism using typed error
//     codes and descriptive messages. This system allows applications to
//     distinguish a missing article from a validation failure or an internal
//     fault rather than inspecting generic errors.
//
//   - DBFactory: A function type that abstracts the creation of underlying
//     db.KVDB instances, providing dependency injection and flexible
//     configuration of storage backends.
//
// Implementations:
//
//	The package includes one local implementation of the IArticleStore
//	interface; a remote implementation lives in the rpc/client package:
//
//	- Article Store (astore): A single-node implementation that composes a
//	  db.KVDB record store with a chronological secondary index. It manages
//	  write index progression internally using atomic operations to ensure
//	  thread safety. Available in the
//	  "github.com/ValentinKolb/aKV/lib/store/astore" package.
//
//	- RPC Client (rpc/client): An implementation that forwards every
//	  operation to a remote article store server over a pluggable transport.
//	  Available in the "github.com/ValentinKolb/aKV/rpc/client" package.
package store
