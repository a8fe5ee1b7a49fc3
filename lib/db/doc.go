// Package db provides a standardized interface for key-value database implementations.
// It defines a KVDB interface that allows for consistent interaction with various
// database backends while abstracting implementation details.
//
// The package focuses on:
//   - A unified interface for key-value operations
//   - Batched reads (GetMany) for fetching many records in one round trip
//   - Feature discovery through capability flags
//   - Standardized persistence operations
//   - Comprehensive metadata reporting
//
// Key Components:
//
//   - KVDB Interface: The core interface that all database implementations must satisfy.
//     It provides methods for basic operations (Set, Get, GetMany, Has, Delete),
//     metadata retrieval (GetInfo), and persistence operations (Save, Load).
//
//   - Feature Flags: The Feature type defines capability flags that implementations
//     can advertise through the SupportsFeature method. This allows clients to
//     discover supported operations at runtime. GetMany in particular is an
//     optimization flag: callers that need many records may fall back to
//     per-key Get calls when it is not supported.
//
//   - Implementation Identifiers: The Implementation type provides string constants
//     for different database backends (currently "birch").
//
//   - Database Information: The DatabaseInfo structure provides standardized
//     reporting on database state, including size statistics, implementation type,
//     and implementation-specific metadata. Note: For most implementations all
//     size statistics will be estimated since a precise calculation can be
//     expensive.
//
// Note on Write Indices:
//   - All write operations require a write-index parameter that serves as a logical
//     timestamp. Implementations must ignore writes carrying an index lower than the
//     one already recorded for an entry, and the database's global write index must
//     only ever increase (see SetWriteIdx).
//
// Related Packages:
//
// The engines/birch package (github.com/ValentinKolb/aKV/lib/db/engines/birch)
// provides an implementation of the KVDB interface using a sharded in-memory
// architecture on lock-free maps, with batched reads and binary persistence.
//
// The testing package (github.com/ValentinKolb/aKV/lib/db/testing) provides
// standardized tests and benchmarks for database implementations that satisfy
// the KVDB interface.
package db
