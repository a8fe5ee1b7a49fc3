// Package index defines the ordered-index abstraction used by the article
// store to keep records in reverse-chronological order.
//
// The IIndex interface is a deliberately small "reverse sorted-set range"
// contract: Upsert, Remove, descending rank-range queries (RangeDesc), a
// full descending listing (AllDesc) and Count. Anything with an ordered
// range primitive - a balanced tree, a skip list, or a networked sorted
// set - can implement it, which keeps the backend swappable.
//
// Implementations:
//
//   - btreeindex (github.com/ValentinKolb/aKV/lib/index/btreeindex): an
//     in-process implementation on google/btree, safe for concurrent use.
//
// Note on score ties: keys with equal scores are returned in a stable but
// unspecified relative order. Callers that depend on ordering must use
// distinct scores (the article store does, via millisecond timestamps that
// advance with every mutation).
package index
