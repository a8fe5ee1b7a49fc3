package index

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IndexFactory is a function type that creates a new chronological index.
// This is used to abstract the creation of the index from the store implementation.
type IndexFactory func() IIndex

// IIndex is the interface for an ordered index mapping a key to a numeric
// score, supporting rank-range queries in descending score order.
//
// The article store uses it as a chronological index: the key is the
// article slug and the score is the record's last-modified timestamp in
// epoch milliseconds, so rank 0 is always the most recently updated record.
type IIndex interface {
	// Upsert inserts the key with the given score, or replaces the score
	// if the key is already indexed.
	Upsert(key string, score int64)

	// Remove deletes the key from the index. Removing an absent key is a no-op.
	Remove(key string)

	// RangeDesc returns the keys ranked startRank through stopRank (both
	// inclusive, 0-based) in descending score order. Ranks beyond the number
	// of indexed keys yield fewer (or no) entries, never an error.
	RangeDesc(startRank, stopRank int) []string

	// AllDesc returns every indexed key in descending score order.
	AllDesc() []string

	// Count returns the total number of indexed keys.
	Count() int
}
