// Package util provides supporting data structures and helper functions for
// the database engines in this module.
//
// The package contains:
//   - Hash helpers: UintKey and HashString (seeded FNV-1a) for converting
//     string keys into the integer keys the sharded engines operate on, plus
//     GenerateSeed for per-instance hash seeding.
//   - Statistics helpers: SizeHistogram for sampling value-size distributions
//     and DistributionStats for judging shard balance. Both are used by
//     engine GetInfo implementations to report estimates without full scans.
package util
