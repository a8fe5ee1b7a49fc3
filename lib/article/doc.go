// Package article defines the data model of the article store: the Article
// record with its embedded Author identity snapshot, the NewArticle and
// UpdateArticle operation payloads, and the Page result type for listing
// queries.
//
// The package holds plain data types only; persistence and business rules
// live in the store packages. Field names in the JSON representation match
// the wire format consumers of the store expect (camelCase, RFC3339
// timestamps).
//
// A note on the Favorited flag: it is a single boolean on the record, not a
// per-user relation. It conflates "liked by the current viewer" with global
// state and cannot represent per-user favorites. This is the data model the
// store exposes; see the store documentation for the counter semantics
// built on top of it.
package article
