// Package repositories implements SQLite persistence for the offline snippet cache.
//
// The cache stores the last successfully fetched collection for each scope so
// listing commands can fall back to stale data when the service is
// unreachable. Rows keep their server-side ordering via an explicit position
// column, and each scope records when it was last synced.
//
// Key Implementations:
//   - [SnippetCacheRepository] : per-scope snapshot storage with atomic replace
package repositories
