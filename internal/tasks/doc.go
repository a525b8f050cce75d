// Package tasks orchestrates long-running snippet operations with real-time progress reporting.
//
// # Core Operations
//
// The [ExportEngine] exports a whole collection scope to local files:
//   - Fetches the scope's snippet listing from the vault service
//   - Renders each snippet concurrently through a bounded worker pool
//   - Writes an export manifest summarizing successes and failures
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, and messages for
// display. Updates use select with default to prevent blocking, so a slow or
// absent consumer never stalls the export.
package tasks
