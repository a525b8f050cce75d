package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/snipvault/internal/models"
	"github.com/desertthunder/snipvault/internal/shared"
)

// SyncStatus describes the last successful sync for one scope.
type SyncStatus struct {
	Scope        string
	SyncedAt     time.Time
	SnippetCount int
}

// SnippetCacheRepository stores per-scope snapshots of fetched snippet
// collections. A snapshot is replaced atomically, so readers never observe a
// half-written scope.
type SnippetCacheRepository struct {
	db *sql.DB
}

// NewSnippetCacheRepository creates a new SnippetCacheRepository with the given database connection
func NewSnippetCacheRepository(db *sql.DB) *SnippetCacheRepository {
	return &SnippetCacheRepository{db: db}
}

// ReplaceScope swaps the cached snapshot for a scope with the given
// collection. Rows keep the fetch order via the position column, and the
// scope's sync record is refreshed in the same transaction.
func (r *SnippetCacheRepository) ReplaceScope(scope string, snippets []models.Snippet) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cached_snippets WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("failed to clear scope %s: %w", scope, err)
	}

	insert := `
		INSERT INTO cached_snippets (row_id, scope, snippet_id, position, payload)
		VALUES (?, ?, ?, ?, ?)
	`

	for i, snippet := range snippets {
		payload, err := json.Marshal(snippet)
		if err != nil {
			return fmt.Errorf("failed to encode snippet %d: %w", snippet.ID, err)
		}

		if _, err := tx.Exec(insert, shared.GenerateID(), scope, snippet.ID, i, payload); err != nil {
			return fmt.Errorf("failed to insert snippet %d: %w", snippet.ID, err)
		}
	}

	sync := `
		INSERT INTO cache_syncs (scope, synced_at, snippet_count)
		VALUES (?, ?, ?)
		ON CONFLICT(scope) DO UPDATE SET synced_at = excluded.synced_at, snippet_count = excluded.snippet_count
	`
	if _, err := tx.Exec(sync, scope, time.Now().UTC(), len(snippets)); err != nil {
		return fmt.Errorf("failed to record sync for scope %s: %w", scope, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cache replace: %w", err)
	}

	return nil
}

// List returns the cached snapshot for a scope in its original fetch order.
// An unsynced scope yields an empty slice, not an error; use [SnippetCacheRepository.SyncInfo]
// to distinguish "never synced" from "synced empty".
func (r *SnippetCacheRepository) List(scope string) ([]models.Snippet, error) {
	rows, err := r.db.Query(`
		SELECT payload FROM cached_snippets
		WHERE scope = ?
		ORDER BY position ASC
	`, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached snippets: %w", err)
	}
	defer rows.Close()

	var snippets []models.Snippet
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan cached snippet: %w", err)
		}

		var snippet models.Snippet
		if err := json.Unmarshal(payload, &snippet); err != nil {
			return nil, fmt.Errorf("failed to decode cached snippet: %w", err)
		}
		snippets = append(snippets, snippet)
	}

	return snippets, rows.Err()
}

// Get retrieves one cached snippet by its server id within a scope.
func (r *SnippetCacheRepository) Get(scope string, snippetID int64) (*models.Snippet, error) {
	var payload []byte
	err := r.db.QueryRow(`
		SELECT payload FROM cached_snippets
		WHERE scope = ? AND snippet_id = ?
	`, scope, snippetID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: snippet %d is not cached in scope %s", shared.ErrNotFound, snippetID, scope)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cached snippet: %w", err)
	}

	var snippet models.Snippet
	if err := json.Unmarshal(payload, &snippet); err != nil {
		return nil, fmt.Errorf("failed to decode cached snippet: %w", err)
	}
	return &snippet, nil
}

// SyncInfo returns the last sync record for a scope, or [shared.ErrNotFound]
// when the scope has never been synced.
func (r *SnippetCacheRepository) SyncInfo(scope string) (*SyncStatus, error) {
	status := &SyncStatus{Scope: scope}
	err := r.db.QueryRow(`
		SELECT synced_at, snippet_count FROM cache_syncs WHERE scope = ?
	`, scope).Scan(&status.SyncedAt, &status.SnippetCount)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: scope %s has never been synced", shared.ErrNotFound, scope)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query sync record: %w", err)
	}

	return status, nil
}

// Syncs lists sync records for every scope that has one.
func (r *SnippetCacheRepository) Syncs() ([]SyncStatus, error) {
	rows, err := r.db.Query(`
		SELECT scope, synced_at, snippet_count FROM cache_syncs ORDER BY scope
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync records: %w", err)
	}
	defer rows.Close()

	var statuses []SyncStatus
	for rows.Next() {
		var s SyncStatus
		if err := rows.Scan(&s.Scope, &s.SyncedAt, &s.SnippetCount); err != nil {
			return nil, fmt.Errorf("failed to scan sync record: %w", err)
		}
		statuses = append(statuses, s)
	}

	return statuses, rows.Err()
}

// Clear removes a scope's snapshot and its sync record.
func (r *SnippetCacheRepository) Clear(scope string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cached_snippets WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("failed to clear scope %s: %w", scope, err)
	}
	if _, err := tx.Exec(`DELETE FROM cache_syncs WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("failed to clear sync record for scope %s: %w", scope, err)
	}

	return tx.Commit()
}

// ClearAll empties the entire cache.
func (r *SnippetCacheRepository) ClearAll() error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cached_snippets`); err != nil {
		return fmt.Errorf("failed to clear cached snippets: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM cache_syncs`); err != nil {
		return fmt.Errorf("failed to clear sync records: %w", err)
	}

	return tx.Commit()
}
