package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/snipvault/internal/collection"
	"github.com/urfave/cli/v3"
)

// CacheSync refreshes the offline cache for one scope or all of them.
func (r *Runner) CacheSync(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	scopes := []collection.Scope{collection.Mine, collection.Public, collection.Favorites}
	if raw := cmd.String("scope"); raw != "" {
		scope, err := collection.ParseScope(raw)
		if err != nil {
			return err
		}
		scopes = []collection.Scope{scope}
	}

	db, repo, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	for _, scope := range scopes {
		store := collection.NewStore(scope, r.gateway)
		if err := store.Fetch(ctx); err != nil {
			return fmt.Errorf("failed to fetch %s scope: %w", scope, err)
		}

		snippets := store.Snippets()
		if err := repo.ReplaceScope(string(scope), snippets); err != nil {
			return err
		}

		r.logger.Info("scope synced", "scope", scope, "snippets", len(snippets))
		r.writePlain("✓ Synced %s (%d snippets)\n", scope, len(snippets))
	}

	return nil
}

// CacheStatus lists sync records for every cached scope.
func (r *Runner) CacheStatus(ctx context.Context, cmd *cli.Command) error {
	db, repo, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	statuses, err := repo.Syncs()
	if err != nil {
		return err
	}

	if len(statuses) == 0 {
		return r.writePlain("Offline cache is empty. Run 'snipvault cache sync' first.\n")
	}

	for _, status := range statuses {
		r.writePlain("%-12s %4d snippets  synced %s\n",
			status.Scope, status.SnippetCount, status.SyncedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// CacheClear empties the offline cache for one scope or all of them.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	db, repo, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	if raw := cmd.String("scope"); raw != "" {
		scope, err := collection.ParseScope(raw)
		if err != nil {
			return err
		}
		if err := repo.Clear(string(scope)); err != nil {
			return err
		}
		return r.writePlain("✓ Cleared cached %s scope\n", scope)
	}

	if err := repo.ClearAll(); err != nil {
		return err
	}
	return r.writePlain("✓ Cleared offline cache\n")
}
