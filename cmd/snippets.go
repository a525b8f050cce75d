package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/desertthunder/snipvault/internal/collection"
	"github.com/desertthunder/snipvault/internal/form"
	"github.com/desertthunder/snipvault/internal/formatter"
	"github.com/desertthunder/snipvault/internal/models"
	"github.com/desertthunder/snipvault/internal/shared"
	"github.com/urfave/cli/v3"
)

// SnippetsList fetches a scope's snippet collection, falling back to the
// offline cache when the service is unreachable.
func (r *Runner) SnippetsList(ctx context.Context, cmd *cli.Command) error {
	scope, err := collection.ParseScope(cmd.String("scope"))
	if err != nil {
		return err
	}
	if scope != collection.Public {
		if err := r.requireAuth(); err != nil {
			return err
		}
	}

	store := collection.NewStore(scope, r.gateway)
	if err := store.Fetch(ctx); err != nil {
		if errors.Is(err, shared.ErrNetwork) {
			return r.listFromCache(scope, cmd)
		}
		return err
	}

	r.syncCache(scope, store.Snippets())

	if language := cmd.String("language"); language != "" {
		store.SetLanguageFilter(language)
	}

	if cmd.Bool("facets") {
		return r.printFacets(store.Facets())
	}

	snippets := store.Filtered()
	if cmd.Bool("json") {
		return r.writeJSON(snippets, cmd.Bool("pretty"))
	}
	return r.printSnippets(snippets)
}

// SnippetsSearch runs a server-side keyword search within a scope.
func (r *Runner) SnippetsSearch(ctx context.Context, cmd *cli.Command) error {
	scope, err := collection.ParseScope(cmd.String("scope"))
	if err != nil {
		return err
	}
	if scope == collection.Mine {
		if err := r.requireAuth(); err != nil {
			return err
		}
	}

	keyword := cmd.StringArg("keyword")

	store := collection.NewStore(scope, r.gateway)
	if err := store.Search(ctx, keyword); err != nil {
		return err
	}

	snippets := store.Snippets()
	if cmd.Bool("json") {
		return r.writeJSON(snippets, cmd.Bool("pretty"))
	}

	if len(snippets) == 0 {
		return r.writePlain("No snippets matched %q\n", strings.TrimSpace(keyword))
	}
	return r.printSnippets(snippets)
}

// SnippetsShow prints one snippet, rendered as Markdown or raw JSON.
func (r *Runner) SnippetsShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int64("id")
	if id == 0 {
		return fmt.Errorf("%w: --id is required", shared.ErrMissingArgument)
	}

	var snippet *models.Snippet
	if cmd.Bool("public") {
		fetched, err := r.gateway.PublicSnippet(ctx, id)
		if err != nil {
			return err
		}
		snippet = fetched
	} else {
		if err := r.requireAuth(); err != nil {
			return err
		}
		mine, err := r.gateway.MySnippets(ctx)
		if err != nil {
			return err
		}
		for i := range mine {
			if mine[i].ID == id {
				snippet = &mine[i]
				break
			}
		}
		if snippet == nil {
			return fmt.Errorf("%w: snippet %d is not in your collection", shared.ErrNotFound, id)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(snippet, cmd.Bool("pretty"))
	}
	if cmd.Bool("copy") {
		if err := formatter.CopyContent(*snippet); err != nil {
			return err
		}
		r.writePlain("✓ Copied to clipboard\n")
	}
	return r.writePlain("%s", formatter.ToMarkdown(*snippet))
}

// SnippetsCreate submits a new snippet draft built from flags.
func (r *Runner) SnippetsCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	content, err := readContent(cmd)
	if err != nil {
		return err
	}

	controller := form.NewController(r.gateway)
	controller.SetDraft(models.Draft{
		Title:    cmd.String("title"),
		Content:  content,
		Language: cmd.String("language"),
		Tags:     splitTags(cmd.String("tags")),
		IsPublic: cmd.Bool("public"),
	})

	snippet, err := controller.Submit(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("snippet created", "id", snippet.ID, "title", snippet.Title)
	return r.writePlain("✓ Created snippet #%d: %s\n", snippet.ID, snippet.Title)
}

// SnippetsEdit loads an owned snippet into a draft, applies flag overrides,
// and submits the update.
func (r *Runner) SnippetsEdit(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id := cmd.Int64("id")
	if id == 0 {
		return fmt.Errorf("%w: --id is required", shared.ErrMissingArgument)
	}

	controller := form.NewController(r.gateway)
	if err := controller.LoadForEdit(ctx, id); err != nil {
		return err
	}

	draft := controller.Draft()
	if title := cmd.String("title"); title != "" {
		draft.Title = title
	}
	if language := cmd.String("language"); language != "" {
		draft.Language = language
	}
	if cmd.IsSet("tags") {
		draft.Tags = splitTags(cmd.String("tags"))
	}
	if cmd.IsSet("public") {
		draft.IsPublic = cmd.Bool("public")
	}
	if cmd.IsSet("file") || cmd.Bool("stdin") {
		content, err := readContent(cmd)
		if err != nil {
			return err
		}
		draft.Content = content
	}
	controller.SetDraft(draft)

	snippet, err := controller.Submit(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("snippet updated", "id", snippet.ID)
	return r.writePlain("✓ Updated snippet #%d: %s\n", snippet.ID, snippet.Title)
}

// SnippetsDelete removes an owned snippet.
func (r *Runner) SnippetsDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id := cmd.Int64("id")
	if id == 0 {
		return fmt.Errorf("%w: --id is required", shared.ErrMissingArgument)
	}

	if err := r.gateway.DeleteSnippet(ctx, id); err != nil {
		return err
	}

	r.logger.Info("snippet deleted", "id", id)
	return r.writePlain("✓ Deleted snippet #%d\n", id)
}

// SnippetsFavorite toggles the favorite flag on a snippet.
func (r *Runner) SnippetsFavorite(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id := cmd.Int64("id")
	if id == 0 {
		return fmt.Errorf("%w: --id is required", shared.ErrMissingArgument)
	}

	snippet, err := r.gateway.ToggleFavorite(ctx, id)
	if err != nil {
		return err
	}

	if snippet.IsFavorite {
		return r.writePlain("★ Favorited %q\n", snippet.Title)
	}
	return r.writePlain("☆ Unfavorited %q\n", snippet.Title)
}

// SnippetsTags lists tags, optionally only the most used ones.
func (r *Runner) SnippetsTags(ctx context.Context, cmd *cli.Command) error {
	var tags []models.Tag
	var err error
	if cmd.Bool("popular") {
		tags, err = r.gateway.PopularTags(ctx)
	} else {
		tags, err = r.gateway.Tags(ctx)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tags, cmd.Bool("pretty"))
	}

	for _, tag := range tags {
		r.writePlain("%-24s %d\n", tag.Name, tag.UsageCount)
	}
	return nil
}

func (r *Runner) listFromCache(scope collection.Scope, cmd *cli.Command) error {
	r.logger.Warn("service unreachable, reading offline cache", "scope", scope)

	db, repo, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	status, err := repo.SyncInfo(string(scope))
	if err != nil {
		return fmt.Errorf("service unreachable and %w", err)
	}

	snippets, err := repo.List(string(scope))
	if err != nil {
		return err
	}

	if language := cmd.String("language"); language != "" {
		snippets = collection.Filter(snippets, language)
	}

	r.writePlain("(offline: cached %s, synced %s)\n", scope, status.SyncedAt.Local().Format("2006-01-02 15:04"))
	if cmd.Bool("json") {
		return r.writeJSON(snippets, cmd.Bool("pretty"))
	}
	return r.printSnippets(snippets)
}

// syncCache best-effort refreshes the offline cache after a successful fetch.
func (r *Runner) syncCache(scope collection.Scope, snippets []models.Snippet) {
	db, repo, err := r.openCache()
	if err != nil {
		r.logger.Warn("failed to open offline cache", "error", err)
		return
	}
	defer db.Close()

	if err := repo.ReplaceScope(string(scope), snippets); err != nil {
		r.logger.Warn("failed to refresh offline cache", "scope", scope, "error", err)
	}
}

func (r *Runner) printSnippets(snippets []models.Snippet) error {
	for _, s := range snippets {
		star := " "
		if s.IsFavorite {
			star = "★"
		}
		visibility := "private"
		if s.IsPublic {
			visibility = "public"
		}

		line := fmt.Sprintf("%s #%-5d %-32s %-12s %s", star, s.ID, s.Title, s.Language, visibility)
		if len(s.Tags) > 0 {
			line = fmt.Sprintf("%s  [%s]", line, strings.Join(s.Tags, ", "))
		}
		if err := r.writePlain("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) printFacets(facets []models.LanguageCount) error {
	for _, facet := range facets {
		if err := r.writePlain("%-16s %d\n", facet.Name, facet.Count); err != nil {
			return err
		}
	}
	return nil
}

// readContent resolves snippet content from --file or stdin.
func readContent(cmd *cli.Command) (string, error) {
	if path := cmd.String("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read content file: %w", err)
		}
		return string(data), nil
	}

	if cmd.Bool("stdin") {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	return "", fmt.Errorf("%w: provide content via --file or --stdin", shared.ErrMissingArgument)
}

func splitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
