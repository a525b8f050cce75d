package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/snipvault/internal/collection"
	"github.com/desertthunder/snipvault/internal/formatter"
	"github.com/desertthunder/snipvault/internal/models"
	"github.com/desertthunder/snipvault/internal/services"
	"github.com/desertthunder/snipvault/internal/shared"
	"golang.org/x/time/rate"
)

// ExportOpts contains configuration for collection exports.
type ExportOpts struct {
	Format     string  // Export format: source, markdown, txt, json
	OutputDir  string  // Base output directory (default: snipvault_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 4)
	RateLimit  float64 // Refresh requests per second (default: 5)
	Refresh    bool    // Re-fetch each public snippet individually before export
}

// SnippetExportResult records the outcome of exporting one snippet.
type SnippetExportResult struct {
	SnippetID int64    `json:"snippetId"`
	Title     string   `json:"title"`
	Success   bool     `json:"success"`
	Files     []string `json:"files"`
	Error     string   `json:"error,omitempty"`
}

// ExportResult summarizes a full collection export.
type ExportResult struct {
	Scope             string                `json:"scope"`
	Format            string                `json:"format"`
	TotalSnippets     int                   `json:"totalSnippets"`
	SuccessfulExports int                   `json:"successfulExports"`
	FailedExports     int                   `json:"failedExports"`
	OutputDirectory   string                `json:"outputDirectory"`
	ManifestPath      string                `json:"manifestPath,omitempty"`
	Results           []SnippetExportResult `json:"results"`
}

type exportJob struct {
	snippet models.Snippet
}

// ExportEngine exports snippet collections to local files.
type ExportEngine struct {
	gateway services.Gateway
}

// NewExportEngine creates an ExportEngine backed by the given gateway.
func NewExportEngine(gateway services.Gateway) *ExportEngine {
	return &ExportEngine{gateway: gateway}
}

// Run exports every snippet in the given scope concurrently and writes a
// manifest file summarizing the results.
//
// The worker pool bounds concurrent file writes, and when opts.Refresh is set
// each public snippet is re-fetched individually under a rate limiter so the
// export reflects the freshest content. Partial failures are recorded per
// snippet rather than aborting the whole run.
func (e *ExportEngine) Run(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	scope collection.Scope,
	opts ExportOpts,
) (*ExportResult, error) {
	if e.gateway == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("snipvault_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	e.sendProgress(prog, fetchingCollectionUpdate(string(scope)))

	snippets, err := e.list(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s snippets: %w", scope, err)
	}

	result := &ExportResult{
		Scope:           string(scope),
		Format:          opts.Format,
		TotalSnippets:   len(snippets),
		OutputDirectory: opts.OutputDir,
		Results:         make([]SnippetExportResult, 0, len(snippets)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan exportJob, len(snippets))
	results := make(chan SnippetExportResult, len(snippets))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, snippet := range snippets {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if opts.Refresh && scope == collection.Public {
				if err := limiter.Wait(ctx); err != nil {
					return
				}

				e.sendProgress(prog, refreshingSnippetUpdate(i+1, len(snippets), snippet.Title))
				fresh, err := e.gateway.PublicSnippet(ctx, snippet.ID)
				if err != nil {
					results <- SnippetExportResult{
						SnippetID: snippet.ID,
						Title:     snippet.Title,
						Error:     fmt.Sprintf("failed to refresh snippet: %v", err),
					}
					continue
				}
				snippet = *fresh
			}

			jobs <- exportJob{snippet: snippet}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(snippets), res.Title, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(snippets), res.Title, fmt.Errorf("%s", res.Error)))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	manifest, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, manifest, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	e.sendProgress(prog, manifestUpdate(manifestPath))

	return result, nil
}

func (e *ExportEngine) list(ctx context.Context, scope collection.Scope) ([]models.Snippet, error) {
	switch scope {
	case collection.Mine:
		return e.gateway.MySnippets(ctx)
	case collection.Public:
		return e.gateway.PublicSnippets(ctx)
	case collection.Favorites:
		return e.gateway.Favorites(ctx)
	default:
		return nil, fmt.Errorf("%w: unknown scope %q", shared.ErrInvalidArgument, scope)
	}
}

// exportWorker is a worker goroutine that renders snippets from the jobs channel.
func (e *ExportEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- SnippetExportResult,
	opts ExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- exportSingleSnippet(job.snippet, opts)
	}
}

// exportSingleSnippet renders one snippet to the configured format.
func exportSingleSnippet(snippet models.Snippet, opts ExportOpts) SnippetExportResult {
	result := SnippetExportResult{
		SnippetID: snippet.ID,
		Title:     snippet.Title,
		Files:     []string{},
	}

	switch opts.Format {
	case "markdown":
		mdFile, err := formatter.WriteMarkdownExport(snippet, opts.OutputDir)
		if err != nil {
			result.Error = fmt.Sprintf("markdown export failed: %v", err)
			return result
		}
		result.Files = []string{mdFile}
		result.Success = true

	case "txt":
		txtPath := filepath.Join(opts.OutputDir, formatter.Slug(snippet)+".txt")
		if err := os.WriteFile(txtPath, formatter.ToText(snippet), 0644); err != nil {
			result.Error = fmt.Sprintf("text export failed: %v", err)
			return result
		}
		result.Files = []string{txtPath}
		result.Success = true

	case "json":
		jsonPath := filepath.Join(opts.OutputDir, formatter.Slug(snippet)+".json")
		data, err := json.MarshalIndent(snippet, "", "  ")
		if err != nil {
			result.Error = fmt.Sprintf("JSON marshal failed: %v", err)
			return result
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			result.Error = fmt.Sprintf("JSON write failed: %v", err)
			return result
		}
		result.Files = []string{jsonPath}
		result.Success = true

	case "source":
		fallthrough
	default:
		base := filepath.Join(opts.OutputDir, formatter.Slug(snippet))
		srcRes, err := formatter.WriteSourceExport(snippet, base)
		if err != nil {
			result.Error = fmt.Sprintf("source export failed: %v", err)
			return result
		}
		result.Files = []string{srcRes.SourceFile, srcRes.MetadataFile}
		result.Success = true
	}

	return result
}

// sendProgress delivers an update without blocking when the consumer is slow.
func (e *ExportEngine) sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- update:
	default:
	}
}
