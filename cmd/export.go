package main

import (
	"context"

	"github.com/desertthunder/snipvault/internal/collection"
	"github.com/desertthunder/snipvault/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes a whole scope's snippets to local files via the export engine.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	scope, err := collection.ParseScope(cmd.String("scope"))
	if err != nil {
		return err
	}
	if scope != collection.Public {
		if err := r.requireAuth(); err != nil {
			return err
		}
	}

	opts := tasks.ExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int64("workers")),
		Refresh:    cmd.Bool("refresh"),
	}

	engine := tasks.NewExportEngine(r.gateway)

	prog := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := engine.Run(ctx, prog, scope, opts)
	close(prog)
	<-done
	if err != nil {
		return err
	}

	r.logger.Info("export complete",
		"scope", result.Scope,
		"ok", result.SuccessfulExports,
		"failed", result.FailedExports,
	)

	r.writePlainln("✓ Exported %d/%d snippets to %s",
		result.SuccessfulExports, result.TotalSnippets, result.OutputDirectory)
	if result.FailedExports > 0 {
		r.writePlain("  %d failed, see %s\n", result.FailedExports, result.ManifestPath)
	}
	return nil
}
