package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/desertthunder/snipvault/internal/formatter"
	"github.com/desertthunder/snipvault/internal/server"
	"github.com/desertthunder/snipvault/internal/shared"
	"github.com/urfave/cli/v3"
)

// ShareLink prints the public share URL for a snippet.
//
// The snippet is fetched through the public endpoint first, so linking a
// private or deleted snippet fails instead of producing a dead URL.
func (r *Runner) ShareLink(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int64("id")
	if id == 0 {
		return fmt.Errorf("%w: --id is required", shared.ErrMissingArgument)
	}

	snippet, err := r.gateway.PublicSnippet(ctx, id)
	if err != nil {
		return fmt.Errorf("snippet %d is not shareable: %w", id, err)
	}

	url := fmt.Sprintf("%s/share/%d", strings.TrimRight(r.config.Share.PublicBaseURL, "/"), snippet.ID)

	if cmd.Bool("copy") {
		if err := formatter.CopyText(url); err != nil {
			return err
		}
		r.writePlain("✓ Link copied to clipboard\n")
	}
	if cmd.Bool("open") {
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	return r.writePlain("%s\n", url)
}

// ShareServe runs the local share preview server until interrupted.
func (r *Runner) ShareServe(ctx context.Context, cmd *cli.Command) error {
	host := r.config.Share.PreviewHost
	port := r.config.Share.PreviewPort
	if cmd.IsSet("port") {
		port = int(cmd.Int64("port"))
	}

	srv, err := server.NewPreviewServer(r.gateway, host, port, r.logger)
	if err != nil {
		return err
	}

	r.writePlain("Serving share previews at http://%s (ctrl+c to stop)\n", srv.Addr())

	serveCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Serve(serveCtx)
}
