package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/snipvault/internal/shared"
	"github.com/desertthunder/snipvault/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing and editing snippets.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.gateway == nil {
		return fmt.Errorf("%w: vault service not initialized", shared.ErrServiceUnavailable)
	}
	if r.session == nil {
		return fmt.Errorf("%w: session store not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/snipvault-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(shared.WithLogger(fileLogger, "component", "tui"))

	model := ui.NewModel(ctx, r.session, r.gateway)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
