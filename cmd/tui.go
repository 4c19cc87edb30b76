package main

import (
	"context"
	"fmt"

	"github.com/bmckenna/saylist/internal/shared"
	"github.com/bmckenna/saylist/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for playlist generation.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: configure Spotify credentials and run `saylist auth`", shared.ErrNotAuthenticated)
	}

	engine := r.buildEngine(0, 0)

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/saylist-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, engine, r.config.Generator.Public)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
