package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/crossfade/internal/shared"
	"github.com/desertthunder/crossfade/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for playlist transfer.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	source, err := r.resolveCatalog(cmd.String("from"))
	if err != nil {
		return err
	}
	dest, err := r.resolveCatalog(cmd.String("to"))
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/crossfade-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine, err := r.newEngine(source, dest)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, source, engine)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
