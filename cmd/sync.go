package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/yt2spot/internal/formatter"
	"github.com/desertthunder/yt2spot/internal/shared"
	"github.com/desertthunder/yt2spot/internal/tasks"
	"github.com/desertthunder/yt2spot/internal/ui"
	"github.com/urfave/cli/v3"
)

// SyncRun executes the full pipeline headlessly and prints a report.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	format := cmd.String("format")
	pretty := cmd.Bool("pretty")

	if r.youtube == nil {
		return fmt.Errorf("%w: youtube api_key must be set", shared.ErrMissingCredentials)
	}

	music, err := r.musicService(ctx, configPath)
	if err != nil {
		return err
	}

	// Progress lands in the log so long runs are not silent.
	progress := make(chan tasks.ProgressUpdate, 64)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
	}()

	result, err := r.engine.Run(ctx, progress, music)
	close(progress)
	<-drained
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return r.writeJSON(result, pretty)
	case "markdown":
		_, err := r.output.Write(formatter.ReportMarkdown(result))
		return err
	case "csv":
		data, err := formatter.ReportCSV(result)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	case "text":
		_, err := r.output.Write(formatter.ReportText(result))
		return err
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// SyncUI executes the pipeline behind an interactive progress view.
func (r *Runner) SyncUI(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if r.youtube == nil {
		return fmt.Errorf("%w: youtube api_key must be set", shared.ErrMissingCredentials)
	}

	music, err := r.musicService(ctx, configPath)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, r.engine, music)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
