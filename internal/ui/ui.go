// Package ui implements the interactive progress view for CLI sync runs.
//
// The model consumes [tasks.ProgressUpdate] events from the engine while the
// pipeline runs in a background command, rendering a spinner and the phase
// log until the run completes or fails.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/yt2spot/internal/services"
	"github.com/desertthunder/yt2spot/internal/tasks"
)

// progressMsg wraps a single engine progress update.
type progressMsg tasks.ProgressUpdate

// syncCompleteMsg carries the final result (or error) of the pipeline.
type syncCompleteMsg struct {
	result *tasks.SyncResult
	err    error
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	engine   *tasks.Engine
	music    services.MusicService
	progress chan tasks.ProgressUpdate
	spinner  spinner.Model
	log      []string
	current  string
	result   *tasks.SyncResult
	err      error
	done     bool
	quitting bool
}

// NewModel creates a new sync progress model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.Engine, music services.MusicService) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.ok

	return &Model{
		ctx:      ctx,
		engine:   engine,
		music:    music,
		progress: make(chan tasks.ProgressUpdate, 64),
		spinner:  sp,
	}
}

// Init starts the spinner, kicks off the pipeline, and begins draining progress.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runSync(), m.waitForUpdate())
}

// runSync executes the full pipeline in a command goroutine. Closing the
// progress channel afterwards releases the pending wait command.
func (m *Model) runSync() tea.Cmd {
	return func() tea.Msg {
		result, err := m.engine.Run(m.ctx, m.progress, m.music)
		close(m.progress)
		return syncCompleteMsg{result: result, err: err}
	}
}

// waitForUpdate blocks on the next progress update from the engine.
func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.progress
		if !ok {
			return nil
		}
		return progressMsg(update)
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case progressMsg:
		update := tasks.ProgressUpdate(msg)
		if m.current != "" {
			m.log = append(m.log, m.current)
		}
		m.current = update.Message
		return m, m.waitForUpdate()

	case syncCompleteMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress log, the active phase, and the final outcome.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("yt2spot sync"))
	b.WriteString("\n")

	for _, line := range m.log {
		b.WriteString(fmt.Sprintf("  %s\n", line))
	}

	switch {
	case m.err != nil:
		b.WriteString(styles.err.Render(fmt.Sprintf("✗ %v", m.err)))
		b.WriteString("\n")
		b.WriteString(styles.help.Render("press q to quit"))
	case m.done:
		b.WriteString(styles.ok.Render(m.outcome()))
		b.WriteString("\n")
		if skipped := len(m.result.Resolution.Skipped); skipped > 0 {
			b.WriteString(styles.warn.Render(fmt.Sprintf("%d titles had no match", skipped)))
			b.WriteString("\n")
		}
		b.WriteString(styles.help.Render("press q to quit"))
	default:
		b.WriteString(fmt.Sprintf("%s %s", m.spinner.View(), m.current))
	}

	b.WriteString("\n")
	return b.String()
}

func (m *Model) outcome() string {
	switch m.result.Outcome {
	case tasks.PlaylistCreated:
		return fmt.Sprintf("✓ Created %q with %d tracks", m.result.Playlist.Name, len(m.result.Added))
	case tasks.PlaylistUpdated:
		return fmt.Sprintf("✓ Added %d tracks to %q", len(m.result.Added), m.result.Playlist.Name)
	default:
		return fmt.Sprintf("✓ %q is already up to date", m.result.Playlist.Name)
	}
}
