package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/yt2spot/internal/services"
	"github.com/desertthunder/yt2spot/internal/shared"
	"github.com/desertthunder/yt2spot/internal/tasks"
	"github.com/urfave/cli/v3"
)

// tokenRefreshSkew is how close to expiry a saved token may get before a CLI
// command refreshes it up front.
const tokenRefreshSkew = 60 * time.Second

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	spotify *services.SpotifyService
	youtube services.VideoService
	engine  *tasks.Engine
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Spotify *services.SpotifyService
	YouTube services.VideoService
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		spotify: opts.Spotify,
		youtube: opts.YouTube,
		engine:  tasks.NewEngine(opts.YouTube, opts.Config.Sync),
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, serveCommand, syncCommand, youtubeCommand, spotifyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the runner's logger, for commands that render to the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// musicService returns a token-scoped Spotify service for CLI commands,
// refreshing the saved token first when it is about to expire. A refreshed
// token is written back to the config file.
func (r *Runner) musicService(ctx context.Context, configPath string) (services.MusicService, error) {
	if r.spotify == nil {
		return nil, fmt.Errorf("%w: Spotify credentials not configured", shared.ErrMissingCredentials)
	}

	token := r.config.Credentials.Spotify.Token()
	if token == nil {
		return nil, fmt.Errorf("%w: run `yt2spot auth` first", shared.ErrNoToken)
	}

	if time.Until(token.Expiry) < tokenRefreshSkew {
		refreshed, err := r.spotify.Refresh(ctx, token.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
		}

		if err := r.config.Credentials.Spotify.Update(refreshed); err != nil {
			return nil, err
		}
		if err := shared.SaveConfig(configPath, r.config); err != nil {
			r.logger.Warn("failed to persist refreshed token", "error", err)
		}
		token = refreshed
	}

	return r.spotify.WithToken(token.AccessToken), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
