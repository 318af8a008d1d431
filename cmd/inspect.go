package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/yt2spot/internal/shared"
	"github.com/urfave/cli/v3"
)

// YouTubeTitles lists the cleaned titles from the configured source playlist.
func (r *Runner) YouTubeTitles(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.youtube == nil {
		return fmt.Errorf("%w: youtube api_key must be set", shared.ErrMissingCredentials)
	}

	titles, err := r.engine.ExtractTitles(ctx, nil)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(titles, pretty)
	}

	r.writePlain("Found %d titles in %q:\n\n", len(titles), r.config.Sync.SourcePlaylist)
	for i, title := range titles {
		r.writePlain("%d. %s\n", i+1, title)
	}

	return nil
}

// SpotifyPlaylists lists the authorized user's playlists with optional limit.
func (r *Runner) SpotifyPlaylists(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	music, err := r.musicService(ctx, configPath)
	if err != nil {
		return err
	}

	playlists, err := music.Playlists(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if limit > 0 && limit < len(playlists) {
		playlists = playlists[:limit]
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d\n", p.TrackCount)
		if p.Public {
			r.writePlain("   Visibility: Public\n")
		} else {
			r.writePlain("   Visibility: Private\n")
		}
		r.writePlain("\n")
	}

	return nil
}
