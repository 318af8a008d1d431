package main

import (
	"context"
	"os"

	"github.com/desertthunder/yt2spot/internal/services"
	"github.com/desertthunder/yt2spot/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var spotifyService *services.SpotifyService
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map()); err == nil {
			spotifyService = svc
		}
	}

	var youtubeService services.VideoService
	if config.Credentials.YouTube.APIKey != "" {
		if svc, err := services.NewYouTubeService(config.Credentials.YouTube.APIKey, ""); err == nil {
			youtubeService = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Spotify: spotifyService,
		YouTube: youtubeService,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "yt2spot",
		Usage:    "Sync a YouTube playlist into a Spotify playlist",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
