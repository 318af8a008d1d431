// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand writes a starter configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Write a starter config.toml",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.Setup,
	}
}

// authCommand handles the Spotify authorization flow.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize with Spotify and save the token",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.Auth,
	}
}

// serveCommand runs the redirect-driven web flow.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web server for the browser sync flow",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.Serve,
	}
}

// syncCommand handles headless and interactive sync runs.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Sync the YouTube playlist to Spotify",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run the full pipeline and print a report",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Report format: text, json, markdown or csv",
						Value:   "text",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
				},
				Action: r.SyncRun,
			},
			{
				Name:    "ui",
				Aliases: []string{"tui"},
				Usage:   "Run the pipeline with an interactive progress view",
				Flags: []cli.Flag{
					configFlag(),
				},
				Action: r.SyncUI,
			},
		},
	}
}

// youtubeCommand handles read-only YouTube operations.
func youtubeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "youtube",
		Aliases: []string{"yt"},
		Usage:   "YouTube playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "titles",
				Usage: "List cleaned titles from the source playlist",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.YouTubeTitles,
			},
		},
	}
}

// spotifyCommand handles Spotify operations.
func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"spot"},
		Usage:   "Spotify playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "playlists",
				Usage: "List the authorized user's playlists",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of playlists to show",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.SpotifyPlaylists,
			},
		},
	}
}
