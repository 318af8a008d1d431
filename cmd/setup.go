package main

import (
	"context"

	"github.com/desertthunder/yt2spot/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes a starter configuration file at the given path.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.writePlain("✓ Wrote %s\n\n", configPath)
	r.writePlain("Fill in your Spotify and YouTube credentials, then run:\n")
	r.writePlain("  yt2spot auth\n")
	r.writePlain("  yt2spot sync run\n")

	return nil
}
