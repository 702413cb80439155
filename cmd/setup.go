package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/crossfade/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates a starter config file and initializes the resolution cache
// database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		if _, statErr := os.Stat(configPath); statErr == nil {
			r.writePlain("Config file already exists at %s, skipping.\n", configPath)
		} else {
			return err
		}
	} else {
		r.writePlain("✓ Created %s\n", configPath)
		r.writePlain("  Fill in your Spotify and Apple Music credentials, then run:\n")
		r.writePlain("  crossfade auth spotify\n")
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	r.config = config

	repo, err := r.openCache()
	if err != nil {
		return err
	}
	if repo == nil {
		r.writePlain("No cache path configured, skipping database setup.\n")
		return nil
	}

	r.writePlain("✓ Resolution cache initialized at %s\n", config.Cache.Path)
	return nil
}
