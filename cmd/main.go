package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/desertthunder/crossfade/internal/services"
	"github.com/desertthunder/crossfade/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var spotify, apple services.Catalog

	limit := config.Resolution.RateLimit
	if limit <= 0 {
		limit = 5
	}
	timeout := time.Duration(config.Resolution.RequestTimeout) * time.Millisecond

	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(services.SpotifyOpts{
			ClientID:     config.Credentials.Spotify.ClientID,
			ClientSecret: config.Credentials.Spotify.ClientSecret,
			RedirectURI:  config.Credentials.Spotify.RedirectURI,
			Limiter:      rate.NewLimiter(rate.Limit(limit), 1),
			Timeout:      timeout,
		}); err == nil {
			spotify = svc
			if token := config.Credentials.Spotify.Token(); token != nil {
				_ = svc.Authenticate(context.Background(), map[string]string{
					"access_token": token.AccessToken,
				})
			}
		}
	}

	if config.Credentials.Apple.DeveloperToken != "" {
		if svc, err := services.NewAppleMusicService(services.AppleMusicOpts{
			DeveloperToken: config.Credentials.Apple.DeveloperToken,
			MusicUserToken: config.Credentials.Apple.MusicUserToken,
			Storefront:     config.Credentials.Apple.Storefront,
			Limiter:        rate.NewLimiter(rate.Limit(limit), 1),
			Timeout:        timeout,
		}); err == nil {
			apple = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Spotify: spotify,
		Apple:   apple,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "crossfade",
		Usage:    "Transfer playlists between Spotify & Apple Music",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
