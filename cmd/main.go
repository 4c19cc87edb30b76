package main

import (
	"context"
	"errors"
	"os"

	"github.com/bmckenna/saylist/internal/services"
	"github.com/bmckenna/saylist/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	var catalog services.Catalog

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map()); err == nil {
			if token := config.Credentials.Spotify.Token(); token != nil {
				if err := svc.OAuthenticate(context.Background(), token); err != nil {
					logger.Warnf("stored token rejected: %v", err)
				}
			}
			catalog = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "saylist",
		Usage:    "Turn a sentence into a Spotify playlist, one song per word",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Error("not authenticated, run `saylist auth` first")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
