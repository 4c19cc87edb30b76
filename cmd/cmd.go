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

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Create a config file from the default template",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles Spotify OAuth2 authorization.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Authenticate with Spotify using OAuth2",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Auth,
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show current authentication state",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthStatus,
			},
		},
	}
}

// generateCommand turns a sentence into a playlist.
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate a playlist from a sentence, one song per word",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "sentence",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "title",
				Aliases: []string{"t"},
				Usage:   "Playlist title (defaults to the sentence)",
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "Playlist description",
			},
			&cli.BoolFlag{
				Name:  "public",
				Usage: "Make the playlist public",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Words resolved in parallel per chunk",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Catalog requests per second (0 = unpaced)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Resolve words without creating a playlist",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the result to a file (format by extension: .csv, .md, .json, .txt)",
			},
		},
		Action: r.Generate,
	}
}

// resolveCommand resolves words without touching playlists.
func resolveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Resolve each word of a sentence to a track without creating a playlist",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "sentence",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Words resolved in parallel per chunk",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Resolve,
	}
}

// historyCommand lists previously generated playlists.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List previously generated playlists",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of entries to show",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.History,
	}
}

// cacheCommand manages the local track cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the local word-to-track cache",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache entry and hit counts",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Soft-delete every cached track",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheClear,
			},
		},
	}
}

// tuiCommand launches the interactive terminal UI.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Interactive sentence-to-playlist session",
		Flags:  []cli.Flag{configFlag()},
		Action: r.TUI,
	}
}
