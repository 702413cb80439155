package main

import (
	"github.com/urfave/cli/v3"
)

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create a config file and initialize the resolution cache database",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with streaming services",
		Commands: []*cli.Command{
			{
				Name:   "spotify",
				Usage:  "Run the Spotify OAuth authorization flow",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SpotifyAuth,
			},
			{
				Name:  "apple",
				Usage: "Store an Apple Music user token",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "user-token",
						Usage:    "Music user token obtained via MusicKit",
						Required: true,
					},
				},
				Action: r.AppleAuth,
			},
		},
	}
}

func catalogFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "Maximum number of results",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output as JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "spotify",
		Usage: "Interact with the Spotify catalog",
		Commands: []*cli.Command{
			{
				Name:   "playlists",
				Usage:  "List playlists for the authenticated user",
				Flags:  append(catalogFlags(), configFlag()),
				Action: r.SpotifyPlaylists,
			},
			{
				Name:  "export",
				Usage: "Export a playlist with all its tracks",
				Flags: append(catalogFlags(), configFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the export to a file instead of stdout",
					}),
				Action: r.SpotifyExport,
			},
			{
				Name:  "search",
				Usage: "Search the catalog for tracks",
				Flags: append(catalogFlags(),
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Free-text search query",
						Required: true,
					}),
				Action: r.SpotifySearch,
			},
		},
	}
}

func appleCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "apple",
		Usage: "Interact with the Apple Music catalog",
		Commands: []*cli.Command{
			{
				Name:   "playlists",
				Usage:  "List playlists in the user's library",
				Flags:  catalogFlags(),
				Action: r.ApplePlaylists,
			},
			{
				Name:  "export",
				Usage: "Export a playlist with all its tracks",
				Flags: append(catalogFlags(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the export to a file instead of stdout",
					}),
				Action: r.AppleExport,
			},
			{
				Name:  "search",
				Usage: "Search the catalog for tracks",
				Flags: append(catalogFlags(),
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Free-text search query",
						Required: true,
					}),
				Action: r.AppleSearch,
			},
		},
	}
}

func transferFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "from",
			Usage: "Source service (spotify or apple)",
			Value: "spotify",
		},
		&cli.StringFlag{
			Name:  "to",
			Usage: "Destination service (spotify or apple)",
			Value: "apple",
		},
		&cli.StringFlag{
			Name:     "playlist",
			Aliases:  []string{"p"},
			Usage:    "Source playlist ID or name",
			Required: true,
		},
	}
}

func transferCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "transfer",
		Usage: "Transfer playlists between services",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Resolve every track and create the destination playlist",
				Flags: append(transferFlags(),
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Destination playlist name (defaults to the source name)",
					},
					&cli.StringFlag{
						Name:  "report",
						Usage: "Write a transfer report to the given path",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Report format: json, csv, markdown, or text",
						Value: "json",
					}),
				Action: r.TransferRun,
			},
			{
				Name:  "preview",
				Usage: "Resolve every track without creating anything",
				Flags: append(transferFlags(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output resolution results as JSON",
					}),
				Action: r.TransferPreview,
			},
		},
	}
}

func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and maintain the resolution cache",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cached match counts per service",
				Action: r.CacheStats,
			},
			{
				Name:  "purge",
				Usage: "Delete cache entries older than the given age",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "max-age-hours",
						Usage: "Entries older than this are removed (0 removes everything)",
					},
				},
				Action: r.CachePurge,
			},
		},
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API for review-based transfers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Bind address (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive terminal UI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "from",
				Usage: "Source service (spotify or apple)",
				Value: "spotify",
			},
			&cli.StringFlag{
				Name:  "to",
				Usage: "Destination service (spotify or apple)",
				Value: "apple",
			},
		},
		Action: r.TUI,
	}
}
