package main

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/crossfade/internal/models"
	"github.com/desertthunder/crossfade/internal/shared"
	tu "github.com/desertthunder/crossfade/internal/testing"
	"github.com/urfave/cli/v3"
)

// testConfig returns a default config with the resolution cache disabled so
// tests never touch the filesystem.
func testConfig() *shared.Config {
	config := shared.DefaultConfig()
	config.Cache.Path = ""
	return config
}

func newTestRunner(spotify, apple *tu.MockCatalog) (*Runner, *bytes.Buffer) {
	output := &bytes.Buffer{}
	opts := RunnerOpts{Config: testConfig(), Output: output}
	// assign only when set so the runner's nil checks still fire
	if spotify != nil {
		opts.Spotify = spotify
	}
	if apple != nil {
		opts.Apple = apple
	}
	runner := NewRunner(opts)
	return runner, output
}

// runApp invokes the CLI the way main does, with the runner's registered commands.
func runApp(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "crossfade", Commands: runner.register()}
	return app.Run(t.Context(), append([]string{"crossfade"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := testConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			spotify := &tu.MockCatalog{}
			apple := &tu.MockCatalog{}

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Logger:  logger,
				Output:  output,
				Spotify: spotify,
				Apple:   apple,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.spotify != spotify {
				t.Error("expected spotify to be set")
			}
			if runner.apple != apple {
				t.Error("expected apple to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("resolveCatalog", func(t *testing.T) {
		spotify := &tu.MockCatalog{ServiceName: "Spotify"}
		apple := &tu.MockCatalog{ServiceName: "Apple Music"}
		runner, _ := newTestRunner(spotify, apple)

		for _, tc := range []struct {
			name string
			want string
		}{
			{"spotify", "Spotify"},
			{"Spotify", "Spotify"},
			{"apple", "Apple Music"},
			{"apple-music", "Apple Music"},
			{"applemusic", "Apple Music"},
		} {
			catalog, err := runner.resolveCatalog(tc.name)
			if err != nil {
				t.Fatalf("resolveCatalog(%q) returned error: %v", tc.name, err)
			}
			if catalog.Name() != tc.want {
				t.Errorf("resolveCatalog(%q) = %s, want %s", tc.name, catalog.Name(), tc.want)
			}
		}

		if _, err := runner.resolveCatalog("tidal"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for unknown service, got %v", err)
		}

		empty := NewRunner(RunnerOpts{Config: testConfig()})
		if _, err := empty.resolveCatalog("spotify"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable without a client, got %v", err)
		}
	})

	t.Run("newEngine", func(t *testing.T) {
		runner, _ := newTestRunner(&tu.MockCatalog{}, &tu.MockCatalog{})

		engine, err := runner.newEngine(runner.spotify, runner.apple)
		if err != nil {
			t.Fatalf("newEngine returned error: %v", err)
		}
		if engine == nil {
			t.Fatal("expected engine to be constructed")
		}

		runner.config.Resolution.Profile = "nonsense"
		if _, err := runner.newEngine(runner.spotify, runner.apple); err == nil {
			t.Error("expected error for unknown scoring profile")
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		runner, output := newTestRunner(nil, nil)

		if err := runner.writeJSON(map[string]int{"tracks": 3}, false); err != nil {
			t.Fatalf("writeJSON returned error: %v", err)
		}
		if got := output.String(); got != "{\"tracks\":3}\n" {
			t.Errorf("unexpected output: %q", got)
		}

		failing := NewRunner(RunnerOpts{Config: testConfig(), Output: &tu.FWriter{}})
		if err := failing.writeJSON("x", false); err == nil {
			t.Error("expected error from failing writer")
		}
	})
}

func TestSpotifyPlaylists(t *testing.T) {
	spotify := &tu.MockCatalog{
		ServiceName: "Spotify",
		Playlists: []models.Playlist{
			{ID: "p1", Name: "Morning Mix", TrackCount: 12},
			{ID: "p2", Name: "Workout", TrackCount: 30, Description: "High energy"},
		},
	}
	runner, output := newTestRunner(spotify, nil)

	if err := runApp(t, runner, "spotify", "playlists"); err != nil {
		t.Fatalf("spotify playlists failed: %v", err)
	}

	got := output.String()
	for _, want := range []string{"Found 2 playlists", "Morning Mix (12 tracks)", "High energy"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	t.Run("limit truncates", func(t *testing.T) {
		output.Reset()
		if err := runApp(t, runner, "spotify", "playlists", "--limit", "1"); err != nil {
			t.Fatalf("spotify playlists failed: %v", err)
		}
		if strings.Contains(output.String(), "Workout") {
			t.Error("expected second playlist to be dropped")
		}
	})

	t.Run("uninitialized service", func(t *testing.T) {
		empty, _ := newTestRunner(nil, nil)
		if err := runApp(t, empty, "spotify", "playlists"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

// transferFixture builds a Spotify source with one playlist and an Apple
// destination that returns an exact ISRC match for every track.
func transferFixture() (*tu.MockCatalog, *tu.MockCatalog) {
	tracks := []models.Track{
		{ID: "s1", Title: "Yesterday", Artist: "The Beatles", Artists: []string{"The Beatles"}, Album: "Help!", DurationMS: 125000, ISRC: "GBAYE0601498"},
		{ID: "s2", Title: "Golden Slumbers", Artist: "The Beatles", Artists: []string{"The Beatles"}, Album: "Abbey Road", DurationMS: 91000, ISRC: "GBAYE0601694"},
	}

	spotify := &tu.MockCatalog{
		ServiceName: "Spotify",
		Playlists:   []models.Playlist{{ID: "p1", Name: "Classics", TrackCount: len(tracks)}},
		Exports: map[string]*models.PlaylistExport{
			"p1": {
				Playlist: models.Playlist{ID: "p1", Name: "Classics", TrackCount: len(tracks)},
				Tracks:   tracks,
			},
		},
	}

	byISRC := make(map[string]models.Track, len(tracks))
	for _, tr := range tracks {
		dest := tr
		dest.ID = "a-" + tr.ID
		byISRC[tr.ISRC] = dest
	}
	apple := &tu.MockCatalog{
		ServiceName: "Apple Music",
		ISRCFn: func(isrc string) ([]models.Track, error) {
			if dest, ok := byISRC[isrc]; ok {
				return []models.Track{dest}, nil
			}
			return nil, nil
		},
	}

	return spotify, apple
}

func TestTransferRun(t *testing.T) {
	spotify, apple := transferFixture()
	runner, output := newTestRunner(spotify, apple)

	err := runApp(t, runner, "transfer", "run", "--from", "spotify", "--to", "apple", "--playlist", "p1")
	if err != nil {
		t.Fatalf("transfer run failed: %v", err)
	}

	if len(apple.CreatedPlaylists) != 1 {
		t.Fatalf("expected 1 created playlist, got %d", len(apple.CreatedPlaylists))
	}
	if apple.CreatedPlaylists[0].Name != "Classics" {
		t.Errorf("expected destination to inherit the source name, got %q", apple.CreatedPlaylists[0].Name)
	}

	added := apple.AddedTracks["mock-playlist-1"]
	if len(added) != 2 || added[0] != "a-s1" || added[1] != "a-s2" {
		t.Errorf("unexpected committed tracks: %v", added)
	}

	got := output.String()
	for _, want := range []string{"Transfer Complete!", "Auto-matched: 2/2 (100.0%)"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	t.Run("report written", func(t *testing.T) {
		spotify, apple := transferFixture()
		runner, _ := newTestRunner(spotify, apple)
		reportPath := t.TempDir() + "/report.csv"

		err := runApp(t, runner, "transfer", "run",
			"--from", "spotify", "--to", "apple", "--playlist", "p1",
			"--report", reportPath, "--format", "csv")
		if err != nil {
			t.Fatalf("transfer run failed: %v", err)
		}

		data, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("report not written: %v", err)
		}
		if !strings.Contains(string(data), "Yesterday") {
			t.Errorf("report missing track row:\n%s", data)
		}
	})

	t.Run("unknown destination service", func(t *testing.T) {
		runner, _ := newTestRunner(spotify, apple)
		err := runApp(t, runner, "transfer", "run", "--from", "spotify", "--to", "tidal", "--playlist", "p1")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestTransferPreview(t *testing.T) {
	spotify, apple := transferFixture()
	runner, output := newTestRunner(spotify, apple)

	err := runApp(t, runner, "transfer", "preview", "--from", "spotify", "--to", "apple", "--playlist", "p1")
	if err != nil {
		t.Fatalf("transfer preview failed: %v", err)
	}

	if len(apple.CreatedPlaylists) != 0 {
		t.Error("preview must not create playlists")
	}
	if apple.AddCalls != 0 {
		t.Error("preview must not add tracks")
	}

	got := output.String()
	for _, want := range []string{"Matched: 2", "Unavailable: 0", "✓ The Beatles - Yesterday"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestLoadConfigAt(t *testing.T) {
	t.Run("missing file falls back to runner config", func(t *testing.T) {
		runner, _ := newTestRunner(nil, nil)
		config := runner.loadConfigAt("/nonexistent/config.toml")
		if config != runner.config {
			t.Error("expected fallback to runner config")
		}
	})

	t.Run("reads file when present", func(t *testing.T) {
		path := t.TempDir() + "/config.toml"
		if err := shared.CreateConfigFile(path); err != nil {
			t.Fatalf("failed to create config: %v", err)
		}

		runner, _ := newTestRunner(nil, nil)
		config := runner.loadConfigAt(path)
		if config == runner.config {
			t.Error("expected config loaded from file")
		}
		if config.Server.Port != 8765 {
			t.Errorf("unexpected port %d", config.Server.Port)
		}
	})
}
