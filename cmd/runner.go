package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/crossfade/internal/match"
	"github.com/desertthunder/crossfade/internal/repositories"
	"github.com/desertthunder/crossfade/internal/services"
	"github.com/desertthunder/crossfade/internal/shared"
	"github.com/desertthunder/crossfade/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	spotify services.Catalog
	apple   services.Catalog
	logger  *log.Logger
	output  io.Writer

	cacheDB   *sql.DB
	cacheRepo *repositories.ResolutionCacheRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Spotify services.Catalog
	Apple   services.Catalog
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		spotify: opts.Spotify,
		apple:   opts.Apple,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

// SetLogger replaces the runner's logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, spotifyCommand, appleCommand, transferCommand, cacheCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// resolveCatalog maps a service name flag to the corresponding catalog client.
func (r *Runner) resolveCatalog(name string) (services.Catalog, error) {
	switch strings.ToLower(name) {
	case "spotify":
		if r.spotify == nil {
			return nil, fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
		}
		return r.spotify, nil
	case "apple", "apple-music", "applemusic":
		if r.apple == nil {
			return nil, fmt.Errorf("%w: Apple Music service not initialized", shared.ErrServiceUnavailable)
		}
		return r.apple, nil
	default:
		return nil, fmt.Errorf("%w: unknown service %q (expected spotify or apple)", shared.ErrInvalidArgument, name)
	}
}

// openCache lazily opens the resolution cache database. Returns nil when
// caching is disabled in config.
func (r *Runner) openCache() (*repositories.ResolutionCacheRepository, error) {
	if r.cacheRepo != nil {
		return r.cacheRepo, nil
	}
	if r.config.Cache.Path == "" {
		return nil, nil
	}

	db, err := shared.NewDatabase(r.config.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Cache.MaxOpenConns, r.config.Cache.MaxIdleConns)

	repo, err := repositories.NewResolutionCacheRepository(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize resolution cache: %w", err)
	}

	r.cacheDB = db
	r.cacheRepo = repo
	return repo, nil
}

// newEngine builds a transfer engine resolving tracks from source into dest
// using the configured scoring profile, chain tuning, and batch settings.
func (r *Runner) newEngine(source, dest services.Catalog) (*tasks.TransferEngine, error) {
	profile, err := match.ProfileByName(r.config.Resolution.Profile)
	if err != nil {
		return nil, err
	}

	chainCfg := match.DefaultChainConfig()
	if r.config.Resolution.MaxAlternatives > 0 {
		chainCfg.MaxAlternatives = r.config.Resolution.MaxAlternatives
	}

	resolver := match.NewResolver(dest, match.NewScorer(profile), chainCfg, r.logger)

	opts := tasks.EngineOpts{
		Logger: r.logger,
		Batch:  r.batchOpts(),
		Retry:  r.retryOpts(),
	}

	cache, err := r.openCache()
	if err != nil {
		r.logger.Warn("resolution cache unavailable", "error", err)
	} else if cache != nil {
		opts.Cache = cache
	}

	return tasks.NewTransferEngine(source, dest, resolver, opts), nil
}

func (r *Runner) batchOpts() tasks.ChunkOpts {
	b := r.config.Batch
	return tasks.ChunkOpts{
		Concurrency: b.Concurrency,
		BatchSize:   b.BatchSize,
		BatchDelay:  time.Duration(b.BatchDelay) * time.Millisecond,
	}
}

func (r *Runner) retryOpts() tasks.RetryOpts {
	b := r.config.Batch
	return tasks.RetryOpts{
		MaxRetries:        b.MaxRetries,
		InitialDelay:      time.Duration(b.InitialDelay) * time.Millisecond,
		BackoffMultiplier: b.BackoffFactor,
		MaxDelay:          time.Duration(b.MaxDelay) * time.Millisecond,
		OnRetry: func(err error, attempt int, delay time.Duration) {
			r.logger.Warn("retrying after failure", "attempt", attempt, "delay", delay, "error", err)
		},
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
