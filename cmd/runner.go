package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bmckenna/saylist/internal/repositories"
	"github.com/bmckenna/saylist/internal/services"
	"github.com/bmckenna/saylist/internal/shared"
	"github.com/bmckenna/saylist/internal/tasks"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	catalog services.Catalog
	logger  *log.Logger
	output  io.Writer
	db      *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Catalog services.Catalog
	Logger  *log.Logger
	Output  io.Writer
	DB      *sql.DB
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
		catalog: opts.Catalog,
		logger:  opts.Logger,
		output:  opts.Output,
		db:      opts.DB,
	}
}

// SetLogger swaps the runner's logger, used by the TUI to redirect logs to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, generateCommand, resolveCommand, historyCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openDatabase lazily opens the configured SQLite database and runs migrations.
// The handle is cached for the life of the runner.
func (r *Runner) openDatabase() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	return db, nil
}

// buildEngine assembles a PlaylistEngine from config plus per-command overrides.
// A database failure disables the cache but never blocks generation.
func (r *Runner) buildEngine(concurrency int, rateLimit float64) *tasks.PlaylistEngine {
	if concurrency <= 0 {
		concurrency = r.config.Generator.Concurrency
	}
	if rateLimit <= 0 {
		rateLimit = r.config.Generator.RateLimit
	}

	opts := []tasks.EngineOption{
		tasks.WithConcurrency(concurrency),
		tasks.WithRateLimit(rateLimit),
	}
	if r.config.Generator.TimeoutSecs > 0 {
		opts = append(opts, tasks.WithTimeout(time.Duration(r.config.Generator.TimeoutSecs)*time.Second))
	}

	if db, err := r.openDatabase(); err != nil {
		r.logger.Warn("track cache unavailable", "error", err)
	} else {
		cache := repositories.NewCacheAdapter(repositories.NewTrackCacheRepository(db))
		opts = append(opts, tasks.WithCache(cache))
	}

	return tasks.NewPlaylistEngine(r.catalog, r.config.Generator.SearchLimit, opts...)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

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
