package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/setlist/internal/repositories"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
)

const version = "0.1.0"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	searcher services.Searcher
	db       *sql.DB
	history  *repositories.ExportRepository
	logger   *log.Logger
	output   io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Searcher services.Searcher
	DB       *sql.DB // opened from Config.Database on first use when nil
	Logger   *log.Logger
	Output   io.Writer
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

	r := &Runner{
		config:   opts.Config,
		searcher: opts.Searcher,
		db:       opts.DB,
		logger:   opts.Logger,
		output:   opts.Output,
	}
	if opts.DB != nil {
		r.history = repositories.NewExportRepository(opts.DB)
	}
	return r
}

func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:     "setlist",
		Usage:    "Search Spotify and build a shareable playlist",
		Version:  version,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		searchCommand, serveCommand, tuiCommand, historyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by subsequent command output.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Close releases the database handle, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	r.history = nil
	return err
}

func (r *Runner) requireSearcher() error {
	if r.searcher == nil {
		return fmt.Errorf("%w: set %s and %s or fill [credentials.spotify] in config.toml",
			shared.ErrMissingCredentials, shared.EnvClientID, shared.EnvClientSecret)
	}
	return nil
}

// exportHistory opens the configured database on first use.
//
// Returns nil without error when no database path is configured.
func (r *Runner) exportHistory() (*repositories.ExportRepository, error) {
	if r.history != nil {
		return r.history, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if db == nil {
		return nil, nil
	}

	r.db = db
	r.history = repositories.NewExportRepository(db)
	return r.history, nil
}

// recorder returns the export history for front ends; failures only disable recording.
func (r *Runner) recorder() repositories.Recorder {
	history, err := r.exportHistory()
	if err != nil {
		r.logger.Warn("export history disabled", "error", err)
		return nil
	}
	if history == nil {
		return nil
	}
	return history
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
