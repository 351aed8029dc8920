package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gigx/internal/concerts"
	"github.com/desertthunder/gigx/internal/repositories"
	"github.com/desertthunder/gigx/internal/services"
	"github.com/desertthunder/gigx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	logger      *log.Logger
	output      io.Writer
	errOutput   io.Writer
	input       io.Reader
	db          *sql.DB
	tokens      *repositories.TokenRepository
	runs        *repositories.RunRepository
	artists     services.ArtistSource
	calendar    services.CalendarSource
	providers   []concerts.Provider
	openBrowser func(string) error
	now         func() time.Time
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Artists, Calendar and Providers override the sources built from config.
type RunnerOpts struct {
	Config      *shared.Config
	ConfigPath  string
	Logger      *log.Logger
	Output      io.Writer
	ErrOutput   io.Writer
	Input       io.Reader
	DB          *sql.DB
	Artists     services.ArtistSource
	Calendar    services.CalendarSource
	Providers   []concerts.Provider
	OpenBrowser func(string) error
	Now         func() time.Time
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	r := &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		logger:      opts.Logger,
		output:      opts.Output,
		errOutput:   opts.ErrOutput,
		input:       opts.Input,
		artists:     opts.Artists,
		calendar:    opts.Calendar,
		providers:   opts.Providers,
		openBrowser: opts.OpenBrowser,
		now:         opts.Now,
	}
	if opts.DB != nil {
		r.useDatabase(opts.DB)
	}
	return r
}

// SetLogger replaces the logger used by commands started after the call.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, configCommand, historyCommand, cleanCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig resolves the configuration once per process.
//
// A missing file falls back to the embedded defaults; an unreadable one is an error.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if r.config != nil {
		return r.config, nil
	}

	if cmd.IsSet("config") || r.configPath == "" {
		r.configPath = cmd.String("config")
	}
	if r.configPath == "" {
		r.configPath = "config.toml"
	}

	if _, err := os.Stat(r.configPath); err != nil {
		r.logger.Warn("config file not found, using defaults", "path", r.configPath)
		r.config = shared.DefaultConfig()
		return r.config, nil
	}

	config, err := shared.LoadConfig(r.configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}
	r.config = config
	return r.config, nil
}

// applyLogLevel sets the level from config, with --verbose forcing debug output.
func (r *Runner) applyLogLevel(cmd *cli.Command, config *shared.Config) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
		return
	}
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(config.Log.Level))
}

// openStore opens and migrates the database from config, unless one was injected.
func (r *Runner) openStore(config *shared.Config) error {
	if r.db != nil {
		return nil
	}

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	r.useDatabase(db)
	return nil
}

func (r *Runner) useDatabase(db *sql.DB) {
	r.db = db
	r.tokens = repositories.NewTokenRepository(db)
	r.runs = repositories.NewRunRepository(db)
}

// Close releases the database handle.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
