package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/galx/internal/repositories"
	"github.com/desertthunder/galx/internal/services"
	"github.com/desertthunder/galx/internal/shared"
	"github.com/desertthunder/galx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	client    *services.Client
	catalog   services.Catalog
	media     services.MediaIndex
	prober    services.Prober
	db        *sql.DB
	journal   *repositories.JournalRepository
	plog      *tasks.ProgressLog
	scheduler *tasks.Scheduler
	session   *tasks.Session
	logger    *log.Logger
	output    io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Services left nil are built from Config. A nil DB opens the journal described by Config.
type RunnerOpts struct {
	Config  *shared.Config
	Catalog services.Catalog
	Media   services.MediaIndex
	Prober  services.Prober
	DB      *sql.DB
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

	client := services.NewClient(opts.Config.Catalog, opts.Config.Credentials, shared.WithLogger(opts.Logger, "component", "catalog"))
	if opts.Catalog == nil {
		opts.Catalog = services.NewCatalogService(client, opts.Config.Catalog.ItemsPath)
	}
	if opts.Media == nil {
		opts.Media = services.NewMediaService(client, opts.Config.Catalog.MediaPath)
	}
	if opts.Prober == nil {
		opts.Prober = services.NewReachabilityService(services.ProbeTimeout)
	}

	r := &Runner{
		config:  opts.Config,
		client:  client,
		catalog: opts.Catalog,
		media:   opts.Media,
		prober:  opts.Prober,
		db:      opts.DB,
		session: tasks.NewSession(),
		logger:  opts.Logger,
		output:  opts.Output,
	}
	r.build()
	return r
}

// build wires the progress log, journal and scheduler against the current logger.
func (r *Runner) build() {
	var recorder tasks.Recorder
	if r.db == nil {
		db, err := shared.OpenJournal(r.config.Journal)
		if err != nil {
			r.logger.Warn("journal unavailable, runs will not be recorded", "error", err)
		} else {
			r.db = db
		}
	}
	if r.db != nil {
		r.journal = repositories.NewJournalRepository(r.db)
		recorder = repositories.NewJournalRecorder(r.journal)
	}

	r.plog = tasks.NewProgressLog(shared.WithLogger(r.logger, "component", "progress"))
	r.scheduler = tasks.NewScheduler(r.catalog, r.media, r.prober, r.plog, recorder, shared.WithLogger(r.logger, "component", "scheduler"))
}

// SetLogger replaces the logger and rebuilds the scheduler so progress mirrors to it.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.build()
}

// Close releases the journal database.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, runCommand, bulkCommand, itemsCommand, mediaCommand, historyCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
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
