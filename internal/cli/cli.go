package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kansen-app/kansen/internal/config"
	"github.com/kansen-app/kansen/internal/logger"
	"github.com/kansen-app/kansen/internal/pipeline"
	"github.com/kansen-app/kansen/internal/publisher"
	"github.com/kansen-app/kansen/internal/scraper"
	"github.com/kansen-app/kansen/internal/storage"
)

const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitMonthsFailed = 3
)

// ExitError carries the process exit code for a failed command
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// app holds state shared by every command
type app struct {
	cfg *config.Config
	log *logger.Logger

	// flag overrides
	dbDriver  string
	dbDSN     string
	sourceURL string
	logLevel  string

	stderr io.Writer
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(os.Stderr)
}

func newRootCmd(logOutput io.Writer) *cobra.Command {
	a := &app{stderr: logOutput}

	cmd := &cobra.Command{
		Use:   "kansen",
		Short: "Track the NPB games you attended",
		Long: `kansen keeps a local copy of the NPB schedule and results and a record
of the games you watched at the ballpark.

The schedule is synced from the public NPB schedule pages with "kansen scrape"
or on demand through the HTTP API started with "kansen serve".`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.dbDriver, "db-driver", "", "Database driver: sqlite, postgres or mysql (env: DB_DRIVER)")
	flags.StringVar(&a.dbDSN, "db-dsn", "", "Database file or connection string (env: DB_DSN)")
	flags.StringVar(&a.sourceURL, "source-url", "", "Schedule site base URL (env: SOURCE_BASE_URL)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error (env: LOG_LEVEL)")

	cmd.AddCommand(
		a.newScrapeCmd(),
		a.newServeCmd(),
		a.newCleanupCmd(),
		a.newStatsCmd(),
		a.newRecordCmd(),
		a.newTeamsCmd(),
	)

	return cmd
}

// setup loads configuration, applies flag overrides and configures logging
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if a.dbDriver != "" {
		cfg.Database.Driver = a.dbDriver
	}
	if a.dbDSN != "" {
		cfg.Database.DSN = a.dbDSN
	}
	if a.sourceURL != "" {
		cfg.Source.BaseURL = a.sourceURL
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.Level()
	a.cfg = cfg
	a.log = logger.New(level, a.stderr)
	logger.SetDefault(a.log)
	return nil
}

func (a *app) openStore(ctx context.Context) (*storage.Store, error) {
	store, err := storage.Open(ctx, storage.Options{
		Driver: a.cfg.Database.Driver,
		DSN:    a.cfg.Database.DSN,
	})
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return store, nil
}

// newService wires the fetcher, the store and, when Redis is configured, the
// report publisher. The returned cleanup closes whatever was opened.
func (a *app) newService(ctx context.Context, store *storage.Store) (*pipeline.Service, func()) {
	fetcher := scraper.NewWithOptions(a.cfg.Source.BaseURL, a.cfg.Source.Timeout)
	opts := []pipeline.Option{pipeline.WithLogger(a.log)}
	cleanup := func() {}

	if a.cfg.Redis.Enabled() {
		client, err := publisher.Connect(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
		if err != nil {
			a.log.Warn("report publishing disabled", logger.Fields{"error": err.Error()})
		} else {
			pub := publisher.NewStreamPublisher(client, a.cfg.Redis.Stream)
			opts = append(opts, pipeline.WithPublisher(pub))
			cleanup = func() { pub.Close() }
		}
	}

	return pipeline.New(fetcher, store, opts...), cleanup
}

// signalContext returns a context canceled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Execute runs the CLI and exits with the command's exit code
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes the command line in args and returns the exit code
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitFailure
}
