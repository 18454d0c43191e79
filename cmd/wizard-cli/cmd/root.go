package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/samber/do/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nfrund/coursewizard/internal/app"
	"github.com/nfrund/coursewizard/internal/config"
	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/logging"
	"github.com/nfrund/coursewizard/internal/modules/wizard"
	"github.com/nfrund/coursewizard/internal/readiness"
	"github.com/nfrund/coursewizard/internal/session"
)

var (
	outputFormat string
	stateFile    string
)

var rootCmd = &cobra.Command{
	Use:   "wizard-cli",
	Short: "Course wizard CLI tool",
	Long: `wizard-cli drives the course wizard from a terminal. The active course and the
generated submodule versions are kept in a state file between runs.

Available commands:
  session      Start, show or leave the active course
  modules      List, add and delete modules
  generate     Generate submodules for a module
  submodules   List the submodules of a module
  readiness    Check whether every module is ready for the activities step

Use "wizard-cli [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// environment is what every command works with.
type environment struct {
	cfg    *config.Config
	log    *slog.Logger
	client domain.CourseService
	sc     *session.Context
	wizard *wizard.Controller
}

// loadEnvironment builds the environment from the configuration. Tests replace it.
var loadEnvironment = func(cmd *cobra.Command) (*environment, error) {
	cfg := config.New()
	if stateFile != "" {
		cfg.StateFile = stateFile
	}
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), os.Getenv("LOG_FORMAT"), logLevel())

	injector := app.NewContainer(cfg, logger)
	client, err := do.Invoke[domain.CourseService](injector)
	if err != nil {
		return nil, err
	}
	agg, err := do.Invoke[*readiness.Aggregator](injector)
	if err != nil {
		return nil, err
	}

	store := session.NewFileStore(afero.NewOsFs(), cfg.GetStateFile())
	return &environment{
		cfg:    cfg,
		log:    logger,
		client: client,
		sc:     session.NewContext("cli:"+cfg.GetStateFile(), store),
		wizard: wizard.New(wizard.Dependencies{Client: client, Readiness: agg, Logger: logger}),
	}, nil
}

func logLevel() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return "warn"
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run adapts a command body that needs the environment.
func run(fn func(cmd *cobra.Command, env *environment, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment(cmd)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		return fn(cmd, env, args)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&stateFile, "state-file", "", "path of the session state file (default $WIZARD_STATE_FILE)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "output format: table or json")
}
