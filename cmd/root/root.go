// Package root contains the root command for the application
package root

import (
	"fmt"
	"os"

	"fjacquet/camt-qif/internal/config"
	"fjacquet/camt-qif/internal/container"
	"fjacquet/camt-qif/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to all commands
type CommonFlags struct {
	Config  string
	Verbose bool
}

var (
	// Log is the shared logger instance for commands. It is replaced by the
	// configured logger once PersistentPreRun has run.
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppContainer holds the wired dependencies of the current invocation.
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "camt-qif",
		Short: "A CLI tool to convert ABN AMRO CAMT.053 statements to QIF.",
		Long: `camt-qif converts ABN AMRO CAMT.053 XML statements into a single QIF document.
Transactions are classified from their bank narrative, transfers between
registered accounts are mirrored, and transactions seen twice are written once.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to camt-qif!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c, err := Setup(SharedFlags.Config, SharedFlags.Verbose)
			if err != nil {
				Log.Fatalf("Failed to initialize: %v", err)
				return
			}
			AppContainer = c
			Log = c.GetLogger()
		},
	}

	// SharedFlags holds the global flag values
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVar(&SharedFlags.Config, "config", "", "Configuration file (default: config.yaml in $HOME/.camt-qif, .camt-qif or .)")
	Cmd.PersistentFlags().BoolVarP(&SharedFlags.Verbose, "verbose", "v", false, "Debug logging and duplicate diagnostics")
}

// Setup loads .env and the layered configuration, applies the verbose
// override and wires the container.
func Setup(configFile string, verbose bool) (*container.Container, error) {
	if envFile, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load %s: %v\n", envFile, err)
	}

	cfg, err := config.InitializeConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	return container.NewContainer(cfg)
}

// GetContainer returns the container of the current invocation, building a
// default one when the pre-run hook has not executed.
func GetContainer() *container.Container {
	if AppContainer == nil {
		c, err := container.NewContainerWithLogger(config.Default(), Log)
		if err != nil {
			Log.Fatalf("Failed to initialize: %v", err)
		}
		AppContainer = c
	}
	return AppContainer
}
