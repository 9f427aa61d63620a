// Package cli wires the marquee commands: the terminal UI, the headless
// export, the local catalog server and its fixture import.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmcdole/marquee/internal/adapter"
	"github.com/mmcdole/marquee/internal/domain"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config     *adapter.Config
	configPath string
	root       *cobra.Command

	debug   bool // Console logs at debug level
	noColor bool
}

// NewApp creates the CLI application. A nil cfg is loaded from --config
// (or the default locations) before any command runs.
func NewApp(cfg *adapter.Config) *App {
	a := &App{config: cfg}

	a.root = &cobra.Command{
		Use:   "marquee",
		Short: "Browse a paginated movie and series catalog from the terminal",
		Long: `Marquee browses the catalog API of a movie site: poster carousels,
"load more" grids and genre search for series.

Run without arguments to open the terminal UI. The serve command runs a
local catalog API backed by an imported fixture or by TMDB.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if a.noColor {
				DisableColor()
			}
			return a.loadConfig()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runTUI()
		},
	}

	a.root.PersistentFlags().StringVar(&a.configPath, "config", "", fmt.Sprintf("Config file (default %s)", adapter.ConfigPath()))
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.serveCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "marquee %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

func (a *App) loadConfig() error {
	if a.config != nil {
		return nil
	}
	cfg, err := adapter.LoadConfigFrom(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.config = cfg
	return nil
}

// consoleLogger returns the stderr logger used by subcommands
func (a *App) consoleLogger(cmd *cobra.Command) *slog.Logger {
	level := a.config.Logging.Level
	if a.debug {
		level = "DEBUG"
	}
	return adapter.ConsoleLogger(cmd.ErrOrStderr(), level)
}

// fileLogger returns the JSON file logger used while the TUI owns the terminal
func (a *App) fileLogger() *slog.Logger {
	cfg := a.config.Logging
	if a.debug {
		cfg.Level = "DEBUG"
	}
	logger, err := adapter.SetupLogger(&cfg)
	if err != nil {
		// Fall back to null logger if file logging fails
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return adapter.NullLogger()
	}
	return logger
}

// lookupList resolves a list argument, defaulting to the first configured list
func (a *App) lookupList(args []string) (domain.List, error) {
	if len(args) == 0 {
		return a.config.Lists[0], nil
	}
	kind, err := domain.ParseListKind(args[0])
	if err != nil {
		return domain.List{}, err
	}
	return a.config.List(kind)
}
