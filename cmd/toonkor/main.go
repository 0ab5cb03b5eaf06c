package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/toonkor/internal/adapter"
	"github.com/mmcdole/toonkor/internal/adapter/source"
	"github.com/mmcdole/toonkor/internal/service"
	"github.com/mmcdole/toonkor/internal/tui"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	app := &cli.App{
		Name:    "toonkor",
		Usage:   "Search the toonkor collector from the terminal",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a config file",
				EnvVars: []string{"TOONKOR_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "Collector server URL",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Quiet period after typing before a search is sent",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Timeout for each search request",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: `Log file path, or "stderr"`,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	// Load configuration
	cfg, err := adapter.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("toonkor needs an interactive terminal")
	}

	// Setup logger
	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting toonkor", "version", Version, "server", cfg.Server.URL)

	client, err := source.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create search client: %w", err)
	}

	search := service.NewSearchController(client, cfg.Search.Timeout, logger)
	defer search.Close()

	model := tui.NewModel(search, tui.Options{
		Title:     cfg.UI.Title,
		Debounce:  cfg.Search.Debounce,
		CellWidth: cfg.UI.CellWidth,
		DetailURL: cfg.DetailURL,
		Opener:    adapter.NewOpener(cfg.Browser.Command, cfg.Browser.Args, logger),
		Logger:    logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// applyFlags overrides loaded configuration with explicitly set flags
func applyFlags(c *cli.Context, cfg *adapter.Config) {
	if c.IsSet("server") {
		cfg.Server.URL = c.String("server")
	}
	if c.IsSet("debounce") {
		cfg.Search.Debounce = c.Duration("debounce")
	}
	if c.IsSet("timeout") {
		cfg.Search.Timeout = c.Duration("timeout")
	}
	if c.IsSet("log-file") {
		cfg.Logging.File = c.String("log-file")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
}
