package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazydbm/internal/app"
	"github.com/rebeliceyang/lazydbm/internal/config"
	"github.com/rebeliceyang/lazydbm/internal/logging"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "lazydbm",
		Short: "A terminal UI for browsing PostgreSQL, MySQL and SQLite databases",
		Long: `lazydbm browses the databases defined in your config files:
a connection picker, a database/schema/table tree, and paginated
record and property views, with handoff to pgcli/mycli/litecli
for ad-hoc SQL.

Config is read from ` + config.DefaultPath() + `, ./.lazydbm.yaml,
$LAZYDBM_CONFIG and --config, in that order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
		SilenceUsage: true,
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "path to an extra config file")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load config: %v (using defaults)\n", err)
		cfg = config.Default()
	}

	logger, err := logging.Init(logPath(), logging.ParseLevel(cfg.Log.Level))
	if err != nil {
		// A broken log path should not keep the UI from starting.
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
	}
	defer logger.Close()
	logger.Infof("starting with %d configured connections", len(cfg.Conns))

	a := app.New(cfg.Conns, cfg, logger)
	p := tea.NewProgram(a, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Errorf("program exited with error: %v", err)
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}

func logPath() string {
	if primary := config.DefaultPath(); primary != "" {
		return filepath.Join(filepath.Dir(primary), "lazydbm.log")
	}
	return "lazydbm.log"
}
