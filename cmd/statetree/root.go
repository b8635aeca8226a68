package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/statetree/config"
	"github.com/tailored-agentic-units/statetree/observability"
)

type rootFlags struct {
	configFile string
	observer   string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "statetree",
		Short: "Lens-composed state tree demo and inspector",
		Long: `statetree runs a demo application built on a lens-composed state tree
and reads snapshots from a running tree's inspection endpoint.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "Path to a JSON, TOML or YAML tree config")
	cmd.PersistentFlags().StringVar(&flags.observer, "observer", "",
		fmt.Sprintf("Event observer, one of %s (overrides config)", strings.Join(observability.ObserverNames(), ", ")))
	cmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Log debug events")

	cmd.AddCommand(newDemoCmd(flags), newSnapshotCmd(flags))
	return cmd
}

// load reads the config file, if any, and applies flag overrides.
func (f *rootFlags) load() (config.TreeConfig, error) {
	cfg := config.DefaultTreeConfig()
	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return config.TreeConfig{}, err
		}
		cfg = loaded
	}
	if f.observer != "" {
		cfg.Observer = f.observer
	}
	if f.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg config.TreeConfig) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}
