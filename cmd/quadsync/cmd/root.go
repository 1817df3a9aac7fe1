// Package cmd provides the CLI commands for quadsync.
package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/quadsync/internal/config"
	"github.com/Aman-CERP/quadsync/internal/logging"
	"github.com/Aman-CERP/quadsync/pkg/version"
)

var (
	configPath string
	debugMode  bool
)

// NewRootCmd creates the root command for the quadsync CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quadsync",
		Short: "Synchronized full-text, vector, and hybrid search over fact collections",
		Long: `quadsync keeps a search index continuously synchronized with a mutable
collection of subject-predicate-object-graph facts and serves text, vector,
and hybrid queries over it.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	cmd.SetVersionTemplate("quadsync version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (YAML)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	cmd.AddCommand(newLoadCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setupLogging installs the default logger: text on TTYs, JSON otherwise.
func setupLogging() {
	cfg := logging.DefaultConfig()
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		cfg.Format = "text"
	}
	if debugMode {
		cfg.Level = "debug"
	}
	logging.SetupDefault(cfg)
}

// loadConfig reads the --config file, or the defaults when none is given.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
