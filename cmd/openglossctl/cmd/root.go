// Package cmd provides the CLI commands for openglossctl.
//
// openglossctl drives the offline build pipeline and exercises the
// exact, prefix, substring, fuzzy, and relation-graph query modes from a
// terminal. It never starts an HTTP/MCP server, renders Markdown, or
// touches telemetry storage — those stay external collaborators of the
// embedded library.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/opengloss/opengloss/internal/logging"
	"github.com/opengloss/opengloss/pkg/version"
)

var (
	debugMode      bool
	loggingCleanup func()
	logger         *slog.Logger
)

// NewRootCmd creates the root command for the openglossctl CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "openglossctl",
		Short:   "Build and query the embedded opengloss lexical index",
		Version: version.Version,
		Long: `openglossctl builds the compressed FST + entry archive pair that
ships inside an opengloss binary, and exercises exact, prefix, substring,
fuzzy, and relation-graph queries against it from the command line.`,
		PersistentPreRunE:  setupLogging,
		PersistentPostRunE: teardownLogging,
	}

	cmd.SetVersionTemplate("openglossctl version {{.Version}}\n")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.opengloss/logs/")

	cmd.AddCommand(
		newBuildCmd(),
		newGetCmd(),
		newPrefixCmd(),
		newContainsCmd(),
		newFuzzyCmd(),
		newGraphCmd(),
		newInfoCmd(),
		newVersionCmd(),
	)

	return cmd
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	cfg := logging.DefaultConfig()
	if debugMode {
		cfg = logging.DebugConfig()
	}
	cfg.WriteToStderr = debugMode

	l, cleanup, err := logging.Setup(cfg)
	if err != nil {
		return err
	}
	logger = l
	slog.SetDefault(l)
	loggingCleanup = cleanup

	logger.Debug("openglossctl starting", "command", cmd.Name(), "debug", debugMode)
	return nil
}

func teardownLogging(cmd *cobra.Command, _ []string) error {
	if logger != nil {
		logger.Debug("openglossctl finished", "command", cmd.Name())
	}
	if loggingCleanup != nil {
		loggingCleanup()
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
