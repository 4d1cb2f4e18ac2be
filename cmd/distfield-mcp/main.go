package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ironsheep/distance-field-mcp/internal/config"
	"github.com/ironsheep/distance-field-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	root := &cobra.Command{
		Use:   "distfield-mcp",
		Short: "MCP server for exact Euclidean distance fields",
		Long: `distfield-mcp serves exact Euclidean distance fields over binary occupancy
grids through the MCP protocol on stdin/stdout. Configure it in your MCP client.

Environment variables:
  ` + config.EnvConfigPath + `     Path to a TOML config file
  ` + config.EnvLogLevel + `  debug, info, warn or error
  ` + config.EnvWorkers + `     Goroutines per transform pass`,
		Version:      Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromEnvironment(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}
			logger.Debug("starting server",
				"version", Version, "commit", GitCommit, "built", BuildTime,
				"workers", cfg.Field.Workers)

			srv := server.New(cfg, logger)
			return srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("distfield-mcp %s\n  Build time: %s\n  Git commit: %s\n", Version, BuildTime, GitCommit))
	root.Flags().StringVar(&configPath, "config", "", "path to a TOML config file (default $"+config.EnvConfigPath+")")
	root.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	return root
}

// newLogger writes to w, which must not be stdout: stdout carries the protocol.
func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           lvl,
	}), nil
}
