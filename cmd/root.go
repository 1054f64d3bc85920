// Package cmd implements the lips command line interface.
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	rootConfigFile string
	rootLogLevel   string
	rootMaxDepth   int
)

var rootCmd = &cobra.Command{
	Use:   "lips",
	Short: "An embeddable lisp interpreter",
	Long: `Lips evaluates lisp source files and expressions, or runs an
interactive repl when invoked without a subcommand.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepl(cmd)
	},
}

// Execute runs the root command and exits the process on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootConfigFile, "config", "c", os.Getenv("LIPS_CONFIG"),
		"YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "",
		"Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVar(&rootMaxDepth, "max-depth", -1,
		"Maximum evaluation depth (0 for unlimited)")
}

// loadConfig reads the configuration file and applies command line
// overrides.
func loadConfig(cmd *cobra.Command) (*Config, *slog.Logger, error) {
	c, err := LoadConfig(rootConfigFile)
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("log-level") {
		c.LogLevel = rootLogLevel
	}
	if cmd.Flags().Changed("max-depth") {
		depth := rootMaxDepth
		c.MaxDepth = &depth
	}
	level, err := c.Level()
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	logger.Debug("configured", "config", rootConfigFile, "level", level)
	return c, logger, nil
}
