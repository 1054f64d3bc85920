package cmd

import (
	"github.com/WarpedWartWars/lips/repl"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Run an interactive repl",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepl(cmd)
	},
}

func runRepl(cmd *cobra.Command) error {
	c, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts := []repl.Option{
		repl.WithConfig(c.LispConfig(cmd.Context(), logger)...),
		repl.WithHistoryFile(c.HistoryFile),
	}
	if c.Prompt != "" {
		opts = append(opts, repl.WithPrompt(c.Prompt))
	}
	if c.ContinuationPrompt != "" {
		opts = append(opts, repl.WithContinuationPrompt(c.ContinuationPrompt))
	}
	return repl.RunRepl(cmd.Context(), opts...)
}

func init() {
	rootCmd.AddCommand(replCmd)
}
