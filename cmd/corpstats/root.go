package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"corpstats/internal/platform/config"
)

func execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var logLevel string
	cfg := config.FromEnv()

	rootCmd := &cobra.Command{
		Use:           "corpstats",
		Short:         "Corporation membership statistics",
		Long:          "Tracks corporation rosters fetched from ESI, links members to local users and serves the result.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newServeCmd(&cfg),
		newSyncCmd(&cfg),
		newMigrateCmd(&cfg),
		newTokenCmd(&cfg),
	)
	return rootCmd
}
