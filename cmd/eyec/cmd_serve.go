package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	mcpserver "eyec/internal/mcp"
)

const parentPollInterval = 2 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Long: `Starts an MCP server over stdin/stdout that answers questions about the
build report: summaries, stage listings and consistency checks.

The server monitors for parent process death and exits when its client goes
away.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := mcpserver.NewServer(opts.reportPath(), version)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			mcpserver.WatchParent(ctx, parentPollInterval, cancel)

			return srv.Run(ctx)
		},
	}
}
