package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Long: `Run the MCP server on stdio. Same as --mcp-server.

Tools: distill_json_content, json_shape_fingerprint, tool_search, tool_list.
Logs are written to stderr; stdout carries MCP frames only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMCP(cmd, opts)
		},
	}
}

// runMCP serves MCP on stdio until the client disconnects or the process
// is interrupted.
func runMCP(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, opts.configPath, cmd.ErrOrStderr(), opts.quiet)
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := a.newMCPServer()
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	return srv.Run(ctx)
}
