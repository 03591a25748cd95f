package main

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/magda-harmony/internal/mcptools"
)

func newMCPCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the harmony tools over MCP (stdio transport)",
		Long: `Start an MCP server on stdin/stdout for AI coding tools and chat clients.
Logs go to stderr so they don't interfere with the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := mcptools.NewServer(app.harmony, Version)
			if err := server.ServeStdio(s); err != nil {
				return fmt.Errorf("mcp server: %w", err)
			}
			return nil
		},
	}
}
