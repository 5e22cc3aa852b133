package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/dreadline/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI
assistants. The server exposes tools to inspect and drive the deadline
session over stdio.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.config.MCP.Enabled {
			return fmt.Errorf("the MCP server is disabled in the config")
		}

		fmt.Println("🚀 Starting MCP server...")
		fmt.Println("   The server will communicate via stdio")
		fmt.Println("   Press Ctrl+C to stop")

		ctx := context.Background()

		server := mcp.NewServer(app.session)
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}

		return nil
	},
}
