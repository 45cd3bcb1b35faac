package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clipmind/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search
and ask questions over one owner's videos.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default, for desktop assistants)
  clipmind --user 42 mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  clipmind --session demo mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "clipmind": {
        "command": "/path/to/clipmind",
        "args": ["--user", "42", "mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	owner, err := ownerFromFlags()
	if err != nil {
		return err
	}

	ports := &mcp.Ports{
		Owner:   owner,
		Search:  searchService,
		Answer:  answerService,
		Videos:  videoRegistry,
		History: historyReader,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
