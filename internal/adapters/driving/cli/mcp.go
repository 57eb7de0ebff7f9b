package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search and
question your PDFs.

Tools:
  search  - Score documents against a query
  ask     - Answer a question from the best matching document

Resources:
  pdfchat://documents               - List of uploaded documents
  pdfchat://documents/{documentId}  - Full text of a document

By default the server communicates over stdio. Use --port to serve over
HTTP instead.

Examples:
  # Stdio mode
  pdfchat mcp serve

  # HTTP mode
  pdfchat mcp serve --port 8081

Client configuration:
  {
    "mcpServers": {
      "pdfchat": {
        "command": "/path/to/pdfchat",
        "args": ["mcp", "serve"]
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

	server, err := mcp.NewServer(&mcp.Ports{
		Search:   searchService,
		Chat:     chatService,
		Document: documentService,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		cmd.Printf("MCP server listening on http://localhost%s%s\n", addr, mcp.EndpointPath)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
