// ABOUTME: MCP server setup for the daybook store.
// ABOUTME: Wraps the MCP server around an app handle so tools share its guard and quota.
package mcp

import (
	"context"

	"github.com/harperreed/daybook/internal/app"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with application access.
type Server struct {
	mcpServer *mcp.Server
	app       *app.App
}

// NewServer creates a new MCP server over a.
func NewServer(a *app.App) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "daybook",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		app:       a,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
