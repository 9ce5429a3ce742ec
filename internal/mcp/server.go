// ABOUTME: MCP server setup for the frame board.
// ABOUTME: Wraps the MCP server with the board store and the assistant event bridge.
package mcp

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/frame/internal/board"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with board access.
type Server struct {
	mcpServer *mcp.Server
	store     *board.Store
	bridge    *board.Bridge
	logger    *log.Logger
}

// NewServer creates a new MCP server over store. Pass a nil logger to discard logs.
// Nothing is ever written to stdout except protocol traffic.
func NewServer(store *board.Store, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "frame",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		store:     store,
		bridge:    board.NewBridge(store),
		logger:    logger,
	}

	s.bridge.SubscribeToEvents(func(evt board.AssistantEvent) {
		switch evt.Type {
		case board.EventLogDay:
			s.logger.Info("assistant logged day", "date", evt.LogDay.Date, "values", len(evt.LogDay.Entries))
		case board.EventDefineMetric:
			s.logger.Info("assistant defined metric", "name", evt.DefineMetric.Name)
		}
	})

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Bridge exposes the event bridge so callers can observe assistant activity.
func (s *Server) Bridge() *board.Bridge { return s.bridge }

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("serving MCP over stdio", "version", Version)
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
