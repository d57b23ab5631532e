// Package mcpadapter exposes retrieval and answering over the Model
// Context Protocol, so editor agents can query the document index
// directly.
package mcpadapter

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/legal-doc-assistant/internal/core/ports"
)

const (
	serverName    = "legal-doc-assistant"
	serverVersion = "1.0.0"
)

type Server struct {
	mcp        *server.MCPServer
	retriever  ports.PassageRetriever
	assistant  ports.AssistantService
	maintainer ports.IndexMaintainer
}

func NewServer(
	retriever ports.PassageRetriever,
	assistant ports.AssistantService,
	maintainer ports.IndexMaintainer,
) *Server {
	s := &Server{
		mcp:        server.NewMCPServer(serverName, serverVersion),
		retriever:  retriever,
		assistant:  assistant,
		maintainer: maintainer,
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(searchPassagesTool(), s.handleSearchPassages)
	s.mcp.AddTool(askAssistantTool(), s.handleAskAssistant)
	s.mcp.AddTool(rebuildIndexTool(), s.handleRebuildIndex)
}

// Serve runs the MCP server on stdio and blocks until the transport
// closes.
func (s *Server) Serve(_ context.Context) error {
	return server.ServeStdio(s.mcp)
}
