package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/logsift/logsift/internal/config"
	"github.com/logsift/logsift/internal/embedder"
	"github.com/logsift/logsift/internal/retriever"
	"github.com/logsift/logsift/pkg/types"
)

const (
	// ServerName is the MCP server name
	ServerName = "logsift"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with the retrieval core.
type Server struct {
	mcp       *server.MCPServer
	retriever *retriever.Retriever
	embedder  embedder.Embedder
}

// NewServer wires the retrieval core from configuration and registers the
// tool surface.
func NewServer(cfg *config.Config) (*Server, error) {
	emb, err := embedder.New(embedder.Config{
		Provider:  cfg.Embedder.Provider,
		BaseURL:   cfg.Embedder.BaseURL,
		APIKey:    cfg.Embedder.APIKey(),
		Model:     cfg.Embedder.Model,
		Timeout:   cfg.Embedder.Timeout(),
		CacheSize: cfg.Embedder.CacheSize,
	})
	if err != nil {
		return nil, err
	}

	ret, err := retriever.New(emb, retriever.Options{
		ChunkSize:     cfg.Retrieval.ChunkSize,
		ChunkOverlap:  cfg.Retrieval.ChunkOverlap,
		HybridWeight:  cfg.Retrieval.HybridWeight,
		MaxCorpusSize: cfg.Retrieval.MaxCorpusSize,
		IndexMode:     types.SearchMode(cfg.Retrieval.IndexMode),
		Workers:       cfg.Retrieval.Workers,
		BatchSize:     cfg.Retrieval.BatchSize,
	})
	if err != nil {
		return nil, err
	}

	mcpServer := server.NewMCPServer(ServerName, ServerVersion)

	s := &Server{
		mcp:       mcpServer,
		retriever: ret,
		embedder:  emb,
	}
	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.embedder.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools.
func (s *Server) registerTools() {
	s.mcp.AddTool(indexLogsTool(), s.handleIndexLogs)
	s.mcp.AddTool(searchLogsTool(), s.handleSearchLogs)
	s.mcp.AddTool(getContextTool(), s.handleGetContext)
	s.mcp.AddTool(getChunkTool(), s.handleGetChunk)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}
