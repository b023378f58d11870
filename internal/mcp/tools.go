package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/logsift/logsift/internal/retriever"
	"github.com/logsift/logsift/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeNotIndexed    = -32001 // No corpus loaded yet
	ErrorCodeEmptyQuery    = -32002 // Query parameter is empty
	ErrorCodeOutOfRange    = -32003 // doc_id or chunk_id outside the corpus
	ErrorCodeCorpusLimit   = -32004 // Corpus exceeds configured size ceiling
)

// handleIndexLogs handles the index_logs tool invocation
func (s *Server) handleIndexLogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	rawPaths, ok := args["paths"].([]interface{})
	if !ok || len(rawPaths) == 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "paths parameter is required", map[string]interface{}{
			"param":  "paths",
			"reason": "missing or empty",
		})
	}

	format := getStringDefault(args, "format", string(types.FormatAuto))
	sourceName := getStringDefault(args, "source_name", "")
	if sourceName != "" && len(rawPaths) > 1 {
		return nil, newMCPError(ErrorCodeInvalidParams, "source_name only applies to a single path", map[string]interface{}{
			"param": "source_name",
		})
	}

	sources := make([]retriever.Source, 0, len(rawPaths))
	for _, raw := range rawPaths {
		path, ok := raw.(string)
		if !ok || path == "" {
			return nil, newMCPError(ErrorCodeInvalidParams, "paths must be non-empty strings", nil)
		}
		if err := validatePath(path); err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
				"param":  "paths",
				"value":  path,
				"reason": err.Error(),
			})
		}
		sources = append(sources, retriever.Source{
			Path:   path,
			Name:   sourceName,
			Format: types.Format(format),
		})
	}

	stats, err := s.retriever.Reload(ctx, sources)
	if err != nil {
		if errors.Is(err, types.ErrCorpusTooLarge) {
			return nil, newMCPError(ErrorCodeCorpusLimit, err.Error(), nil)
		}
		return nil, newMCPError(ErrorCodeInternalError, "indexing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(statusResponse(stats))), nil
}

// handleSearchLogs handles the search_logs tool invocation
func (s *Server) handleSearchLogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", retriever.DefaultLimit)
	if limit < 1 || limit > retriever.MaxLimit {
		return nil, newMCPError(ErrorCodeInvalidParams,
			fmt.Sprintf("limit must be between 1 and %d", retriever.MaxLimit), map[string]interface{}{
				"param": "limit",
				"value": limit,
			})
	}

	mode, ok := types.ParseMode(getStringDefault(args, "mode", string(types.SearchModeLexical)))
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid mode", map[string]interface{}{
			"param":   "mode",
			"allowed": []string{"lexical", "vector", "hybrid"},
		})
	}

	op, ok := types.ParseOperator(getStringDefault(args, "operator", string(types.OperatorAnd)))
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid operator", map[string]interface{}{
			"param":   "operator",
			"allowed": []string{"AND", "OR"},
		})
	}

	filter := retriever.Filter{
		Level:     getStringDefault(args, "level", ""),
		Component: getStringDefault(args, "component", ""),
		Source:    getStringDefault(args, "source", ""),
	}

	results, err := s.retriever.Search(ctx, query, limit, mode, op, filter)
	if err != nil {
		return nil, searchError(err)
	}

	items := make([]map[string]interface{}, 0, len(results))
	for _, res := range results {
		items = append(items, map[string]interface{}{
			"doc_id":      res.DocID,
			"score":       res.Score,
			"chunk_id":    res.ChunkID,
			"source":      res.SourcePath,
			"line_number": res.LineNumber,
			"raw_text":    res.RawText,
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"mode":    string(mode),
		"total":   len(items),
		"results": items,
	})), nil
}

// handleGetContext handles the get_context tool invocation
func (s *Server) handleGetContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	docID, ok := getInt(args, "doc_id")
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "doc_id parameter is required", map[string]interface{}{
			"param": "doc_id",
		})
	}
	before := getIntDefault(args, "before", 5)
	after := getIntDefault(args, "after", 5)

	formatted, err := s.retriever.FormatContextWindow(docID, before, after)
	if err != nil {
		return nil, searchError(err)
	}

	return mcp.NewToolResultText(formatted), nil
}

// handleGetChunk handles the get_chunk tool invocation
func (s *Server) handleGetChunk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	chunkID, ok := getInt(args, "chunk_id")
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "chunk_id parameter is required", map[string]interface{}{
			"param": "chunk_id",
		})
	}

	docs, err := s.retriever.GetChunk(chunkID)
	if err != nil {
		return nil, searchError(err)
	}

	lines := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		lines = append(lines, map[string]interface{}{
			"doc_id":      doc.DocID,
			"source":      doc.SourcePath,
			"line_number": doc.Record.LineNumber,
			"raw_text":    doc.Record.RawText,
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"chunk_id":  chunkID,
		"documents": lines,
	})), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := s.retriever.Stats()
	if stats == nil {
		return mcp.NewToolResultText(formatJSON(map[string]interface{}{
			"indexed": false,
			"message": "No corpus loaded. Use index_logs to load log files.",
		})), nil
	}

	return mcp.NewToolResultText(formatJSON(statusResponse(stats))), nil
}

// statusResponse renders snapshot statistics for index_logs and get_status.
func statusResponse(stats *retriever.Stats) map[string]interface{} {
	return map[string]interface{}{
		"indexed": true,
		"corpus": map[string]interface{}{
			"documents":      stats.Documents,
			"distinct_terms": stats.DistinctTerms,
			"avg_doc_length": fmt.Sprintf("%.1f", stats.AvgDocLength),
			"sources":        stats.Sources,
			"parse_warnings": stats.ParseWarnings,
		},
		"chunks": map[string]interface{}{
			"count":   stats.Chunks,
			"size":    stats.ChunkSize,
			"overlap": stats.ChunkOverlap,
		},
		"vector": map[string]interface{}{
			"available": stats.VectorAvailable,
			"dimension": stats.VectorDimension,
			"weight":    stats.HybridWeight,
		},
	}
}

// searchError maps core errors onto MCP error codes.
func searchError(err error) error {
	switch {
	case errors.Is(err, types.ErrEmptyCorpus):
		return newMCPError(ErrorCodeNotIndexed, "no corpus loaded; use index_logs first", nil)
	case errors.Is(err, types.ErrInvalidQuery):
		return newMCPError(ErrorCodeEmptyQuery, err.Error(), nil)
	case errors.Is(err, types.ErrDocOutOfRange), errors.Is(err, types.ErrChunkOutOfRange):
		return newMCPError(ErrorCodeOutOfRange, err.Error(), nil)
	default:
		return newMCPError(ErrorCodeInternalError, err.Error(), nil)
	}
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks that a path names an existing, readable file.
func validatePath(path string) error {
	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}
	if info.IsDir() {
		return ErrPathIsDirectory
	}
	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getInt extracts a required integer parameter.
func getInt(args map[string]interface{}, key string) (int, bool) {
	if val, ok := args[key].(float64); ok {
		return int(val), true
	}
	if val, ok := args[key].(int); ok {
		return val, true
	}
	return 0, false
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := getInt(args, key); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok && val != "" {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrPathIsDirectory = errors.New("path is a directory, expected a log file")
)
