package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// indexLogsTool returns the tool definition for index_logs
func indexLogsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_logs",
		Description: "Load log files and build a fresh searchable corpus snapshot (replaces the previous one)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"paths": map[string]interface{}{
					"type":        "array",
					"description": "Absolute paths of log files to index, in corpus order",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"format": map[string]interface{}{
					"type":        "string",
					"description": "Log format for all sources; auto selects by extension and content sniffing",
					"enum":        []string{"auto", "text", "tabular", "record"},
					"default":     "auto",
				},
				"source_name": map[string]interface{}{
					"type":        "string",
					"description": "Optional display name when indexing a single file (defaults to the file name)",
				},
			},
			Required: []string{"paths"},
		},
	}
}

// searchLogsTool returns the tool definition for search_logs
func searchLogsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_logs",
		Description: "Search the indexed log corpus with keyword, semantic, or hybrid ranking",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"description": "Search strategy: lexical (term overlap), vector (semantic), or hybrid (weighted fusion)",
					"enum":        []string{"lexical", "vector", "hybrid"},
					"default":     "lexical",
				},
				"operator": map[string]interface{}{
					"type":        "string",
					"description": "How multiple query terms combine in lexical scoring",
					"enum":        []string{"AND", "OR"},
					"default":     "AND",
				},
				"level": map[string]interface{}{
					"type":        "string",
					"description": "Only return records with this log level (e.g. ERROR, INFO)",
				},
				"component": map[string]interface{}{
					"type":        "string",
					"description": "Only return records whose component contains this substring",
				},
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Only return records from this source name",
				},
			},
			Required: []string{"query"},
		},
	}
}

// getContextTool returns the tool definition for get_context
func getContextTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_context",
		Description: "Get the log lines surrounding a document, independent of chunk boundaries",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"doc_id": map[string]interface{}{
					"type":        "integer",
					"description": "Document id from a search result",
					"minimum":     0,
				},
				"before": map[string]interface{}{
					"type":        "integer",
					"description": "Lines before the target document",
					"default":     5,
					"minimum":     0,
				},
				"after": map[string]interface{}{
					"type":        "integer",
					"description": "Lines after the target document",
					"default":     5,
					"minimum":     0,
				},
			},
			Required: []string{"doc_id"},
		},
	}
}

// getChunkTool returns the tool definition for get_chunk
func getChunkTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_chunk",
		Description: "Get the full content of a chunk, for expanding a search hit to its complete context window",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"chunk_id": map[string]interface{}{
					"type":        "integer",
					"description": "Chunk id from a search result",
					"minimum":     0,
				},
			},
			Required: []string{"chunk_id"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query statistics for the active corpus snapshot",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
