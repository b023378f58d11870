package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logsift/logsift/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Retrieval.IndexMode = "lexical"
	cfg.Retrieval.ChunkSize = 3
	cfg.Retrieval.ChunkOverlap = 1

	s, err := NewServer(cfg)
	require.NoError(t, err)
	return s
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func writeTestLog(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0644))
	return path
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestHandleIndexLogs_ThenStatus(t *testing.T) {
	s := newTestServer(t)
	path := writeTestLog(t, "instance error during spawn\nall quiet\nanother line\n")

	result, err := s.handleIndexLogs(context.Background(), callRequest(map[string]interface{}{
		"paths": []interface{}{path},
	}))
	require.NoError(t, err)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	assert.Equal(t, true, resp["indexed"])
	corpus := resp["corpus"].(map[string]interface{})
	assert.Equal(t, float64(3), corpus["documents"])

	status, err := s.handleGetStatus(context.Background(), callRequest(nil))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, status)), &resp))
	assert.Equal(t, true, resp["indexed"])
}

func TestHandleIndexLogs_RequiresPaths(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleIndexLogs(context.Background(), callRequest(map[string]interface{}{}))
	require.Error(t, err)
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleIndexLogs_RejectsRelativePath(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleIndexLogs(context.Background(), callRequest(map[string]interface{}{
		"paths": []interface{}{"relative/app.log"},
	}))
	require.Error(t, err)
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleSearchLogs(t *testing.T) {
	s := newTestServer(t)
	path := writeTestLog(t, "instance error during spawn\nall quiet\n")

	_, err := s.handleIndexLogs(context.Background(), callRequest(map[string]interface{}{
		"paths": []interface{}{path},
	}))
	require.NoError(t, err)

	result, err := s.handleSearchLogs(context.Background(), callRequest(map[string]interface{}{
		"query": "instance error",
	}))
	require.NoError(t, err)

	var resp struct {
		Mode    string `json:"mode"`
		Total   int    `json:"total"`
		Results []struct {
			DocID      int     `json:"doc_id"`
			Score      float64 `json:"score"`
			ChunkID    int     `json:"chunk_id"`
			LineNumber int     `json:"line_number"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	assert.Equal(t, "lexical", resp.Mode)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, 0, resp.Results[0].DocID)
	assert.Equal(t, 2.0, resp.Results[0].Score)
	assert.Equal(t, 1, resp.Results[0].LineNumber)
}

func TestHandleSearchLogs_Filters(t *testing.T) {
	s := newTestServer(t)
	path := writeTestLog(t,
		"2017-05-16 00:00:04.500 2931 INFO nova.compute.manager claim ok\n"+
			"2017-05-16 00:00:05.500 2931 ERROR nova.compute.manager spawn failed\n"+
			"2017-05-16 00:00:06.500 2931 ERROR nova.scheduler.host_manager no host\n")

	_, err := s.handleIndexLogs(context.Background(), callRequest(map[string]interface{}{
		"paths": []interface{}{path},
	}))
	require.NoError(t, err)

	result, err := s.handleSearchLogs(context.Background(), callRequest(map[string]interface{}{
		"query": "nova",
		"level": "ERROR",
	}))
	require.NoError(t, err)

	var resp struct {
		Total   int `json:"total"`
		Results []struct {
			DocID int `json:"doc_id"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.Results[0].DocID)
	assert.Equal(t, 2, resp.Results[1].DocID)

	result, err = s.handleSearchLogs(context.Background(), callRequest(map[string]interface{}{
		"query":     "nova",
		"component": "scheduler",
	}))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, 2, resp.Results[0].DocID)
}

func TestHandleSearchLogs_BeforeIndexing(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleSearchLogs(context.Background(), callRequest(map[string]interface{}{
		"query": "anything",
	}))
	require.Error(t, err)
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeNotIndexed, mcpErr.Code)
}

func TestHandleSearchLogs_Validation(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleSearchLogs(context.Background(), callRequest(map[string]interface{}{}))
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeEmptyQuery, mcpErr.Code)

	_, err = s.handleSearchLogs(context.Background(), callRequest(map[string]interface{}{
		"query": "x", "limit": float64(500),
	}))
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)

	_, err = s.handleSearchLogs(context.Background(), callRequest(map[string]interface{}{
		"query": "x", "mode": "fuzzy",
	}))
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)

	_, err = s.handleSearchLogs(context.Background(), callRequest(map[string]interface{}{
		"query": "x", "operator": "XOR",
	}))
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleGetContext(t *testing.T) {
	s := newTestServer(t)
	path := writeTestLog(t, "l1\nl2\nl3\nl4\nl5\n")

	_, err := s.handleIndexLogs(context.Background(), callRequest(map[string]interface{}{
		"paths": []interface{}{path},
	}))
	require.NoError(t, err)

	result, err := s.handleGetContext(context.Background(), callRequest(map[string]interface{}{
		"doc_id": float64(2),
		"before": float64(1),
		"after":  float64(1),
	}))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, ">>> 3: l3")
	assert.Contains(t, text, "    2: l2")
	assert.Contains(t, text, "    4: l4")
}

func TestHandleGetContext_OutOfRange(t *testing.T) {
	s := newTestServer(t)
	path := writeTestLog(t, "only line\n")

	_, err := s.handleIndexLogs(context.Background(), callRequest(map[string]interface{}{
		"paths": []interface{}{path},
	}))
	require.NoError(t, err)

	_, err = s.handleGetContext(context.Background(), callRequest(map[string]interface{}{
		"doc_id": float64(5),
	}))
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeOutOfRange, mcpErr.Code)
}

func TestHandleGetChunk(t *testing.T) {
	s := newTestServer(t)
	path := writeTestLog(t, "l1\nl2\nl3\nl4\nl5\n")

	_, err := s.handleIndexLogs(context.Background(), callRequest(map[string]interface{}{
		"paths": []interface{}{path},
	}))
	require.NoError(t, err)

	// Chunk size 3, overlap 1: chunks [0-2] [2-4] [4-4].
	result, err := s.handleGetChunk(context.Background(), callRequest(map[string]interface{}{
		"chunk_id": float64(1),
	}))
	require.NoError(t, err)

	var resp struct {
		ChunkID   int `json:"chunk_id"`
		Documents []struct {
			DocID   int    `json:"doc_id"`
			RawText string `json:"raw_text"`
		} `json:"documents"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	assert.Equal(t, 1, resp.ChunkID)
	require.Len(t, resp.Documents, 3)
	assert.Equal(t, 2, resp.Documents[0].DocID)
	assert.Equal(t, "l3", resp.Documents[0].RawText)

	_, err = s.handleGetChunk(context.Background(), callRequest(map[string]interface{}{
		"chunk_id": float64(9),
	}))
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeOutOfRange, mcpErr.Code)
}

func TestHandleGetStatus_NotIndexed(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetStatus(context.Background(), callRequest(nil))
	require.NoError(t, err)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	assert.Equal(t, false, resp["indexed"])
}

func TestValidatePath(t *testing.T) {
	assert.ErrorIs(t, validatePath("relative.log"), ErrPathNotAbsolute)
	assert.ErrorIs(t, validatePath("/definitely/not/there.log"), ErrPathNotFound)
	assert.ErrorIs(t, validatePath(os.TempDir()), ErrPathIsDirectory)
}
