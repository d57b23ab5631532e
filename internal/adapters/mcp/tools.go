package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

const (
	errorCodeInvalidParams = -32602
	errorCodeInternal      = -32603
)

func (s *Server) handleSearchPassages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(errorCodeInvalidParams, "invalid arguments", nil)
	}

	query, _ := args["query"].(string)
	if strings.TrimSpace(query) == "" {
		return nil, newMCPError(errorCodeInvalidParams, "query parameter is required", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}
	limit := getIntDefault(args, "limit", 8)

	results, err := s.retriever.Retrieve(ctx, query, limit)
	if err != nil {
		return nil, newMCPError(errorCodeInternal, "retrieval failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	passages := make([]map[string]interface{}, 0, len(results))
	for _, res := range results {
		passages = append(passages, map[string]interface{}{
			"chunk_id": res.Chunk.ChunkID,
			"source":   res.Chunk.Source,
			"text":     res.Chunk.Text,
			"score":    res.Score,
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"query":    query,
		"passages": passages,
	})), nil
}

func (s *Server) handleAskAssistant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(errorCodeInvalidParams, "invalid arguments", nil)
	}

	question, _ := args["question"].(string)
	if strings.TrimSpace(question) == "" {
		return nil, newMCPError(errorCodeInvalidParams, "question parameter is required", map[string]interface{}{
			"param":  "question",
			"reason": "missing or empty",
		})
	}
	mode := domain.ParseAnswerMode(getStringDefault(args, "mode", "normal"))
	limit := getIntDefault(args, "limit", 0)

	answer, err := s.assistant.Answer(ctx, question, limit, mode)
	if err != nil {
		if domain.IsKind(err, domain.ErrInvalidInput) {
			return nil, newMCPError(errorCodeInvalidParams, err.Error(), nil)
		}
		return nil, newMCPError(errorCodeInternal, "answering failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	sources := make([]map[string]interface{}, 0, len(answer.Sources))
	for _, src := range answer.Sources {
		entry := map[string]interface{}{
			"source": src.Source,
			"text":   src.Text,
		}
		if src.Score != nil {
			entry["score"] = *src.Score
		}
		sources = append(sources, entry)
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"answer":   answer.Text,
		"grounded": answer.Grounded,
		"sources":  sources,
	})), nil
}

func (s *Server) handleRebuildIndex(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.maintainer.Rebuild(ctx); err != nil {
		return nil, newMCPError(errorCodeInternal, "index rebuild failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"rebuilt": true,
	})), nil
}

// MCPError is returned to the framework, which encodes it as a JSON-RPC
// error for the client.
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok && val != "" {
		return val
	}
	return defaultValue
}
