package mcpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
	"github.com/kirillkom/legal-doc-assistant/internal/core/usecase"
)

type retrieverFake struct {
	results []domain.RetrievalResult
	err     error
}

func (f *retrieverFake) Retrieve(context.Context, string, int) ([]domain.RetrievalResult, error) {
	return f.results, f.err
}

type generatorFake struct {
	answer string
	err    error
}

func (f *generatorFake) GenerateAnswer(context.Context, string, string, domain.AnswerMode) (string, error) {
	return f.answer, f.err
}

type maintainerFake struct {
	rebuilt int
	err     error
}

func (f *maintainerFake) Invalidate(context.Context) error { return f.err }

func (f *maintainerFake) Rebuild(context.Context) error {
	f.rebuilt++
	return f.err
}

func newTestServer(retriever *retrieverFake, maintainer *maintainerFake) *Server {
	answerUC := usecase.NewAnswerUseCase(
		retriever,
		&generatorFake{answer: "generated"},
		usecase.AnswerConfig{},
		slog.New(slog.DiscardHandler),
	)
	return NewServer(retriever, answerUC, maintainer)
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func textContent(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("expected non-empty tool result")
	}
	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Fatalf("decode tool result: %v", err)
	}
	return payload
}

func TestSearchPassagesReturnsScoredResults(t *testing.T) {
	retriever := &retrieverFake{results: []domain.RetrievalResult{
		{Score: 0.8, Chunk: domain.Chunk{ChunkID: "doc-0/chunk-0", Source: "ipc.pdf", Text: "Theft is punishable."}},
	}}
	srv := newTestServer(retriever, &maintainerFake{})

	result, err := srv.handleSearchPassages(context.Background(), callRequest("search_passages", map[string]interface{}{
		"query": "theft punishment",
		"limit": float64(5),
	}))
	if err != nil {
		t.Fatalf("handleSearchPassages returned error: %v", err)
	}

	payload := textContent(t, result)
	passages, ok := payload["passages"].([]any)
	if !ok || len(passages) != 1 {
		t.Fatalf("expected 1 passage, got %v", payload["passages"])
	}
	first := passages[0].(map[string]any)
	if first["source"] != "ipc.pdf" {
		t.Fatalf("unexpected source: %v", first["source"])
	}
}

func TestSearchPassagesRejectsEmptyQuery(t *testing.T) {
	srv := newTestServer(&retrieverFake{}, &maintainerFake{})

	_, err := srv.handleSearchPassages(context.Background(), callRequest("search_passages", map[string]interface{}{
		"query": "   ",
	}))
	if err == nil {
		t.Fatal("expected error for empty query")
	}
	mcpErr, ok := err.(*MCPError)
	if !ok || mcpErr.Code != errorCodeInvalidParams {
		t.Fatalf("expected invalid params error, got %v", err)
	}
}

func TestAskAssistantReturnsAnswer(t *testing.T) {
	retriever := &retrieverFake{results: []domain.RetrievalResult{
		{Score: 0.9, Chunk: domain.Chunk{Source: "ipc.pdf", Text: "Punishment for theft extends to three years of imprisonment."}},
	}}
	srv := newTestServer(retriever, &maintainerFake{})

	result, err := srv.handleAskAssistant(context.Background(), callRequest("ask_assistant", map[string]interface{}{
		"question": "What is the punishment for theft?",
		"mode":     "eli5",
	}))
	if err != nil {
		t.Fatalf("handleAskAssistant returned error: %v", err)
	}

	payload := textContent(t, result)
	if payload["answer"] != "generated" {
		t.Fatalf("unexpected answer: %v", payload["answer"])
	}
	if payload["grounded"] != true {
		t.Fatalf("expected grounded answer, got %v", payload["grounded"])
	}
}

func TestRebuildIndexInvokesMaintainer(t *testing.T) {
	maintainer := &maintainerFake{}
	srv := newTestServer(&retrieverFake{}, maintainer)

	result, err := srv.handleRebuildIndex(context.Background(), callRequest("rebuild_index", nil))
	if err != nil {
		t.Fatalf("handleRebuildIndex returned error: %v", err)
	}
	if maintainer.rebuilt != 1 {
		t.Fatalf("expected 1 rebuild, got %d", maintainer.rebuilt)
	}
	payload := textContent(t, result)
	if payload["rebuilt"] != true {
		t.Fatalf("expected rebuilt=true, got %v", payload["rebuilt"])
	}
}
