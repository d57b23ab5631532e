package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

func TestGenerateAnswerSendsContextAndModePrompt(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"response":"Theft is punishable. [Source: ipc.pdf]"}`))
	}))
	defer server.Close()

	gen := NewGenerator(New(server.URL, "gen", "embed"))
	answer, err := gen.GenerateAnswer(context.Background(), "What is theft?", "[1] Source: ipc.pdf\nWhoever intends to take...", domain.ModeSummary)
	if err != nil {
		t.Fatalf("GenerateAnswer() error = %v", err)
	}
	if !strings.Contains(answer, "Theft is punishable") {
		t.Fatalf("unexpected answer: %q", answer)
	}

	system, _ := captured["system"].(string)
	if !strings.Contains(system, "bullet-point summary") {
		t.Fatalf("expected summary system prompt, got: %q", system)
	}
	prompt, _ := captured["prompt"].(string)
	if !strings.Contains(prompt, "What is theft?") || !strings.Contains(prompt, "ipc.pdf") {
		t.Fatalf("prompt missing question or context: %q", prompt)
	}
}

func TestGenerateAnswerUsesZeroShotPromptWithoutContext(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"response":"general answer"}`))
	}))
	defer server.Close()

	gen := NewGenerator(New(server.URL, "gen", "embed"))
	if _, err := gen.GenerateAnswer(context.Background(), "question?", "", domain.ModeNormal); err != nil {
		t.Fatalf("GenerateAnswer() error = %v", err)
	}

	system, _ := captured["system"].(string)
	if !strings.Contains(system, "no local documents") {
		t.Fatalf("expected zero-shot system prompt, got: %q", system)
	}
	prompt, _ := captured["prompt"].(string)
	if strings.Contains(prompt, "Context (local documents)") {
		t.Fatalf("zero-shot prompt should not carry a context block: %q", prompt)
	}
}

func TestEmbedReturnsVectorPerText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"embeddings":[[0.1,0.2],[0.3,0.4]]}`))
	}))
	defer server.Close()

	embedder := NewEmbedder(New(server.URL, "gen", "embed"))
	vectors, err := embedder.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vectors) != 2 || len(vectors[0]) != 2 {
		t.Fatalf("unexpected vectors: %v", vectors)
	}
}

func TestEmbedRejectsCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[[0.1]]}`))
	}))
	defer server.Close()

	embedder := NewEmbedder(New(server.URL, "gen", "embed"))
	if _, err := embedder.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatal("expected count mismatch error")
	}
}

func TestEmbedIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	embedder := NewEmbedder(New(server.URL, "gen", "embed"))
	_, err := embedder.Embed(context.Background(), []string{"hello"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Fatalf("expected response body in error, got %v", err)
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("502 should map to ErrTemporary, got %v", err)
	}
}

func TestClassifyOllamaErrorRetriesOnServerStatus(t *testing.T) {
	class := classifyOllamaError(&HTTPStatusError{StatusCode: http.StatusServiceUnavailable})
	if !class.Retryable || !class.RecordFailure {
		t.Fatalf("503 should be retryable and recorded, got %+v", class)
	}

	class = classifyOllamaError(&HTTPStatusError{StatusCode: http.StatusBadRequest})
	if class.Retryable || class.RecordFailure {
		t.Fatalf("400 should be permanent and uncounted, got %+v", class)
	}

	class = classifyOllamaError(context.Canceled)
	if class.Retryable || class.RecordFailure {
		t.Fatalf("cancellation should not retry or count, got %+v", class)
	}
}
