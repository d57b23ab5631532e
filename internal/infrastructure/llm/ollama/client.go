// Package ollama talks to a local Ollama server for embeddings and
// answer generation.
package ollama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	genModel   string
	embedModel string
	httpClient httpDoer
	executor   *resilience.Executor
}

func New(baseURL, genModel, embedModel string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		genModel:   genModel,
		embedModel: embedModel,
		httpClient: newHTTPClient(120 * time.Second),
	}
}

// WithExecutor routes every Ollama call through the retry/breaker
// executor. Returns the client for chaining.
func (c *Client) WithExecutor(executor *resilience.Executor) *Client {
	c.executor = executor
	return c
}

func (c *Client) call(ctx context.Context, operation string, fn func(context.Context) error) error {
	if c.executor == nil {
		return wrapTemporaryIfNeeded(operation, fn(ctx))
	}
	err := c.executor.Execute(ctx, operation, fn, classifyOllamaError)
	return wrapTemporaryIfNeeded(operation, err)
}

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	request := map[string]any{
		"model": e.client.embedModel,
		"input": texts,
	}

	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	err := e.client.call(ctx, "embed", func(ctx context.Context) error {
		return e.client.postJSON(ctx, "/api/embed", request, &response, "embed")
	})
	if err != nil {
		return nil, err
	}
	if len(response.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed count mismatch: sent %d texts, got %d vectors", len(texts), len(response.Embeddings))
	}
	return response.Embeddings, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return vectors[0], nil
}

type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

// GenerateAnswer produces the final answer text. An empty contextBlock
// switches to the cautious zero-shot prompt.
func (g *Generator) GenerateAnswer(ctx context.Context, question, contextBlock string, mode domain.AnswerMode) (string, error) {
	system := systemPromptFor(mode, contextBlock != "")
	prompt := buildAnswerPrompt(question, contextBlock)

	request := map[string]any{
		"model":  g.client.genModel,
		"system": system,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": 0.0,
		},
	}

	var response struct {
		Response string `json:"response"`
	}
	err := g.client.call(ctx, "generate", func(ctx context.Context) error {
		return g.client.postJSON(ctx, "/api/generate", request, &response, "generate")
	})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(response.Response)
	if text == "" {
		return "", fmt.Errorf("empty generation result")
	}
	return text, nil
}
