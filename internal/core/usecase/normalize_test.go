package usecase

import (
	"testing"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

func TestPassageFromResult(t *testing.T) {
	p := PassageFromResult(domain.RetrievalResult{
		Score: 0.42,
		Chunk: domain.Chunk{ChunkID: "c1", Source: "ipc.pdf", Text: "theft penalty"},
	})
	if p.Source != "ipc.pdf" || p.Text != "theft penalty" {
		t.Fatalf("unexpected passage: %+v", p)
	}
	if p.Score == nil || *p.Score != 0.42 {
		t.Fatalf("expected score 0.42, got %v", p.Score)
	}
}

func TestPassageFromResultMissingSource(t *testing.T) {
	p := PassageFromResult(domain.RetrievalResult{Chunk: domain.Chunk{Text: "orphan"}})
	if p.Source != "unknown" {
		t.Fatalf("expected unknown source, got %q", p.Source)
	}
}

func TestPassageFromText(t *testing.T) {
	p := PassageFromText("bare snippet")
	if p.Source != "unknown" || p.Text != "bare snippet" || p.Score != nil {
		t.Fatalf("unexpected passage: %+v", p)
	}
}

func TestPassageFromMappingAliases(t *testing.T) {
	p := PassageFromMapping(map[string]any{
		"filename":   "act.pdf",
		"content":    "bail provisions",
		"similarity": 0.9,
	})
	if p.Source != "act.pdf" {
		t.Fatalf("expected filename alias, got %q", p.Source)
	}
	if p.Text != "bail provisions" {
		t.Fatalf("expected content alias, got %q", p.Text)
	}
	if p.Score == nil || *p.Score != 0.9 {
		t.Fatalf("expected similarity alias, got %v", p.Score)
	}
}

func TestPassageFromMappingMalformed(t *testing.T) {
	p := PassageFromMapping(map[string]any{"weird": 7})
	if p.Source != "unknown" {
		t.Fatalf("expected unknown source, got %q", p.Source)
	}
	if p.Text == "" {
		t.Fatalf("expected best-effort text, entry must not be dropped")
	}
}

func TestPassageFromMappingStringScore(t *testing.T) {
	p := PassageFromMapping(map[string]any{"text": "x", "score": "0.25"})
	if p.Score == nil || *p.Score != 0.25 {
		t.Fatalf("expected parsed string score, got %v", p.Score)
	}
}

type providerFake struct {
	source string
	text   string
	score  float64
	scored bool
}

func (p providerFake) PassageSource() string         { return p.source }
func (p providerFake) PassageText() string           { return p.text }
func (p providerFake) PassageScore() (float64, bool) { return p.score, p.scored }

func TestPassageFromProvider(t *testing.T) {
	p := PassageFromProvider(providerFake{source: "x.txt", text: "body", score: 0.5, scored: true})
	if p.Source != "x.txt" || p.Text != "body" || p.Score == nil || *p.Score != 0.5 {
		t.Fatalf("unexpected passage: %+v", p)
	}

	p = PassageFromProvider(providerFake{text: "no provenance"})
	if p.Source != "unknown" || p.Score != nil {
		t.Fatalf("unexpected passage: %+v", p)
	}
}

func TestNormalizePassagesPreservesOrder(t *testing.T) {
	results := []domain.RetrievalResult{
		{Score: 0.9, Chunk: domain.Chunk{ChunkID: "c1", Source: "a", Text: "first"}},
		{Score: 0.4, Chunk: domain.Chunk{ChunkID: "c2", Source: "b", Text: "second"}},
	}
	passages := NormalizePassages(results)
	if len(passages) != 2 || passages[0].Text != "first" || passages[1].Text != "second" {
		t.Fatalf("order not preserved: %+v", passages)
	}
}
