package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadIncludesRetrievalDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("RAG_TOP_K", "")
	t.Setenv("SEMANTIC_WEIGHT", "")
	t.Setenv("LEXICAL_WEIGHT", "")
	t.Setenv("LEXICAL_MAX_DOC_FREQ", "")

	cfg := Load()
	if cfg.RAGTopK != 8 {
		t.Fatalf("expected default top k 8, got %d", cfg.RAGTopK)
	}
	if cfg.SemanticWeight != 0.7 {
		t.Fatalf("expected default semantic weight 0.7, got %v", cfg.SemanticWeight)
	}
	if cfg.LexicalWeight != 0.3 {
		t.Fatalf("expected default lexical weight 0.3, got %v", cfg.LexicalWeight)
	}
	if cfg.LexicalMaxDocFreq != 0.95 {
		t.Fatalf("expected default max doc freq 0.95, got %v", cfg.LexicalMaxDocFreq)
	}
	if cfg.ChunkWords != 180 || cfg.ChunkOverlapWords != 30 {
		t.Fatalf("unexpected chunking defaults: %d/%d", cfg.ChunkWords, cfg.ChunkOverlapWords)
	}
}

func TestLoadParsesEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("RAG_TOP_K", "12")
	t.Setenv("SEMANTIC_WEIGHT", "0.6")
	t.Setenv("NATS_SUBJECT", "corpus.events")

	cfg := Load()
	if cfg.RAGTopK != 12 {
		t.Fatalf("expected top k 12, got %d", cfg.RAGTopK)
	}
	if cfg.SemanticWeight != 0.6 {
		t.Fatalf("expected semantic weight 0.6, got %v", cfg.SemanticWeight)
	}
	if cfg.NATSSubject != "corpus.events" {
		t.Fatalf("expected subject override, got %q", cfg.NATSSubject)
	}
}

func TestLoadReadsConfigFileWithEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "RAG_TOP_K: 15\nSNIPPET_CHARS: 500\nOLLAMA_GEN_MODEL: mistral:7b\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("RAG_TOP_K", "3")
	t.Setenv("SNIPPET_CHARS", "")
	t.Setenv("OLLAMA_GEN_MODEL", "")

	cfg := Load()
	if cfg.RAGTopK != 3 {
		t.Fatalf("env should beat file: expected top k 3, got %d", cfg.RAGTopK)
	}
	if cfg.SnippetChars != 500 {
		t.Fatalf("expected file snippet chars 500, got %d", cfg.SnippetChars)
	}
	if cfg.OllamaGenModel != "mistral:7b" {
		t.Fatalf("expected file model override, got %q", cfg.OllamaGenModel)
	}
}

func TestLoadIgnoresMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")
	t.Setenv("API_PORT", "")

	cfg := Load()
	if cfg.APIPort != "8080" {
		t.Fatalf("expected default api port, got %q", cfg.APIPort)
	}
}

func TestLoadFallsBackOnMalformedValues(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("RAG_TOP_K", "not-a-number")
	t.Setenv("SEMANTIC_WEIGHT", "abc")

	cfg := Load()
	if cfg.RAGTopK != 8 {
		t.Fatalf("expected fallback top k 8, got %d", cfg.RAGTopK)
	}
	if cfg.SemanticWeight != 0.7 {
		t.Fatalf("expected fallback semantic weight 0.7, got %v", cfg.SemanticWeight)
	}
}
