package usecase

import (
	"fmt"
	"strconv"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

// Result normalization decouples the index's native result shape from what
// the answer generator consumes, so retrieval backends stay swappable.
// Each known producer shape has its own constructor; there is no runtime
// type probing. Malformed input is coerced to a best-effort passage with
// source "unknown" rather than dropped.

const unknownSource = "unknown"

// PassageFromResult converts the hybrid index's native (score, chunk) pair.
func PassageFromResult(r domain.RetrievalResult) domain.Passage {
	source := r.Chunk.Source
	if source == "" {
		source = unknownSource
	}
	score := r.Score
	return domain.Passage{Source: source, Text: r.Chunk.Text, Score: &score}
}

// PassageFromText converts a bare text snippet with no provenance.
func PassageFromText(text string) domain.Passage {
	return domain.Passage{Source: unknownSource, Text: text}
}

// PassageFromMapping converts a loosely keyed map, accepting the key
// aliases external retrievers are known to emit.
func PassageFromMapping(m map[string]any) domain.Passage {
	p := domain.Passage{Source: unknownSource}
	for _, key := range []string{"source", "filename", "file", "path"} {
		if s, ok := m[key].(string); ok && s != "" {
			p.Source = s
			break
		}
	}
	for _, key := range []string{"text", "content", "chunk", "page_content"} {
		if s, ok := m[key].(string); ok && s != "" {
			p.Text = s
			break
		}
	}
	if p.Text == "" && len(m) > 0 {
		p.Text = fmt.Sprint(m)
	}
	for _, key := range []string{"score", "similarity"} {
		if score, ok := asFloat(m[key]); ok {
			p.Score = &score
			break
		}
	}
	return p
}

// PassageProvider is the contract for opaque result objects that expose
// their own fields.
type PassageProvider interface {
	PassageSource() string
	PassageText() string
	PassageScore() (float64, bool)
}

// PassageFromProvider converts an object implementing PassageProvider.
func PassageFromProvider(p PassageProvider) domain.Passage {
	out := domain.Passage{Source: p.PassageSource(), Text: p.PassageText()}
	if out.Source == "" {
		out.Source = unknownSource
	}
	if score, ok := p.PassageScore(); ok {
		out.Score = &score
	}
	return out
}

// NormalizePassages converts a ranked result sequence, preserving order.
func NormalizePassages(results []domain.RetrievalResult) []domain.Passage {
	out := make([]domain.Passage, len(results))
	for i, r := range results {
		out[i] = PassageFromResult(r)
	}
	return out
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
