// Package index implements the hybrid retrieval index: a lexical TF-IDF
// model and a dense semantic model fitted over the same chunk sequence,
// fused into one ranking by weighted sum. Either sub-model may be absent;
// the index degrades to whichever signals it holds.
package index

import (
	"context"
	"log/slog"
	"sort"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

// Weights are the fusion coefficients applied to each signal. Semantic
// similarity is weighted higher; lexical matching recovers exact statutory
// terms and numbers that embeddings blur.
type Weights struct {
	Semantic float64
	Lexical  float64
}

func DefaultWeights() Weights {
	return Weights{Semantic: 0.7, Lexical: 0.3}
}

func (w Weights) normalize() Weights {
	if w.Semantic <= 0 && w.Lexical <= 0 {
		return DefaultWeights()
	}
	return w
}

// Index owns the chunk sequence and both sub-models. Construct with New,
// populate with Fit, then serve Query. An Index is immutable after Fit;
// concurrent Query calls are safe.
type Index struct {
	chunks   []domain.Chunk
	lexical  *lexicalModel
	semantic *semanticModel

	weights    Weights
	maxDocFreq float64
	embedder   Embedder
	logger     *slog.Logger
}

type Option func(*Index)

func WithWeights(w Weights) Option {
	return func(ix *Index) { ix.weights = w.normalize() }
}

func WithMaxDocFreq(f float64) Option {
	return func(ix *Index) { ix.maxDocFreq = f }
}

func New(embedder Embedder, logger *slog.Logger, opts ...Option) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	ix := &Index{
		weights:    DefaultWeights(),
		maxDocFreq: defaultMaxDocFreq,
		embedder:   embedder,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Fit stores the chunks verbatim and fits whichever sub-models can be
// built. A sub-model failure is logged and leaves that signal absent; it
// never fails the index as a whole.
func (ix *Index) Fit(ctx context.Context, chunks []domain.Chunk) {
	ix.chunks = make([]domain.Chunk, len(chunks))
	copy(ix.chunks, chunks)

	texts := make([]string, len(ix.chunks))
	for i, c := range ix.chunks {
		texts[i] = c.Text
	}

	lexical, err := fitLexical(texts, ix.maxDocFreq)
	if err != nil {
		ix.logger.Error("lexical fit failed", "error", err, "chunks", len(chunks))
		lexical = nil
	}
	ix.lexical = lexical

	semantic, err := fitSemantic(ctx, ix.embedder, texts)
	if err != nil {
		ix.logger.Error("semantic fit failed", "error", err, "chunks", len(chunks))
		semantic = nil
	}
	ix.semantic = semantic
}

func (ix *Index) Len() int          { return len(ix.chunks) }
func (ix *Index) HasLexical() bool  { return ix.lexical != nil }
func (ix *Index) HasSemantic() bool { return ix.semantic != nil && ix.embedder != nil }

// SetEmbedder re-attaches the query-time embedder after a snapshot restore;
// the embedder client itself is never serialized.
func (ix *Index) SetEmbedder(e Embedder) { ix.embedder = e }

// Query fuses the available signals per chunk, drops chunks whose total
// score is not strictly positive (no match, not merely a low match), and
// returns at most topK results in descending score order. Ties keep chunk
// insertion order, so repeated queries are reproducible.
func (ix *Index) Query(ctx context.Context, query string, topK int) []domain.RetrievalResult {
	if len(ix.chunks) == 0 || topK <= 0 {
		return nil
	}

	totals := make([]float64, len(ix.chunks))

	if ix.HasSemantic() {
		scores, err := ix.semantic.score(ctx, ix.embedder, query)
		if err != nil {
			ix.logger.Warn("semantic scoring unavailable for query", "error", err)
		} else {
			for i, s := range scores {
				totals[i] += ix.weights.Semantic * s
			}
		}
	}

	if ix.HasLexical() {
		for i, s := range ix.lexical.score(query) {
			totals[i] += ix.weights.Lexical * s
		}
	}

	order := make([]int, 0, len(totals))
	for i, total := range totals {
		if total > 0 {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return totals[order[a]] > totals[order[b]]
	})
	if len(order) > topK {
		order = order[:topK]
	}

	out := make([]domain.RetrievalResult, len(order))
	for i, idx := range order {
		out[i] = domain.RetrievalResult{Score: totals[idx], Chunk: ix.chunks[idx]}
	}
	return out
}
