package index

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log/slog"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

// snapshot is the single persisted representation of a fitted index. There
// is no format versioning: a layout change means deleting the blob and
// rebuilding.
type snapshot struct {
	Chunks   []domain.Chunk
	Weights  Weights
	Lexical  *lexicalModel
	Semantic *semanticModel
}

// Snapshot serializes the fitted index. The embedder client is not part
// of the snapshot; Restore re-attaches one.
func (ix *Index) Snapshot() ([]byte, error) {
	var buf bytes.Buffer
	snap := snapshot{
		Chunks:   ix.chunks,
		Weights:  ix.weights,
		Lexical:  ix.lexical,
		Semantic: ix.semantic,
	}
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, fmt.Errorf("encode index snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Restore rebuilds an Index from a serialized snapshot without refitting.
func Restore(data []byte, embedder Embedder, logger *slog.Logger) (*Index, error) {
	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode index snapshot: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{
		chunks:     snap.Chunks,
		lexical:    snap.Lexical,
		semantic:   snap.Semantic,
		weights:    snap.Weights.normalize(),
		maxDocFreq: defaultMaxDocFreq,
		embedder:   embedder,
		logger:     logger,
	}, nil
}
