package ports

import (
	"context"
	"io"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

// CorpusLoader produces the normalized chunk sequence the index is built
// from. It must be idempotent and return stable chunk identifiers for an
// unchanged corpus; chunk order is the implicit row order of the index.
type CorpusLoader interface {
	LoadChunks(ctx context.Context) ([]domain.Chunk, error)
}

// PassageRetriever serves ranked top-k retrieval against the current index.
type PassageRetriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]domain.RetrievalResult, error)
}

// IndexMaintainer controls the lifecycle of the cached index. Invalidate
// must be called whenever the corpus changes; the index cannot detect
// corpus drift on its own.
type IndexMaintainer interface {
	Invalidate(ctx context.Context) error
	Rebuild(ctx context.Context) error
}

// Embedder builds dense vectors for chunk and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// AnswerGenerator creates the final user-facing answer from a question and
// an optional grounding context block.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, question, contextBlock string, mode domain.AnswerMode) (string, error)
}

// DocumentRepository persists document metadata.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	Delete(ctx context.Context, id string) error
}

// ObjectStorage stores source document bodies.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// MessageQueue carries corpus-change notifications between api and worker.
type MessageQueue interface {
	PublishDocumentsChanged(ctx context.Context, documentID string) error
	SubscribeDocumentsChanged(ctx context.Context, handler func(context.Context, string) error) error
}
