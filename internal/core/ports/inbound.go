package ports

import (
	"context"
	"io"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

// DocumentIngestor is the inbound contract for corpus mutation. Every
// successful call changes the corpus and therefore invalidates the index.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
	Delete(ctx context.Context, documentID string) error
}

// AssistantService is the inbound contract for question answering.
type AssistantService interface {
	Answer(ctx context.Context, question string, topK int, mode domain.AnswerMode) (*domain.Answer, error)
}

// DocumentReader is the inbound read model for document metadata.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
}
