// Package bootstrap wires infrastructure into the use cases shared by
// the api, worker, and mcp binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/legal-doc-assistant/internal/config"
	"github.com/kirillkom/legal-doc-assistant/internal/core/ports"
	"github.com/kirillkom/legal-doc-assistant/internal/core/usecase"
	"github.com/kirillkom/legal-doc-assistant/internal/corpus"
	"github.com/kirillkom/legal-doc-assistant/internal/index"
	"github.com/kirillkom/legal-doc-assistant/internal/index/cache"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/queue/nats"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/resilience"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue ports.MessageQueue
	Repo  ports.DocumentRepository
	Index *cache.Service

	IngestUC *usecase.IngestDocumentUseCase
	AnswerUC *usecase.AnswerUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}
	snapshots, err := localfs.NewSnapshotStore(cfg.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("init snapshot store: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig(), logger)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel).WithExecutor(executor)
	embedder := ollama.NewEmbedder(ollamaClient)
	generator := ollama.NewGenerator(ollamaClient)

	loader := corpus.NewLoader(cfg.CorpusPath, cfg.ChunkWords, cfg.ChunkOverlapWords, logger)
	indexCache := cache.New(loader, snapshots, embedder, logger,
		index.WithWeights(index.Weights{
			Semantic: cfg.SemanticWeight,
			Lexical:  cfg.LexicalWeight,
		}),
		index.WithMaxDocFreq(cfg.LexicalMaxDocFreq),
	)

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	answerUC := usecase.NewAnswerUseCase(indexCache, generator, usecase.AnswerConfig{
		TopK:            cfg.RAGTopK,
		MaxContextChars: cfg.MaxContextChars,
		SnippetChars:    cfg.SnippetChars,
		MinTermHits:     cfg.MinTermHits,
	}, logger)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue: queue,
		Repo:  repo,
		Index: indexCache,

		IngestUC: ingestUC,
		AnswerUC: answerUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
