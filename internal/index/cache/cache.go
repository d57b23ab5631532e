// Package cache owns the process-wide index slot: a memoize-once cache in
// front of the persisted index snapshot, with a single-flight guarantee on
// cold builds. It is an injectable service, not ambient global state.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
	"github.com/kirillkom/legal-doc-assistant/internal/core/ports"
	"github.com/kirillkom/legal-doc-assistant/internal/index"
)

// SnapshotStore persists the single serialized index blob. Read returns
// domain-level not-found semantics as an error; Write must be atomic so a
// concurrent reader never observes a half-written blob.
type SnapshotStore interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
}

// Observer receives cache lifecycle events for metrics. All methods must
// be safe for concurrent use.
type Observer interface {
	CacheHit()
	CacheMiss()
	Rebuild(chunks int, took time.Duration)
}

type nopObserver struct{}

func (nopObserver) CacheHit()                  {}
func (nopObserver) CacheMiss()                 {}
func (nopObserver) Rebuild(int, time.Duration) {}

// Service implements ports.PassageRetriever and ports.IndexMaintainer on
// top of the hybrid index. The in-memory slot is populated exactly once
// per process lifetime unless Invalidate clears it; it never expires on
// its own.
type Service struct {
	loader   ports.CorpusLoader
	store    SnapshotStore
	embedder index.Embedder
	opts     []index.Option
	logger   *slog.Logger
	observer Observer

	group singleflight.Group
	mu    sync.RWMutex
	idx   *index.Index
}

func New(loader ports.CorpusLoader, store SnapshotStore, embedder index.Embedder, logger *slog.Logger, opts ...index.Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		loader:   loader,
		store:    store,
		embedder: embedder,
		opts:     opts,
		logger:   logger.With("component", "index-cache"),
		observer: nopObserver{},
	}
}

// SetObserver attaches a metrics observer. Call before first use.
func (s *Service) SetObserver(o Observer) {
	if o != nil {
		s.observer = o
	}
}

// GetOrCreate returns the current index, loading it from the persisted
// snapshot or building it from the corpus on first access. Concurrent
// cold-start callers share a single build; every caller receives a fully
// built index.
func (s *Service) GetOrCreate(ctx context.Context) (*index.Index, error) {
	s.mu.RLock()
	idx := s.idx
	s.mu.RUnlock()
	if idx != nil {
		s.observer.CacheHit()
		return idx, nil
	}

	v, err, _ := s.group.Do("index", func() (interface{}, error) {
		// Another caller may have populated the slot while this one
		// waited on the flight key.
		s.mu.RLock()
		existing := s.idx
		s.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		s.observer.CacheMiss()
		built, err := s.loadOrBuild(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.idx = built
		s.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*index.Index), nil
}

func (s *Service) loadOrBuild(ctx context.Context) (*index.Index, error) {
	if data, err := s.store.Read(ctx); err == nil {
		restored, restoreErr := index.Restore(data, s.embedder, s.logger)
		if restoreErr == nil {
			s.logger.Info("index loaded from snapshot", "chunks", restored.Len())
			return restored, nil
		}
		s.logger.Warn("snapshot restore failed, rebuilding", "error", restoreErr)
	}

	start := time.Now()
	chunks, err := s.loader.LoadChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	built := index.New(s.embedder, s.logger, s.opts...)
	built.Fit(ctx, chunks)
	s.observer.Rebuild(built.Len(), time.Since(start))
	s.logger.Info("index built",
		"chunks", built.Len(),
		"lexical", built.HasLexical(),
		"semantic", built.HasSemantic(),
		"took_ms", time.Since(start).Milliseconds(),
	)

	if data, err := built.Snapshot(); err != nil {
		s.logger.Warn("snapshot encode failed", "error", err)
	} else if err := s.store.Write(ctx, data); err != nil {
		s.logger.Warn("snapshot write failed", "error", err)
	}
	return built, nil
}

// Invalidate deletes the persisted snapshot and clears the in-memory slot.
// Callers must invoke it after every corpus change; the next GetOrCreate
// rebuilds from scratch.
func (s *Service) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	s.idx = nil
	s.mu.Unlock()

	if err := s.store.Delete(ctx); err != nil {
		return fmt.Errorf("delete index snapshot: %w", err)
	}
	s.logger.Info("index invalidated")
	return nil
}

// Rebuild invalidates and immediately warms a fresh index.
func (s *Service) Rebuild(ctx context.Context) error {
	if err := s.Invalidate(ctx); err != nil {
		return err
	}
	if _, err := s.GetOrCreate(ctx); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	return nil
}

// Retrieve runs a ranked top-k query against the current index.
func (s *Service) Retrieve(ctx context.Context, query string, topK int) ([]domain.RetrievalResult, error) {
	idx, err := s.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	return idx.Query(ctx, query, topK), nil
}
