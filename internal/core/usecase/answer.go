package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
	"github.com/kirillkom/legal-doc-assistant/internal/core/ports"
)

// AnswerConfig is the tunable policy of the answer pipeline.
type AnswerConfig struct {
	TopK            int
	MaxContextChars int
	SnippetChars    int
	MinTermHits     int
}

func (c AnswerConfig) normalized() AnswerConfig {
	if c.TopK <= 0 {
		c.TopK = 8
	}
	if c.MaxContextChars <= 0 {
		c.MaxContextChars = defaultMaxContextChars
	}
	if c.SnippetChars <= 0 {
		c.SnippetChars = defaultSnippetChars
	}
	if c.MinTermHits <= 0 {
		c.MinTermHits = defaultMinTermHits
	}
	return c
}

// AnswerUseCase retrieves grounding passages for a question and produces
// the final answer through the generator, degrading to a local extractive
// summary when the generator is unavailable.
type AnswerUseCase struct {
	retriever ports.PassageRetriever
	generator ports.AnswerGenerator
	cfg       AnswerConfig
	logger    *slog.Logger
}

func NewAnswerUseCase(
	retriever ports.PassageRetriever,
	generator ports.AnswerGenerator,
	cfg AnswerConfig,
	logger *slog.Logger,
) *AnswerUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnswerUseCase{
		retriever: retriever,
		generator: generator,
		cfg:       cfg.normalized(),
		logger:    logger.With("component", "answer"),
	}
}

func (uc *AnswerUseCase) Answer(
	ctx context.Context,
	question string,
	topK int,
	mode domain.AnswerMode,
) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "answer", errors.New("empty question"))
	}
	if topK <= 0 {
		topK = uc.cfg.TopK
	}

	results, err := uc.retriever.Retrieve(ctx, question, topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve passages: %w", err)
	}
	passages := NormalizePassages(results)

	views := make([]passageView, len(passages))
	for i, p := range passages {
		views[i] = passageView{source: p.Source, text: p.Text}
	}

	terms := queryTerms(question)
	grounded := len(passages) > 0 && passagesLookRelevant(views, terms, uc.cfg.MinTermHits)

	contextBlock := ""
	if grounded {
		contextBlock = buildContextBlock(question, views, uc.cfg.SnippetChars, uc.cfg.MaxContextChars)
	}
	uc.logger.Debug("retrieval complete",
		"passages", len(passages),
		"grounded", grounded,
		"mode", string(mode),
	)

	text, err := uc.generator.GenerateAnswer(ctx, question, contextBlock, mode)
	if err != nil {
		uc.logger.Warn("generator unavailable, using local summary", "error", err)
		return &domain.Answer{
			Text:     localSummary(passages, question),
			Grounded: grounded,
			Sources:  passages,
		}, nil
	}

	answer := &domain.Answer{Text: text, Grounded: grounded}
	if grounded {
		answer.Sources = passages
	}
	return answer, nil
}
