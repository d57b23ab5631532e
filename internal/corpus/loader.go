// Package corpus loads source documents from local storage and turns them
// into the normalized chunk sequence the index is built from.
package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

const (
	defaultChunkWords   = 180
	defaultOverlapWords = 30
)

// Loader walks a documents directory and produces chunks with identifiers
// that are stable across calls for an unchanged corpus: files are visited
// in sorted path order and numbered doc-0, doc-1, ...; chunks are numbered
// chunk-0, chunk-1, ... across the whole corpus.
type Loader struct {
	dir          string
	chunkWords   int
	overlapWords int
	logger       *slog.Logger
}

func NewLoader(dir string, chunkWords, overlapWords int, logger *slog.Logger) *Loader {
	if chunkWords <= 0 {
		chunkWords = defaultChunkWords
	}
	if overlapWords < 0 || overlapWords >= chunkWords {
		overlapWords = defaultOverlapWords
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		dir:          dir,
		chunkWords:   chunkWords,
		overlapWords: overlapWords,
		logger:       logger.With("component", "corpus-loader"),
	}
}

// LoadChunks reads every .txt and .pdf file under the documents directory.
// Unreadable files are logged and skipped; a partial corpus still builds.
// A missing or empty directory yields zero chunks without error.
func (l *Loader) LoadChunks(ctx context.Context) ([]domain.Chunk, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure docs dir: %w", err)
	}

	var paths []string
	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			l.logger.Warn("skip unreadable path", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".pdf":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk docs dir: %w", err)
	}
	sort.Strings(paths)

	var chunks []domain.Chunk
	docIdx, chunkIdx := 0, 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := l.readFile(path)
		if err != nil {
			l.logger.Warn("skip unreadable document", "path", path, "error", err)
			continue
		}
		text := normalizeText(raw)
		if text == "" {
			continue
		}

		docID := fmt.Sprintf("doc-%d", docIdx)
		docIdx++
		for _, part := range splitWords(text, l.chunkWords, l.overlapWords) {
			chunks = append(chunks, domain.Chunk{
				ChunkID: fmt.Sprintf("chunk-%d", chunkIdx),
				DocID:   docID,
				Source:  path,
				Text:    part,
			})
			chunkIdx++
		}
	}

	l.logger.Info("corpus loaded", "documents", docIdx, "chunks", len(chunks))
	return chunks, nil
}

func (l *Loader) readFile(path string) (string, error) {
	if strings.ToLower(filepath.Ext(path)) == ".pdf" {
		return readPDF(path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

var (
	manyNewlines = regexp.MustCompile(`\n{3,}`)
	spaceRuns    = regexp.MustCompile(`[ \t]+`)
)

func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r", "\n")
	s = manyNewlines.ReplaceAllString(s, "\n\n")
	s = spaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// splitWords cuts text into fixed-size word windows with overlap, the
// window sliding by chunkWords-overlap each step.
func splitWords(text string, chunkWords, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	step := chunkWords - overlap
	if step < 1 {
		step = 1
	}

	var out []string
	for i := 0; i < len(words); i += step {
		end := i + chunkWords
		if end > len(words) {
			end = len(words)
		}
		out = append(out, strings.Join(words[i:end], " "))
		if end == len(words) {
			break
		}
	}
	return out
}
