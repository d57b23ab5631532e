package usecase

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	defaultMaxContextChars = 6000
	defaultSnippetChars    = 700
	defaultMinTermHits     = 2
	minQueryTermLen        = 4
)

// queryTerms extracts the discriminative words of a question: everything
// longer than three characters, lowercased. When nothing qualifies, the
// whole lowercased question is the single term.
func queryTerms(question string) []string {
	var terms []string
	for _, word := range strings.FieldsFunc(strings.ToLower(question), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(word)) >= minQueryTermLen {
			terms = append(terms, word)
		}
	}
	if len(terms) == 0 {
		terms = []string{strings.ToLower(strings.TrimSpace(question))}
	}
	return terms
}

// passagesLookRelevant is the retrieval relevance heuristic: the best
// per-passage count of query-term occurrences must reach minTermHits,
// otherwise the retrieved context is treated as noise and the generator
// answers zero-shot.
func passagesLookRelevant(passages []passageView, terms []string, minTermHits int) bool {
	best := 0
	for _, p := range passages {
		lower := strings.ToLower(p.text)
		count := 0
		for _, term := range terms {
			count += strings.Count(lower, term)
		}
		if count > best {
			best = count
		}
	}
	return best >= minTermHits
}

type passageView struct {
	source string
	text   string
}

// buildContextBlock assembles the numbered grounding block handed to the
// generator, truncating each snippet and enforcing an overall character
// budget.
func buildContextBlock(question string, passages []passageView, snippetChars, maxChars int) string {
	if len(passages) == 0 {
		return ""
	}
	if snippetChars <= 0 {
		snippetChars = defaultSnippetChars
	}
	if maxChars <= 0 {
		maxChars = defaultMaxContextChars
	}

	var pieces []string
	total := 0
	for i, p := range passages {
		snippet := strings.TrimSpace(truncateRunes(p.text, snippetChars))
		if snippet == "" {
			continue
		}
		entry := fmt.Sprintf("[%d] Source: %s\n%s\n", i+1, p.source, snippet)
		if total+len(entry) > maxChars {
			remaining := maxChars - total
			if remaining <= 40 {
				break
			}
			entry = truncateRunes(entry, remaining)
			pieces = append(pieces, entry)
			break
		}
		pieces = append(pieces, entry)
		total += len(entry)
	}
	if len(pieces) == 0 {
		return ""
	}

	header := fmt.Sprintf("Top %d retrieved passages for: %s\n\n", len(pieces), question)
	return header + strings.Join(pieces, "\n\n")
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
