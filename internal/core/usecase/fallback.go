package usecase

import (
	"sort"
	"strings"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

const fallbackMaxSentences = 4

// localSummary is the degraded answer path when the generator is
// unreachable: an extractive summary of the retrieved passages, scoring
// sentences by query-term hits with a small length bonus.
func localSummary(passages []domain.Passage, question string) string {
	if len(passages) == 0 {
		return "No documents found in the index. Upload documents and rebuild the index first."
	}

	type scored struct {
		order  int
		score  float64
		text   string
		source string
	}

	terms := queryTerms(question)
	var candidates []scored
	for _, p := range passages {
		flat := strings.ReplaceAll(p.Text, "\n", " ")
		sentences := strings.Split(flat, ". ")
		if len(sentences) > 3 {
			sentences = sentences[:3]
		}
		for _, sentence := range sentences {
			sentence = strings.TrimSpace(sentence)
			if sentence == "" {
				continue
			}
			if !strings.HasSuffix(sentence, ".") {
				sentence += "."
			}

			var score float64
			lower := strings.ToLower(sentence)
			for _, term := range terms {
				if strings.Contains(lower, term) {
					score += 2
				}
			}
			lengthBonus := float64(len(strings.Fields(sentence))) / 20
			if lengthBonus > 2 {
				lengthBonus = 2
			}
			candidates = append(candidates, scored{
				order:  len(candidates),
				score:  score + lengthBonus,
				text:   sentence,
				source: p.Source,
			})
		}
	}
	if len(candidates) == 0 {
		return truncateRunes(strings.TrimSpace(passages[0].Text), 400)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	seen := make(map[string]struct{})
	var lines []string
	for _, c := range candidates {
		if _, dup := seen[c.text]; dup {
			continue
		}
		seen[c.text] = struct{}{}
		if len(lines) == 0 {
			lines = append(lines, c.text+" (Source: "+c.source+")")
		} else {
			lines = append(lines, c.text)
		}
		if len(lines) >= fallbackMaxSentences {
			break
		}
	}
	return strings.Join(lines, " ")
}
