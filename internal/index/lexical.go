package index

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"
)

// lexicalModel is a fitted TF-IDF vectorizer over the chunk corpus: a
// vocabulary of 1- and 2-grams, smoothed IDF weights, and one L2-normalized
// sparse row per chunk. Fields are exported for the gob snapshot.
type lexicalModel struct {
	Vocabulary map[string]int
	IDF        []float64
	Rows       []sparseVec
	MaxDocFreq float64
}

type sparseVec struct {
	Indices []int
	Values  []float64
}

const defaultMaxDocFreq = 0.95

// fitLexical builds the vocabulary and per-chunk TF-IDF rows. Terms
// appearing in more than maxDocFreq of the documents are pruned; if
// nothing survives pruning the corpus carries no lexical signal and an
// error is returned so the hybrid index can mark the capability absent.
func fitLexical(texts []string, maxDocFreq float64) (*lexicalModel, error) {
	if len(texts) == 0 {
		return nil, errors.New("lexical fit: empty corpus")
	}
	if maxDocFreq <= 0 || maxDocFreq > 1 {
		maxDocFreq = defaultMaxDocFreq
	}

	df := make(map[string]int)
	docTerms := make([][]string, len(texts))
	for i, text := range texts {
		terms := ngramTerms(text)
		docTerms[i] = terms
		seen := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	n := float64(len(texts))
	kept := make([]string, 0, len(df))
	for term, count := range df {
		if float64(count)/n > maxDocFreq {
			continue
		}
		kept = append(kept, term)
	}
	if len(kept) == 0 {
		return nil, errors.New("lexical fit: no terms remain after pruning")
	}
	sort.Strings(kept)

	m := &lexicalModel{
		Vocabulary: make(map[string]int, len(kept)),
		IDF:        make([]float64, len(kept)),
		Rows:       make([]sparseVec, len(texts)),
		MaxDocFreq: maxDocFreq,
	}
	for i, term := range kept {
		m.Vocabulary[term] = i
		m.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	for i, terms := range docTerms {
		m.Rows[i] = m.vectorize(terms)
	}
	return m, nil
}

// score returns the cosine similarity between the query vector and every
// chunk row, in row order. Rows and the query vector are L2-normalized,
// so cosine reduces to a sparse dot product.
func (m *lexicalModel) score(query string) []float64 {
	out := make([]float64, len(m.Rows))
	qv := m.vectorize(ngramTerms(query))
	if len(qv.Indices) == 0 {
		return out
	}
	for i, row := range m.Rows {
		out[i] = sparseDot(qv, row)
	}
	return out
}

// vectorize maps terms into the fitted vocabulary with sublinear TF
// scaling and IDF weighting, then L2-normalizes.
func (m *lexicalModel) vectorize(terms []string) sparseVec {
	tf := make(map[int]int)
	for _, term := range terms {
		if idx, ok := m.Vocabulary[term]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return sparseVec{}
	}

	indices := make([]int, 0, len(tf))
	for idx := range tf {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	var norm float64
	for i, idx := range indices {
		v := (1 + math.Log(float64(tf[idx]))) * m.IDF[idx]
		values[i] = v
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range values {
			values[i] /= norm
		}
	}
	return sparseVec{Indices: indices, Values: values}
}

func sparseDot(a, b sparseVec) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// ngramTerms tokenizes text into lowercase alphanumeric words, drops stop
// words, and emits unigrams plus adjacent bigrams.
func ngramTerms(text string) []string {
	words := tokenize(text)
	if len(words) == 0 {
		return nil
	}
	terms := make([]string, 0, 2*len(words))
	terms = append(terms, words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}

func tokenize(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, 24)
	var b strings.Builder
	flush := func() {
		if b.Len() == 0 {
			return
		}
		word := b.String()
		b.Reset()
		if _, stop := stopwords[word]; stop {
			return
		}
		out = append(out, word)
	}
	for _, r := range s {
		r = unicode.ToLower(r)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return out
}
