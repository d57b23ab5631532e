package index

// english stop words excluded from the lexical vocabulary.
var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "being", "it", "its", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "again",
		"further", "than", "so", "such", "into", "about", "between",
		"through", "during", "before", "after", "above", "below", "out",
		"off", "own", "same", "too", "very", "can", "will", "just", "not",
		"no", "nor", "only", "both", "each", "few", "more", "most",
		"other", "some", "any", "all", "he", "she", "they", "them",
		"his", "her", "their", "there", "here", "when", "where", "why",
		"how", "what", "which", "who", "whom", "i", "you", "we", "me",
		"my", "your", "our", "us", "do", "does", "did", "have", "has",
		"had", "having", "would", "should", "could", "may", "might",
		"must", "shall", "am",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
