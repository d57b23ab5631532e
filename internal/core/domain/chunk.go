package domain

// Chunk is one indexed passage of corpus text. Chunks are created once at
// corpus-build time and never mutated; their slice order is the row order
// shared by every scoring model.
type Chunk struct {
	ChunkID string `json:"chunk_id"`
	DocID   string `json:"doc_id"`
	Source  string `json:"source"`
	Text    string `json:"text"`
}

// RetrievalResult pairs a fused relevance score with the chunk it belongs
// to. Results are ephemeral, produced per query.
type RetrievalResult struct {
	Score float64 `json:"score"`
	Chunk Chunk   `json:"chunk"`
}

// Passage is the normalized result shape handed to the answer generator.
// Score is nil when the producing backend did not report one.
type Passage struct {
	Source string   `json:"source"`
	Text   string   `json:"text"`
	Score  *float64 `json:"score,omitempty"`
}

type AnswerMode string

const (
	ModeNormal   AnswerMode = "normal"
	ModeSummary  AnswerMode = "summary"
	ModeQuiz     AnswerMode = "quiz"
	ModeELI5     AnswerMode = "eli5"
	ModeDrafting AnswerMode = "drafting"
)

// ParseAnswerMode maps free-form user input to a known mode, falling back
// to ModeNormal.
func ParseAnswerMode(s string) AnswerMode {
	switch AnswerMode(s) {
	case ModeSummary, ModeQuiz, ModeELI5, ModeDrafting:
		return AnswerMode(s)
	default:
		return ModeNormal
	}
}

type Answer struct {
	Text     string    `json:"text"`
	Grounded bool      `json:"grounded"`
	Sources  []Passage `json:"sources"`
}
