package domain

// SentimentCategory is the coarse label derived from the fused score.
type SentimentCategory string

const (
	SentimentPositive SentimentCategory = "positive"
	SentimentNeutral  SentimentCategory = "neutral"
	SentimentNegative SentimentCategory = "negative"
)

// ValenceScore is the output of the rule-based valence scorer.
type ValenceScore struct {
	Compound float64 `json:"compound"`
	Positive float64 `json:"pos"`
	Neutral  float64 `json:"neu"`
	Negative float64 `json:"neg"`
}

// PolarityScore is the output of the adjective-lexicon polarity scorer.
type PolarityScore struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

// LexiconScore is the output of the word-list scorer; Score is unbounded.
type LexiconScore struct {
	Score float64 `json:"score"`
}

// SentimentVerdict carries the three raw sub-results and the fused scalar.
// JSON keys follow the dashboard's established schema.
type SentimentVerdict struct {
	Category SentimentCategory `json:"category"`
	Valence  ValenceScore      `json:"vader"`
	Polarity PolarityScore     `json:"textblob"`
	Lexicon  LexiconScore      `json:"afinn"`
	Fused    float64           `json:"custom_score"`
}

// NeutralVerdict is the zero verdict used for empty text.
func NeutralVerdict() SentimentVerdict {
	return SentimentVerdict{Category: SentimentNeutral}
}

// Scorer scores a span of text into a standardized result.
type Scorer[T any] interface {
	Score(text string) T
}
