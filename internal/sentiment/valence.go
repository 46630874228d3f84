package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
)

// ValenceScorer implements domain.Scorer[domain.ValenceScore] with the VADER
// rule set and lexicon.
type ValenceScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// The analyzer only reads its lexicon after construction, so one instance is
// shared by every goroutine.
var defaultValence = &ValenceScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}

func DefaultValenceScorer() *ValenceScorer { return defaultValence }

// NewValenceScorer builds a scorer whose lexicon is VADER's with extra
// overriding or extending it. Keys are matched lower-cased.
func NewValenceScorer(extra map[string]float64) *ValenceScorer {
	analyzer := govader.NewSentimentIntensityAnalyzer()
	for word, valence := range extra {
		analyzer.Lexicon[strings.ToLower(word)] = valence
	}
	return &ValenceScorer{analyzer: analyzer}
}

func (s *ValenceScorer) Score(text string) domain.ValenceScore {
	r := s.analyzer.PolarityScores(text)
	return domain.ValenceScore{
		Compound: r.Compound,
		Positive: r.Positive,
		Neutral:  r.Neutral,
		Negative: r.Negative,
	}
}
