package sentiment

import (
	"strings"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
)

// WordListScorer sums integer word valences in [-5, 5]. It has no notion of
// context, so the result grows with text length.
type WordListScorer struct {
	lexicon map[string]float64
}

var defaultWordList = func() *WordListScorer {
	table := mustLoadTable("wordlist.tsv", 1)
	lex := make(map[string]float64, len(table))
	for w, v := range table {
		lex[w] = v[0]
	}
	return &WordListScorer{lexicon: lex}
}()

func DefaultLexiconScorer() *WordListScorer { return defaultWordList }

func (s *WordListScorer) Score(text string) domain.LexiconScore {
	var total float64
	for _, word := range tokens(text) {
		total += s.lexicon[strings.ToLower(word)]
	}
	return domain.LexiconScore{Score: total}
}
