package sentiment

import (
	"strings"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
)

const negatedPolarity = -0.5

type polarityEntry struct {
	polarity     float64
	subjectivity float64
	intensity    float64
}

// modifier reports whether the entry only scales the word after it.
func (e polarityEntry) modifier() bool {
	return e.polarity == 0 && e.intensity != 1
}

// PolarityScorer averages adjective polarity and subjectivity. Intensifiers
// scale the next assessed word; a preceding negation flips and halves it.
type PolarityScorer struct {
	lexicon map[string]polarityEntry
}

var defaultPolarity = func() *PolarityScorer {
	table := mustLoadTable("polarity.tsv", 3)
	lex := make(map[string]polarityEntry, len(table))
	for w, v := range table {
		lex[w] = polarityEntry{polarity: v[0], subjectivity: v[1], intensity: v[2]}
	}
	return &PolarityScorer{lexicon: lex}
}()

func DefaultPolarityScorer() *PolarityScorer { return defaultPolarity }

func (s *PolarityScorer) Score(text string) domain.PolarityScore {
	var sumP, sumS float64
	assessed := 0
	intensity := 1.0
	negated := false

	for _, word := range tokens(text) {
		lower := strings.ToLower(word)
		if isNegation(lower) {
			negated = true
			continue
		}
		entry, ok := s.lexicon[lower]
		if !ok {
			// Unknown words break a modifier chain but not a negation.
			intensity = 1.0
			continue
		}
		if entry.modifier() {
			intensity *= entry.intensity
			continue
		}

		p := entry.polarity * intensity
		sub := entry.subjectivity * intensity
		if negated {
			p *= negatedPolarity
		}
		sumP += p
		sumS += sub
		assessed++
		intensity = 1.0
		negated = false
	}

	if assessed == 0 {
		return domain.PolarityScore{}
	}
	n := float64(assessed)
	return domain.PolarityScore{
		Polarity:     clamp(sumP/n, -1, 1),
		Subjectivity: clamp(sumS/n, 0, 1),
	}
}
