package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Headlines with reference scores from VADER and AFINN-165.
var headlines = []struct {
	text     string
	compound float64
	wordList float64
}{
	{"Investors sad as shares tumble after dismal outlook", -0.7096, -3},
	{"Shares sink amid grim guidance and layoffs", -0.3612, -1},
	{"Stock soars on blockbuster earnings, investors thrilled", 0.7783, 8},
	{"Company faces bleak future after disastrous quarter", -0.5994, -3},
}

func TestLexiconsLoad(t *testing.T) {
	for _, tt := range []struct {
		file string
		cols int
		min  int
	}{
		{"polarity.tsv", 3, 90},
		{"wordlist.tsv", 1, 2000},
	} {
		table, err := loadTable(tt.file, tt.cols)
		require.NoError(t, err, tt.file)
		assert.GreaterOrEqual(t, len(table), tt.min, tt.file)
	}

	_, err := loadTable("missing.tsv", 1)
	assert.Error(t, err)
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"Apple's", "stock", "ROSE", "sell-off"}, tokens(`"Apple's" stock ROSE!! (sell-off)`))
	assert.Empty(t, tokens(" ... !! "))
}

func TestValenceScorer_ReferenceSentences(t *testing.T) {
	s := DefaultValenceScorer()

	good := s.Score("The book was good.")
	assert.InDelta(t, 0.4404, good.Compound, 5e-4)
	assert.InDelta(t, 0.492, good.Positive, 5e-4)
	assert.InDelta(t, 0.508, good.Neutral, 5e-4)
	assert.Zero(t, good.Negative)

	assert.InDelta(t, -0.7424, s.Score("VADER is not smart, handsome, nor funny.").Compound, 5e-4)
	assert.InDelta(t, 0.431, s.Score("Not bad at all").Compound, 5e-4)
	assert.InDelta(t, -0.7042, s.Score("The plot was good, but the characters are uncompelling and the dialog is not great.").Compound, 5e-4)
}

func TestValenceScorer_Headlines(t *testing.T) {
	s := DefaultValenceScorer()

	for _, h := range headlines {
		t.Run(h.text, func(t *testing.T) {
			got := s.Score(h.text)
			assert.InDelta(t, h.compound, got.Compound, 5e-4)
			assert.InDelta(t, 1.0, got.Positive+got.Neutral+got.Negative, 0.002)
		})
	}
}

func TestValenceScorer_NoSentimentWords(t *testing.T) {
	got := DefaultValenceScorer().Score("the meeting is on tuesday")

	assert.Zero(t, got.Compound)
	assert.Equal(t, 1.0, got.Neutral)
}

func TestNewValenceScorer_ExtendsLexicon(t *testing.T) {
	s := NewValenceScorer(map[string]float64{"Moonshot": 3})

	assert.Positive(t, s.Score("a moonshot quarter").Compound)
	assert.Zero(t, DefaultValenceScorer().Score("a moonshot quarter").Compound)
}

func TestPolarityScorer(t *testing.T) {
	s := DefaultPolarityScorer()

	good := s.Score("a good quarter")
	assert.InDelta(t, 0.7, good.Polarity, 1e-9)
	assert.InDelta(t, 0.6, good.Subjectivity, 1e-9)

	veryGood := s.Score("a very good quarter")
	assert.InDelta(t, 0.91, veryGood.Polarity, 1e-9)

	notGood := s.Score("not good")
	assert.InDelta(t, -0.35, notGood.Polarity, 1e-9)

	mixed := s.Score("strong demand but weak margins")
	assert.InDelta(t, (0.433-0.375)/2, mixed.Polarity, 1e-9)

	sad := s.Score("a sad day for investors")
	assert.InDelta(t, -0.5, sad.Polarity, 1e-9)
	assert.InDelta(t, 1.0, sad.Subjectivity, 1e-9)

	assert.Equal(t, 0.0, s.Score("nothing to assess here").Polarity)
}

func TestWordListScorer(t *testing.T) {
	s := DefaultLexiconScorer()

	assert.Equal(t, 3.0, s.Score("Good").Score)
	assert.Equal(t, 6.0, s.Score("good, good").Score)
	assert.Equal(t, -1.0, s.Score("strong losses").Score)
	assert.Equal(t, 0.0, s.Score("").Score)
}

func TestWordListScorer_Headlines(t *testing.T) {
	s := DefaultLexiconScorer()

	for _, h := range headlines {
		t.Run(h.text, func(t *testing.T) {
			assert.Equal(t, h.wordList, s.Score(h.text).Score)
		})
	}
}
