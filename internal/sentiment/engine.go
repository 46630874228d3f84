package sentiment

import (
	"strings"
	"time"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/adapter/metrics"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
)

const (
	valenceWeight  = 0.4
	polarityWeight = 0.3
	lexiconWeight  = 0.3

	// lexiconScale maps a lexicon sum onto [-1, 1] before clamping.
	lexiconScale = 5.0

	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// ScorerFunc adapts a plain function to domain.Scorer.
type ScorerFunc[T any] func(text string) T

func (f ScorerFunc[T]) Score(text string) T { return f(text) }

// Engine is stateless apart from its scorers and safe for concurrent use.
type Engine struct {
	valence  domain.Scorer[domain.ValenceScore]
	polarity domain.Scorer[domain.PolarityScore]
	lexicon  domain.Scorer[domain.LexiconScore]
	metrics  *metrics.SentimentMetrics
}

// NewEngine builds an engine on the embedded lexicons. m may be nil.
func NewEngine(m *metrics.SentimentMetrics) *Engine {
	return NewEngineWith(DefaultValenceScorer(), DefaultPolarityScorer(), DefaultLexiconScorer(), m)
}

func NewEngineWith(
	valence domain.Scorer[domain.ValenceScore],
	polarity domain.Scorer[domain.PolarityScore],
	lexicon domain.Scorer[domain.LexiconScore],
	m *metrics.SentimentMetrics,
) *Engine {
	return &Engine{valence: valence, polarity: polarity, lexicon: lexicon, metrics: m}
}

// Analyze scores text. Empty or whitespace-only text yields the neutral zero
// verdict without consulting any scorer.
func (e *Engine) Analyze(text string) domain.SentimentVerdict {
	if strings.TrimSpace(text) == "" {
		e.record(domain.SentimentNeutral, 0)
		return domain.NeutralVerdict()
	}

	start := time.Now()
	v := e.valence.Score(text)
	p := e.polarity.Score(text)
	l := e.lexicon.Score(text)

	fused := Fuse(v, p, l)
	verdict := domain.SentimentVerdict{
		Category: Categorize(fused),
		Valence:  v,
		Polarity: p,
		Lexicon:  l,
		Fused:    fused,
	}
	e.record(verdict.Category, time.Since(start))
	return verdict
}

// AttachSentiment scores every article's headline and summary.
func (e *Engine) AttachSentiment(raw []domain.RawNewsItem) []domain.NewsItem {
	items := make([]domain.NewsItem, 0, len(raw))
	for _, r := range raw {
		items = append(items, domain.NewsItem{RawNewsItem: r, Sentiment: e.Analyze(r.SentimentText())})
	}
	return items
}

func (e *Engine) record(category domain.SentimentCategory, d time.Duration) {
	if e.metrics == nil {
		return
	}
	e.metrics.Verdicts.WithLabelValues(string(category)).Inc()
	if d > 0 {
		e.metrics.Duration.Observe(d.Seconds())
	}
}

// Fuse combines the three sub-results into one score in [-1, 1].
func Fuse(v domain.ValenceScore, p domain.PolarityScore, l domain.LexiconScore) float64 {
	scaled := clamp(l.Score/lexiconScale, -1, 1)
	return valenceWeight*v.Compound + polarityWeight*p.Polarity + lexiconWeight*scaled
}

// Categorize labels a fused score. Both thresholds are exclusive.
func Categorize(fused float64) domain.SentimentCategory {
	switch {
	case fused > positiveThreshold:
		return domain.SentimentPositive
	case fused < negativeThreshold:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func clamp(x, lo, hi float64) float64 {
	return max(lo, min(hi, x))
}
