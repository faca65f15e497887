package analysis

import (
	"sync"

	"github.com/jonreiter/govader"

	"hypewatch/pkg/logger"
)

// ToneScore is a per-text class probability triple from the
// financial-tone classifier.
type ToneScore struct {
	Positive float64
	Negative float64
	Neutral  float64
}

// ToneClassifier scores financial texts. Implementations are expected to
// be safe for concurrent read-only use once constructed.
type ToneClassifier interface {
	Scores(texts []string) ([]ToneScore, error)
}

// ToneLoader constructs the financial-tone classifier. Loading is
// expensive (ONNX session + tokenizer), so the Aggregator defers it to
// first use and performs it at most once.
type ToneLoader func() (ToneClassifier, error)

// Aggregator computes lexical and financial sentiment over text corpora.
// Lexical polarity is a pure rule-based VADER score. Financial polarity
// comes from an optional classifier behind a one-time lazy load: if the
// loader is absent or fails, every domain-polarity call degrades to
// neutral 0.0 without retrying.
type Aggregator struct {
	vader    *govader.SentimentIntensityAnalyzer
	loadTone ToneLoader

	once sync.Once
	mu   sync.RWMutex
	tone ToneClassifier

	log *logger.Logger
}

// NewAggregator creates a sentiment aggregator. loadTone may be nil,
// which disables financial sentiment entirely.
func NewAggregator(loadTone ToneLoader) *Aggregator {
	return &Aggregator{
		vader:    govader.NewSentimentIntensityAnalyzer(),
		loadTone: loadTone,
		log:      logger.Get().With("component", "sentiment"),
	}
}

// LexicalPolarity returns the VADER compound score for a text, in [-1, 1].
// Deterministic and stateless.
func (a *Aggregator) LexicalPolarity(text string) float64 {
	return a.vader.PolarityScores(text).Compound
}

// DomainPolarity returns one positive-minus-negative score per input
// text, same order. Degraded mode (classifier disabled or failed to
// load) yields all zeros; that is a notice, not an error.
func (a *Aggregator) DomainPolarity(texts []string) []float64 {
	out := make([]float64, len(texts))
	if len(texts) == 0 {
		return out
	}

	a.once.Do(func() {
		if a.loadTone == nil {
			a.log.Info("financial-tone classifier disabled, domain sentiment will be neutral")
			return
		}
		tone, err := a.loadTone()
		if err != nil {
			a.log.Warnf("financial-tone classifier load failed, degrading to neutral: %v", err)
			return
		}
		a.mu.Lock()
		a.tone = tone
		a.mu.Unlock()
		a.log.Info("financial-tone classifier loaded")
	})

	tone := a.classifier()
	if tone == nil {
		return out
	}

	scores, err := tone.Scores(texts)
	if err != nil || len(scores) != len(texts) {
		a.log.Warnf("financial-tone scoring failed, returning neutral: %v", err)
		return out
	}
	for i, s := range scores {
		out[i] = s.Positive - s.Negative
	}
	return out
}

// Degraded reports whether domain sentiment is running in neutral
// fallback mode. Safe to call concurrently with a first DomainPolarity
// call; meaningful only once that call has happened.
func (a *Aggregator) Degraded() bool {
	return a.classifier() == nil
}

func (a *Aggregator) classifier() ToneClassifier {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tone
}

// Mean is the arithmetic mean of scores, 0.0 for an empty slice.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
