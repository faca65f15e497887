package fintone

import (
	"math"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"

	"hypewatch/internal/analysis"
	"hypewatch/internal/ml"
	"hypewatch/pkg/errors"
)

// Class order of the financial-tone model outputs
const (
	classNeutral = iota
	classPositive
	classNegative
	numClasses
)

// Config contains the model artifacts for the classifier
type Config struct {
	ModelPath     string
	TokenizerPath string
	MaxSeqLen     int
}

// Classifier scores financial text tone with a BERT-style ONNX model.
// Construction is expensive; callers load it once and reuse it. Scoring
// is read-only and safe for concurrent use.
type Classifier struct {
	model     *ml.TextClassifier
	tk        *tokenizer.Tokenizer
	maxSeqLen int
}

// NewClassifier loads the tokenizer and ONNX session
func NewClassifier(cfg Config) (*Classifier, error) {
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = 256
	}

	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load tokenizer")
	}

	model, err := ml.LoadTextClassifier(cfg.ModelPath, numClasses)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load tone model")
	}

	return &Classifier{
		model:     model,
		tk:        tk,
		maxSeqLen: cfg.MaxSeqLen,
	}, nil
}

// Scores returns one probability triple per text, same order as input
func (c *Classifier) Scores(texts []string) ([]analysis.ToneScore, error) {
	out := make([]analysis.ToneScore, len(texts))
	for i, text := range texts {
		score, err := c.scoreOne(text)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to score text %d", i)
		}
		out[i] = score
	}
	return out, nil
}

func (c *Classifier) scoreOne(text string) (analysis.ToneScore, error) {
	en, err := c.tk.EncodeSingle(text, true)
	if err != nil {
		return analysis.ToneScore{}, errors.Wrap(err, "tokenization failed")
	}

	ids := en.Ids
	if len(ids) > c.maxSeqLen {
		ids = ids[:c.maxSeqLen]
	}
	if len(ids) == 0 {
		// Nothing to score, treat as fully neutral
		return analysis.ToneScore{Neutral: 1}, nil
	}

	inputIDs := make([]int64, len(ids))
	attentionMask := make([]int64, len(ids))
	for i, id := range ids {
		inputIDs[i] = int64(id)
		attentionMask[i] = 1
	}

	logits, err := c.model.Logits(inputIDs, attentionMask)
	if err != nil {
		return analysis.ToneScore{}, err
	}

	probs := softmax(logits)
	return analysis.ToneScore{
		Neutral:  probs[classNeutral],
		Positive: probs[classPositive],
		Negative: probs[classNegative],
	}, nil
}

// Close releases the ONNX session
func (c *Classifier) Close() {
	if c.model != nil {
		c.model.Destroy()
		c.model = nil
	}
}

func softmax(logits []float32) []float64 {
	out := make([]float64, len(logits))
	if len(logits) == 0 {
		return out
	}

	max := float64(logits[0])
	for _, l := range logits[1:] {
		if float64(l) > max {
			max = float64(l)
		}
	}

	sum := 0.0
	for i, l := range logits {
		out[i] = math.Exp(float64(l) - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
