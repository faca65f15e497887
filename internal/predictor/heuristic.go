package predictor

import (
	"math"

	"hypewatch/internal/domain/signal"
)

// Signal weights for the blended score
const (
	memeWeight      = 0.5
	socialWeight    = 0.3
	financialWeight = 0.2
)

// Hand-tuned cutoffs and multipliers. None of these derive from a fitted
// model; they are behavioral constants and should not be "corrected".
const (
	evidenceEpsilon = 0.001

	// Thresholds tighten when fewer signals carry evidence
	sparseUpThreshold = 0.1
	normalUpThreshold = 0.2
	sparseConfScale   = 0.70
	partialConfScale  = 0.85
	maxConfidence     = 0.95
	heavyVolume       = 10_000_000
	elevatedVolume    = 1_000_000
	heavyVolumeBoost  = 0.05
	elevatedVolBoost  = 0.02
)

// Predict converts a feature vector into a direction, confidence and
// score. Pure and deterministic: identical vectors always yield identical
// predictions, and no finite input can make it fail.
func Predict(features signal.FeatureVector) signal.Prediction {
	score := memeWeight*features.MemeIntensity +
		socialWeight*features.SocialSentiment +
		financialWeight*features.FinancialSentiment

	// Count signals with non-negligible evidence. Meme intensity is
	// non-negative so it compares directly.
	dataSources := 0
	if features.MemeIntensity > evidenceEpsilon {
		dataSources++
	}
	if math.Abs(features.SocialSentiment) > evidenceEpsilon {
		dataSources++
	}
	if math.Abs(features.FinancialSentiment) > evidenceEpsilon {
		dataSources++
	}

	thresholds := signal.Thresholds{Up: normalUpThreshold, Down: -normalUpThreshold}
	if dataSources <= 1 {
		// Thin evidence: react to smaller swings
		thresholds = signal.Thresholds{Up: sparseUpThreshold, Down: -sparseUpThreshold}
	}

	// Volume boost only amplifies an already-positive score; it never
	// drags a negative or zero score upward.
	if score > 0 {
		switch {
		case features.Volume > heavyVolume:
			score += heavyVolumeBoost
		case features.Volume > elevatedVolume:
			score += elevatedVolBoost
		}
	}

	// Strict comparators: a score exactly on a threshold stays flat
	direction := signal.DirectionFlat
	switch {
	case score > thresholds.Up:
		direction = signal.DirectionUp
	case score < thresholds.Down:
		direction = signal.DirectionDown
	}

	confidence := math.Min(maxConfidence, math.Abs(score))
	switch {
	case dataSources <= 1:
		confidence *= sparseConfScale
	case dataSources == 2:
		confidence *= partialConfScale
	}

	return signal.Prediction{
		Direction:      direction,
		Confidence:     round3(confidence),
		Score:          round4(score),
		Emoji:          direction.Emoji(),
		DataSources:    dataSources,
		ThresholdsUsed: thresholds,
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
