package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hypewatch/internal/domain/signal"
)

func TestPredict_DirectionUp(t *testing.T) {
	pred := Predict(signal.FeatureVector{
		MemeIntensity:      0.6,
		SocialSentiment:    0.4,
		FinancialSentiment: 0.2,
	})

	assert.Equal(t, signal.DirectionUp, pred.Direction)
	assert.InDelta(t, 0.46, pred.Score, 1e-9)
	assert.InDelta(t, 0.46, pred.Confidence, 1e-9)
	assert.Equal(t, 3, pred.DataSources)
	assert.Equal(t, signal.Thresholds{Up: 0.2, Down: -0.2}, pred.ThresholdsUsed)
	assert.Equal(t, "🚀", pred.Emoji)
}

func TestPredict_DirectionFlat(t *testing.T) {
	pred := Predict(signal.FeatureVector{})

	assert.Equal(t, signal.DirectionFlat, pred.Direction)
	assert.Equal(t, 0.0, pred.Score)
	assert.Equal(t, 0.0, pred.Confidence)
	assert.Equal(t, 0, pred.DataSources)
	assert.Equal(t, signal.Thresholds{Up: 0.1, Down: -0.1}, pred.ThresholdsUsed)
	assert.Equal(t, "🤷", pred.Emoji)
}

func TestPredict_DirectionDown(t *testing.T) {
	pred := Predict(signal.FeatureVector{
		MemeIntensity:      -0.7,
		SocialSentiment:    -0.5,
		FinancialSentiment: -0.3,
	})

	assert.Equal(t, signal.DirectionDown, pred.Direction)
	assert.InDelta(t, -0.56, pred.Score, 1e-9)
	assert.Equal(t, "🪦", pred.Emoji)
}

func TestPredict_ThresholdEqualityStaysFlat(t *testing.T) {
	// 0.5*0.2 is exactly 0.1 in float64, landing on the sparse up
	// threshold. Equality must classify as flat.
	pred := Predict(signal.FeatureVector{MemeIntensity: 0.2})

	assert.Equal(t, 1, pred.DataSources)
	assert.Equal(t, signal.Thresholds{Up: 0.1, Down: -0.1}, pred.ThresholdsUsed)
	assert.Equal(t, signal.DirectionFlat, pred.Direction)
}

func TestPredict_SparseThresholdMoreSensitive(t *testing.T) {
	// Score 0.105 is above the sparse threshold but below the normal one
	pred := Predict(signal.FeatureVector{MemeIntensity: 0.21})

	assert.Equal(t, 1, pred.DataSources)
	assert.Equal(t, signal.DirectionUp, pred.Direction)
	// 0.105*0.70 = 0.0735, rounded to 3 decimals
	assert.InDelta(t, 0.074, pred.Confidence, 1e-9)
}

func TestPredict_VolumeBoost(t *testing.T) {
	base := signal.FeatureVector{
		MemeIntensity:      0.6,
		SocialSentiment:    0.4,
		FinancialSentiment: 0.2,
	}

	heavy := base
	heavy.Volume = 20_000_000
	assert.InDelta(t, 0.51, Predict(heavy).Score, 1e-9)

	elevated := base
	elevated.Volume = 2_000_000
	assert.InDelta(t, 0.48, Predict(elevated).Score, 1e-9)

	quiet := base
	quiet.Volume = 500_000
	assert.InDelta(t, 0.46, Predict(quiet).Score, 1e-9)
}

func TestPredict_NoBoostOnNonPositiveScore(t *testing.T) {
	negative := signal.FeatureVector{
		MemeIntensity:      -0.7,
		SocialSentiment:    -0.5,
		FinancialSentiment: -0.3,
		Volume:             20_000_000,
	}
	assert.InDelta(t, -0.56, Predict(negative).Score, 1e-9)

	zero := signal.FeatureVector{Volume: 20_000_000}
	pred := Predict(zero)
	assert.Equal(t, 0.0, pred.Score)
	assert.Equal(t, signal.DirectionFlat, pred.Direction)
}

func TestPredict_ConfidenceCapped(t *testing.T) {
	pred := Predict(signal.FeatureVector{
		MemeIntensity:      1.0,
		SocialSentiment:    1.0,
		FinancialSentiment: 1.0,
	})

	assert.Equal(t, 0.95, pred.Confidence)
	assert.Equal(t, signal.DirectionUp, pred.Direction)
}

func TestPredict_ConfidenceScaledByDataQuality(t *testing.T) {
	two := Predict(signal.FeatureVector{
		MemeIntensity:   0.3,
		SocialSentiment: 0.4,
	})
	assert.Equal(t, 2, two.DataSources)
	// 0.27*0.85 = 0.2295, rounded to 3 decimals
	assert.InDelta(t, 0.23, two.Confidence, 1e-9)

	three := Predict(signal.FeatureVector{
		MemeIntensity:      0.3,
		SocialSentiment:    0.4,
		FinancialSentiment: 0.2,
	})
	assert.Equal(t, 3, three.DataSources)
	assert.InDelta(t, 0.31, three.Confidence, 0.0005)
}

func TestPredict_ConfidenceRange(t *testing.T) {
	vectors := []signal.FeatureVector{
		{},
		{MemeIntensity: 1, SocialSentiment: 1, FinancialSentiment: 1, Volume: 50_000_000},
		{MemeIntensity: -1, SocialSentiment: -1, FinancialSentiment: -1},
		{SocialSentiment: 0.0005},
		{MemeIntensity: 0.5, SocialSentiment: -0.9, FinancialSentiment: 0.1},
	}

	for _, fv := range vectors {
		pred := Predict(fv)
		assert.GreaterOrEqual(t, pred.Confidence, 0.0, "vector %+v", fv)
		assert.LessOrEqual(t, pred.Confidence, 0.95, "vector %+v", fv)
		assert.True(t, pred.Direction.Valid())
		assert.GreaterOrEqual(t, pred.DataSources, 0)
		assert.LessOrEqual(t, pred.DataSources, 3)
	}
}

func TestPredict_Deterministic(t *testing.T) {
	fv := signal.FeatureVector{
		MemeIntensity:      0.42,
		SocialSentiment:    -0.13,
		FinancialSentiment: 0.07,
		Price:              250.5,
		Volume:             3_000_000,
	}

	assert.Equal(t, Predict(fv), Predict(fv))
}
