package analysis

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypewatch/pkg/errors"
)

// stubTone implements ToneClassifier for testing
type stubTone struct {
	scores []ToneScore
	err    error
}

func (s *stubTone) Scores(texts []string) ([]ToneScore, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.scores, nil
}

func TestAggregator_LexicalPolarityRange(t *testing.T) {
	agg := NewAggregator(nil)

	for _, text := range []string{
		"This is great and awesome!",
		"Terrible losses, everything is awful",
		"The meeting is on Tuesday",
		"",
	} {
		score := agg.LexicalPolarity(text)
		assert.GreaterOrEqual(t, score, -1.0, "text: %q", text)
		assert.LessOrEqual(t, score, 1.0, "text: %q", text)
	}
}

func TestAggregator_LexicalPolaritySigns(t *testing.T) {
	agg := NewAggregator(nil)

	assert.Greater(t, agg.LexicalPolarity("This is great and awesome!"), 0.0)
	assert.Less(t, agg.LexicalPolarity("This is horrible and disgusting."), 0.0)
}

func TestAggregator_DomainPolarityDisabled(t *testing.T) {
	agg := NewAggregator(nil)

	out := agg.DomainPolarity([]string{"stocks up", "stocks down"})
	require.Len(t, out, 2)
	assert.Equal(t, []float64{0, 0}, out)
	assert.True(t, agg.Degraded())
}

func TestAggregator_DomainPolarityLoadFailureOnce(t *testing.T) {
	loads := 0
	agg := NewAggregator(func() (ToneClassifier, error) {
		loads++
		return nil, errors.ErrClassifierUnavailable
	})

	first := agg.DomainPolarity([]string{"a", "b"})
	second := agg.DomainPolarity([]string{"c"})

	assert.Equal(t, []float64{0, 0}, first)
	assert.Equal(t, []float64{0}, second)
	assert.Equal(t, 1, loads, "failed load must not be retried")
	assert.True(t, agg.Degraded())
}

func TestAggregator_DomainPolarityScores(t *testing.T) {
	tone := &stubTone{scores: []ToneScore{
		{Positive: 0.8, Negative: 0.1, Neutral: 0.1},
		{Positive: 0.2, Negative: 0.7, Neutral: 0.1},
	}}
	agg := NewAggregator(func() (ToneClassifier, error) { return tone, nil })

	out := agg.DomainPolarity([]string{"beat earnings", "missed estimates"})
	require.Len(t, out, 2)
	assert.InDelta(t, 0.7, out[0], 1e-9)
	assert.InDelta(t, -0.5, out[1], 1e-9)
	assert.False(t, agg.Degraded())
}

func TestAggregator_DomainPolarityEmptyCorpus(t *testing.T) {
	loads := 0
	agg := NewAggregator(func() (ToneClassifier, error) {
		loads++
		return &stubTone{}, nil
	})

	out := agg.DomainPolarity(nil)
	assert.Empty(t, out)
	assert.Equal(t, 0, loads, "empty corpus must not trigger a load")
}

func TestAggregator_DomainPolarityScoringError(t *testing.T) {
	tone := &stubTone{err: errors.ErrUnavailable}
	agg := NewAggregator(func() (ToneClassifier, error) { return tone, nil })

	out := agg.DomainPolarity([]string{"a", "b", "c"})
	assert.Equal(t, []float64{0, 0, 0}, out)
}

func TestAggregator_ConcurrentFirstUseAndDegraded(t *testing.T) {
	tone := &stubTone{scores: []ToneScore{{Positive: 0.6, Negative: 0.2, Neutral: 0.2}}}
	agg := NewAggregator(func() (ToneClassifier, error) { return tone, nil })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			agg.DomainPolarity([]string{"earnings beat"})
		}()
		go func() {
			defer wg.Done()
			agg.Degraded()
		}()
	}
	wg.Wait()

	assert.False(t, agg.Degraded())
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Mean([]float64{}))
	assert.InDelta(t, 0.5, Mean([]float64{0.25, 0.75}), 1e-9)
	assert.InDelta(t, -0.2, Mean([]float64{-0.6, 0.2}), 1e-9)
}
