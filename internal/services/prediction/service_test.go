package prediction

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypewatch/internal/analysis"
	"hypewatch/internal/domain/market"
	"hypewatch/internal/domain/signal"
	"hypewatch/internal/domain/social"
	"hypewatch/pkg/errors"
)

// mockSource implements PostSource for testing
type mockSource struct {
	fetchFunc func(context.Context, string) ([]social.Post, error)
}

func (m *mockSource) FetchMentions(ctx context.Context, ticker string) ([]social.Post, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, ticker)
	}
	return nil, nil
}

// mockMarket implements MarketData for testing
type mockMarket struct {
	quoteFunc func(context.Context, string) (market.Quote, error)
}

func (m *mockMarket) Quote(ctx context.Context, symbol string) (market.Quote, error) {
	if m.quoteFunc != nil {
		return m.quoteFunc(ctx, symbol)
	}
	return market.Quote{}, nil
}

func newTestService(reddit, twitter PostSource, marketData MarketData) *Service {
	return NewService(
		reddit,
		twitter,
		marketData,
		analysis.NewAggregator(nil),
		nil, // no cache
		NewMessenger(rand.New(rand.NewSource(1))),
	)
}

func TestService_Analyze(t *testing.T) {
	reddit := &mockSource{fetchFunc: func(_ context.Context, ticker string) ([]social.Post, error) {
		assert.Equal(t, "GME", ticker)
		return []social.Post{
			{Source: "reddit", Title: "GME to the moon", SelfText: "diamond hands HODL, this is great"},
		}, nil
	}}
	twitter := &mockSource{fetchFunc: func(_ context.Context, ticker string) ([]social.Post, error) {
		return []social.Post{{Source: "twitter", Text: "GME YOLO, love it"}}, nil
	}}
	marketData := &mockMarket{quoteFunc: func(_ context.Context, symbol string) (market.Quote, error) {
		return market.Quote{Symbol: symbol, Price: 150.25, Volume: 20_000_000}, nil
	}}

	svc := newTestService(reddit, twitter, marketData)
	result, err := svc.Analyze(context.Background(), " gme ")
	require.NoError(t, err)

	assert.Equal(t, "GME", result.Ticker)
	assert.Greater(t, result.Features.MemeIntensity, 0.0)
	assert.Equal(t, 150.25, result.Features.Price)
	assert.Equal(t, int64(20_000_000), result.Features.Volume)
	assert.True(t, result.Prediction.Direction.Valid())
	assert.NotEmpty(t, result.Message)
	assert.Contains(t, result.Explanation, "Meme Intensity")
}

func TestService_SourceFailuresDegrade(t *testing.T) {
	failing := &mockSource{fetchFunc: func(context.Context, string) ([]social.Post, error) {
		return nil, errors.ErrUpstreamStatus
	}}
	failingMarket := &mockMarket{quoteFunc: func(context.Context, string) (market.Quote, error) {
		return market.Quote{}, errors.ErrTimeout
	}}

	svc := newTestService(failing, failing, failingMarket)
	result, err := svc.Analyze(context.Background(), "GME")
	require.NoError(t, err, "source failures must not fail the pipeline")

	assert.Equal(t, signal.FeatureVector{}, result.Features)
	assert.Equal(t, signal.DirectionFlat, result.Prediction.Direction)
	assert.Equal(t, 0.0, result.Prediction.Confidence)
	assert.Equal(t, 0, result.Prediction.DataSources)
}

func TestService_EmptyTicker(t *testing.T) {
	svc := newTestService(&mockSource{}, &mockSource{}, &mockMarket{})

	_, err := svc.Analyze(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestService_NilSources(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	result, err := svc.Analyze(context.Background(), "GME")
	require.NoError(t, err)
	assert.Equal(t, signal.DirectionFlat, result.Prediction.Direction)
}

func TestMessenger_DeterministicWithSeed(t *testing.T) {
	pred := signal.Prediction{Direction: signal.DirectionUp, Emoji: signal.DirectionUp.Emoji()}

	a := NewMessenger(rand.New(rand.NewSource(42))).Humor("GME", pred)
	b := NewMessenger(rand.New(rand.NewSource(42))).Humor("GME", pred)
	assert.Equal(t, a, b)
	assert.Contains(t, a, "up")
}

func TestExplanation(t *testing.T) {
	text := Explanation(signal.FeatureVector{
		MemeIntensity:      0.1234,
		SocialSentiment:    -0.5,
		FinancialSentiment: 0.25,
	})

	assert.Contains(t, text, "0.1234")
	assert.Contains(t, text, "-0.5000")
	assert.Contains(t, text, "0.2500")
	assert.Contains(t, text, "NOT financial advice")
}
