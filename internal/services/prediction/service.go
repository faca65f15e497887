package prediction

import (
	"context"
	"strings"
	"time"

	"hypewatch/internal/analysis"
	"hypewatch/internal/domain/market"
	"hypewatch/internal/domain/signal"
	"hypewatch/internal/domain/social"
	"hypewatch/internal/metrics"
	"hypewatch/internal/predictor"
	"hypewatch/pkg/errors"
	"hypewatch/pkg/logger"
)

// PostSource fetches social posts mentioning a ticker
type PostSource interface {
	FetchMentions(ctx context.Context, ticker string) ([]social.Post, error)
}

// MarketData fetches a quote for a symbol
type MarketData interface {
	Quote(ctx context.Context, symbol string) (market.Quote, error)
}

// Service runs the per-ticker analysis pipeline: fetch chatter and a
// quote, build a feature vector, run the heuristic predictor and attach
// presentation text. Source failures degrade to empty inputs; the
// pipeline always produces a well-formed result.
type Service struct {
	reddit  PostSource
	twitter PostSource
	market  MarketData

	agg       *analysis.Aggregator
	builder   *analysis.Builder
	cache     *SourceCache
	messenger *Messenger
	log       *logger.Logger
}

// Analysis is the full pipeline output for one ticker query
type Analysis struct {
	Ticker      string               `json:"ticker"`
	Features    signal.FeatureVector `json:"features"`
	Prediction  signal.Prediction    `json:"prediction"`
	Message     string               `json:"message"`
	Explanation string               `json:"explanation"`
}

// NewService creates the prediction service. cache may be nil.
func NewService(
	reddit PostSource,
	twitter PostSource,
	marketData MarketData,
	agg *analysis.Aggregator,
	cache *SourceCache,
	messenger *Messenger,
) *Service {
	return &Service{
		reddit:    reddit,
		twitter:   twitter,
		market:    marketData,
		agg:       agg,
		builder:   analysis.NewBuilder(agg),
		cache:     cache,
		messenger: messenger,
		log:       logger.Get().With("component", "prediction_service"),
	}
}

// Analyze runs the full pipeline for one ticker
func (s *Service) Analyze(ctx context.Context, ticker string) (*Analysis, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty ticker")
	}

	start := time.Now()
	defer func() {
		metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	}()

	s.log.Infof("analysis run for ticker %s", ticker)

	redditPosts := s.fetchPosts(ctx, "reddit", ticker, s.reddit)
	tweets := s.fetchPosts(ctx, "twitter", ticker, s.twitter)
	quote := s.fetchQuote(ctx, ticker)

	features := s.builder.Build(ticker, redditPosts, tweets, quote)
	pred := predictor.Predict(features)

	metrics.Predictions.WithLabelValues(string(pred.Direction)).Inc()
	if s.agg.Degraded() {
		metrics.ClassifierDegraded.Set(1)
	} else {
		metrics.ClassifierDegraded.Set(0)
	}

	return &Analysis{
		Ticker:      ticker,
		Features:    features,
		Prediction:  pred,
		Message:     s.messenger.Humor(ticker, pred),
		Explanation: Explanation(features),
	}, nil
}

// fetchPosts pulls posts for one source through the cache. Any fetch
// error is logged and degrades to an empty slice.
func (s *Service) fetchPosts(ctx context.Context, source, ticker string, src PostSource) []social.Post {
	if src == nil {
		return nil
	}

	if posts, ok := s.cache.GetPosts(ctx, source, ticker); ok {
		metrics.SourceFetches.WithLabelValues(source, "cached").Inc()
		return posts
	}

	posts, err := src.FetchMentions(ctx, ticker)
	if err != nil {
		metrics.SourceFetches.WithLabelValues(source, "error").Inc()
		s.log.Warnf("%s fetch failed for %s, continuing without: %v", source, ticker, err)
		return nil
	}

	metrics.SourceFetches.WithLabelValues(source, "success").Inc()
	s.cache.SetPosts(ctx, source, ticker, posts)
	return posts
}

// fetchQuote pulls a quote through the cache, degrading to an empty
// quote on failure.
func (s *Service) fetchQuote(ctx context.Context, ticker string) market.Quote {
	if s.market == nil {
		return market.Quote{}
	}

	if quote, ok := s.cache.GetQuote(ctx, ticker); ok {
		metrics.SourceFetches.WithLabelValues("market", "cached").Inc()
		return quote
	}

	quote, err := s.market.Quote(ctx, ticker)
	if err != nil {
		metrics.SourceFetches.WithLabelValues("market", "error").Inc()
		s.log.Warnf("quote fetch failed for %s, continuing without: %v", ticker, err)
		return market.Quote{}
	}

	metrics.SourceFetches.WithLabelValues("market", "success").Inc()
	s.cache.SetQuote(ctx, ticker, quote)
	return quote
}
