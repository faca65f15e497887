package analysis

import (
	"hypewatch/internal/domain/market"
	"hypewatch/internal/domain/signal"
	"hypewatch/internal/domain/social"
)

// Builder assembles the canonical feature vector from scorer outputs and
// a market quote. It holds no state beyond the aggregator it delegates
// sentiment scoring to; every Build returns a fresh vector.
type Builder struct {
	agg *Aggregator
}

// NewBuilder creates a feature vector builder
func NewBuilder(agg *Aggregator) *Builder {
	return &Builder{agg: agg}
}

// Build combines social posts and a quote into one feature vector.
// Missing upstream data degrades to zero-valued fields, never an error.
func (b *Builder) Build(ticker string, redditPosts, tweets []social.Post, quote market.Quote) signal.FeatureVector {
	all := make([]social.Post, 0, len(redditPosts)+len(tweets))
	all = append(all, redditPosts...)
	all = append(all, tweets...)

	corpus := make([]string, 0, len(all))
	for _, p := range all {
		corpus = append(corpus, p.SentimentText())
	}

	lexical := make([]float64, len(corpus))
	for i, text := range corpus {
		lexical[i] = b.agg.LexicalPolarity(text)
	}

	var domain []float64
	if len(corpus) > 0 {
		domain = b.agg.DomainPolarity(corpus)
	}

	return signal.FeatureVector{
		MemeIntensity:      MemeIntensity(all, ticker),
		SocialSentiment:    Mean(lexical),
		FinancialSentiment: Mean(domain),
		Price:              quote.Price,
		Volume:             quote.Volume,
	}
}
