package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Pipeline metrics
	Predictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hypewatch_predictions_total",
			Help: "Total number of predictions produced",
		},
		[]string{"direction"},
	)

	PipelineDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hypewatch_pipeline_duration_seconds",
			Help:    "End-to-end analysis pipeline duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// Data source metrics
	SourceFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hypewatch_source_fetches_total",
			Help: "Total number of upstream data source fetches",
		},
		[]string{"source", "status"}, // status: success|error|cached
	)

	// Sentiment metrics
	ClassifierDegraded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hypewatch_classifier_degraded",
			Help: "1 when the financial-tone classifier is unavailable and domain sentiment is neutral",
		},
	)

	// Conversation metrics
	Queries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hypewatch_queries_total",
			Help: "Total number of handled conversation queries",
		},
		[]string{"kind"}, // kind: analysis|feedback|help|no_ticker
	)
)

func init() {
	prometheus.MustRegister(
		Predictions,
		PipelineDuration,
		SourceFetches,
		ClassifierDegraded,
		Queries,
	)
}

// Handler returns the HTTP handler for the metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
