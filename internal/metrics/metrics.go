package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cropadvisor_predictions_total",
			Help: "Total prediction requests served",
		},
		[]string{"crop_known"},
	)

	UnknownLabelsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cropadvisor_unknown_labels_total",
			Help: "Classifier codes outside the label vocabulary",
		},
	)

	MarketLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cropadvisor_market_lookups_total",
			Help: "Market lookups by quote source",
		},
		[]string{"source"},
	)

	DatasetFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cropadvisor_dataset_fetches_total",
			Help: "Market dataset fetch attempts",
		},
		[]string{"transport", "status"},
	)

	DatasetFetchLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cropadvisor_dataset_fetch_latency_seconds",
			Help:    "Market dataset fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"transport"},
	)

	NarrativesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cropadvisor_narratives_generated_total",
			Help: "Advisory narratives generated or served from cache",
		},
		[]string{"source"},
	)
)
