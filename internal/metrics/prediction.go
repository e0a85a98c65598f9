package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name:      "predictions_total",
		Namespace: OccupancyNamespace,
		Help:      "The total number of occupancy predictions served, by label.",
	}, []string{"label"})

	PredictionLatencySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:      "prediction_latency_seconds",
		Namespace: OccupancyNamespace,
		Buckets:   prometheus.DefBuckets,
		Help:      "The latency of pipeline transform plus classification in seconds.",
	})

	IngestMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name:      "ingest_messages_total",
		Namespace: OccupancyNamespace,
		Help:      "The total number of streamed readings consumed, by result.",
	}, []string{"result"})
)
