package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resultados posibles de una generación de roadmap.
const (
	ResultOK         = "ok"
	ResultCacheHit   = "cache_hit"
	ResultLLMError   = "llm_error"
	ResultParseError = "parse_error"
	ResultEmpty      = "empty"
	ResultStoreError = "store_error"
)

var (
	RoadmapGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadmap_generations_total",
			Help: "Total number of roadmap generation attempts by result",
		},
		[]string{"result"},
	)

	RoadmapGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roadmap_generation_duration_seconds",
			Help:    "Duration of roadmap generation in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"result"},
	)

	RoadmapTopics = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roadmap_topics",
			Help:    "Number of topics per generated roadmap",
			Buckets: prometheus.LinearBuckets(2, 4, 8),
		},
	)

	TopicSourcesFound = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roadmap_topic_sources_found_total",
			Help: "Total number of sources attached to roadmap topics",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadmap_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)
)
