package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tasks",
		Subsystem: "grpc",
		Name:      "requests_total",
		Help:      "Count of handled gRPC requests",
	}, []string{"method", "code"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tasks",
		Subsystem: "grpc",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution of gRPC handlers",
		Buckets:   histogramBuckets,
	}, []string{"method", "code"})

	DispatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tasks",
		Subsystem: "notifications",
		Name:      "dispatches_total",
		Help:      "Outbound notification provider calls by kind and outcome",
	}, []string{"kind", "outcome"})

	RateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tasks",
		Subsystem: "gateway",
		Name:      "rate_limit_hits_total",
		Help:      "Number of rate-limited HTTP requests",
	}, []string{"method"})

	MessagesConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tasks",
		Subsystem: "worker",
		Name:      "messages_consumed_total",
		Help:      "Kafka messages handled by the notification worker by topic and outcome",
	}, []string{"topic", "outcome"})
)
