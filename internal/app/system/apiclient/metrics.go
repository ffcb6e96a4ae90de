package apiclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubdesk_backend_requests_total",
			Help: "Backend REST calls by resource, method and status.",
		},
		[]string{"resource", "method", "status"},
	)

	backendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clubdesk_backend_request_duration_seconds",
			Help:    "Backend REST call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource", "method"},
	)
)

func observe(resource, method, status string, elapsed time.Duration) {
	backendRequestsTotal.WithLabelValues(resource, method, status).Inc()
	backendRequestDuration.WithLabelValues(resource, method).Observe(elapsed.Seconds())
}
