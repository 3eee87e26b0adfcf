package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ResponseTimeHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_time_seconds",
			Help:    "Histogram of response times",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CommissionDistributions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commission_distributions_total",
			Help: "Commission distribution attempts by result",
		},
		[]string{"result"},
	)

	CommissionPaidAmount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "commission_paid_amount_total",
			Help: "Net commission credited to owner income",
		},
	)

	StatsSubcountFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_stats_subcount_failures_total",
			Help: "Admin stats sub-counts that failed and were reported as zero",
		},
		[]string{"count"},
	)

	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Requests rejected by the login rate limiter",
		},
		[]string{"path"},
	)
)
