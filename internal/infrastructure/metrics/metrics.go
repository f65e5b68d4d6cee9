package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for ChatRequests.
const (
	OutcomeSuccess        = "success"
	OutcomeInvalidRequest = "invalid_request"
	OutcomeCredential     = "credential_error"
	OutcomeRateLimit      = "rate_limit_error"
	OutcomeQuota          = "quota_error"
	OutcomeUpstream       = "upstream_error"
)

var (
	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Total number of chat requests by outcome",
		},
		[]string{"outcome"},
	)

	CompletionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_completion_duration_seconds",
			Help:    "Duration of completion API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	AppointmentsAttached = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_appointments_attached_total",
			Help: "Number of chat replies returned with appointment options",
		},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_rate_limited_total",
			Help: "Number of chat requests rejected by the rate limiter",
		},
	)
)
