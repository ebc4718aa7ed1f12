// Package metrics declares the console's Prometheus metrics. They are registered
// on the default registry at init and served on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hrconsole"

// APIRequestsTotal counts calls to the backend.
// Labels: method, status ("network" when no response arrived).
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Backend requests issued by the API client.",
	},
	[]string{"method", "status"},
)

var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Backend request latency as seen by the API client.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

var UnauthorizedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_unauthorized_total",
		Help:      "Backend responses with status 401.",
	},
)

// StaleFetchesTotal counts fetch responses dropped because a newer fetch was dispatched.
var StaleFetchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_stale_fetches_total",
		Help:      "Fetch responses discarded as superseded, by resource.",
	},
	[]string{"resource"},
)

var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Session state transitions, by resulting state.",
	},
	[]string{"state"},
)

var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Route guard outcomes, by decision.",
	},
	[]string{"decision"},
)

var ConsoleRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "console_requests_total",
		Help:      "Requests served by the console, by status code.",
	},
	[]string{"status"},
)

var JobsDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_dropped_total",
		Help:      "Background jobs dropped because the queue was full.",
	},
	[]string{"job"},
)

func RecordAPIRequest(method string, status int, network bool, duration time.Duration) {
	label := strconv.Itoa(status)
	if network {
		label = "network"
	}
	APIRequestsTotal.WithLabelValues(method, label).Inc()
	APIRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
	if status == 401 {
		UnauthorizedTotal.Inc()
	}
}
