// Package metrics defines and registers all custom Prometheus metrics for the
// library API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry through promauto
// when the package is imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library"

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts served requests.
// Labels:
//   - method: HTTP method
//   - route: the matched route template (e.g. "/api/livros/:id")
//   - code: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status code.",
	},
	[]string{"method", "route", "code"},
)

// HTTPRequestDuration measures request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, by method and route.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Loan metrics ──────────────────────────────────────────────────────────────

// LoansCreatedTotal counts loans opened.
// Label:
//   - replay: "true" when answered from an earlier Idempotency-Key
var LoansCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loans_created_total",
		Help:      "Total number of loan requests answered with a loan, by replay flag.",
	},
	[]string{"replay"},
)

// LoanRejectionsTotal counts loan requests refused before anything was stored.
// Label:
//   - reason: "empty", "book_not_found" or "error"
var LoanRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loan_rejections_total",
		Help:      "Total number of loan requests rejected, by reason.",
	},
	[]string{"reason"},
)

// LoanBooks observes how many books a single loan covers.
var LoanBooks = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "loan_books",
		Help:      "Number of books per created loan.",
		Buckets:   []float64{1, 2, 3, 5, 8, 13},
	},
)
