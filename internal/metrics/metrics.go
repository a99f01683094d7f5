package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PaymentsAppliedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_applied_total",
			Help: "Payment operations applied, by target kind",
		},
		[]string{"target_kind"},
	)

	PaymentAmountTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_amount_total",
			Help: "Total money applied through the debt ledger",
		},
	)

	OverpaymentsRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "overpayments_rejected_total",
			Help: "Payment operations rejected for exceeding the outstanding balance",
		},
	)

	CheckoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkouts_total",
			Help: "Completed checkouts",
		},
	)
)
