package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "pawzio", Name: "requests_created_total", Help: "Service requests created"},
		[]string{"category"},
	)
	ClaimsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "pawzio", Name: "claims_total", Help: "Claim attempts by outcome"},
		[]string{"outcome"},
	)
	ClaimConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "pawzio", Name: "claim_conflicts_total", Help: "Compare-and-swap conflicts observed during claims"},
	)
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "pawzio", Name: "transitions_total", Help: "Successful lifecycle transitions"},
		[]string{"from", "to"},
	)
	LedgerEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "pawzio", Name: "ledger_entries_total", Help: "Ledger entries recorded"},
		[]string{"category"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "pawzio", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pawzio",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
