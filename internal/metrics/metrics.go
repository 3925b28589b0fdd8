// Package metrics defines the service's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, route, and status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "settleroom",
		Name:      "http_requests_total",
		Help:      "HTTP requests processed, by method, route, and status code.",
	}, []string{"method", "route", "status"})

	// RequestDuration observes request latency by route.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "settleroom",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds, by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// SettlementsResolved counts settlement resolutions by outcome.
	SettlementsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "settleroom",
		Name:      "settlements_resolved_total",
		Help:      "Settlements resolved, by outcome (approved or rejected).",
	}, []string{"outcome"})
)
