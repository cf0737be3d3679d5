package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the API.
type Metrics struct {
	Requests    *prometheus.CounterVec   // labels: method, route, status
	Duration    *prometheus.HistogramVec // labels: route
	Degenerate  *prometheus.CounterVec   // labels: calc
	FundQueries prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics registers the collectors on a fresh registry so several
// servers can live in one process.
func NewMetrics() *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tradebook_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tradebook_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		Degenerate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tradebook_degenerate_results_total",
			Help: "Risk calculations answered with a degenerate result",
		}, []string{"calc"}),
		FundQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tradebook_fund_queries_total",
			Help: "Mutual fund directory queries served",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.Requests,
		m.Duration,
		m.Degenerate,
		m.FundQueries,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
