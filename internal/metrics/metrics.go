// Package metrics holds the prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	ImportRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourlog_import_rows_total",
			Help: "Spreadsheet rows processed by the import pipeline.",
		},
		[]string{"outcome"},
	)

	WebsocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tourlog_websocket_clients",
		Help: "Connected live-update clients.",
	})

	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tourlog_rate_limited_total",
		Help: "Requests rejected by the auth rate limiter.",
	})
)

var once sync.Once

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPInFlight,
			HTTPRequestsTotal,
			HTTPRequestDuration,
			ImportRowsTotal,
			WebsocketClients,
			RateLimitedTotal,
		)
	})
}

// Handler serves the prometheus exposition format
func Handler() http.Handler {
	return promhttp.Handler()
}
