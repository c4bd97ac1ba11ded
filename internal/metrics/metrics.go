package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaladmin_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evaladmin_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	importRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaladmin_import_rows_total",
			Help: "CSV rows processed by committed imports",
		},
		[]string{"kind", "outcome"},
	)

	liveClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "evaladmin_live_feed_clients",
			Help: "Connected live session feed clients",
		},
	)
)

// RecordImport counts rows of a committed import.
func RecordImport(kind string, imported, skipped int) {
	importRowsTotal.WithLabelValues(kind, "imported").Add(float64(imported))
	importRowsTotal.WithLabelValues(kind, "skipped").Add(float64(skipped))
}

func SetLiveClients(count int) {
	liveClients.Set(float64(count))
}
