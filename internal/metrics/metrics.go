// Package metrics exposes Prometheus collectors for the HTTP layer and the
// price import/export pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricing_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "route", "status"},
	)
	importRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_import_rows_total",
			Help: "Imported price rows by outcome.",
		},
		[]string{"brand", "outcome"},
	)
	importDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricing_import_duration_seconds",
			Help:    "Duration of price file imports.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"brand", "dry_run"},
	)
	exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_exports_total",
			Help: "Price file exports by format.",
		},
		[]string{"brand", "format"},
	)
	importsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pricing_imports_active",
			Help: "Imports currently holding a slot.",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(importRowsTotal)
	prometheus.MustRegister(importDuration)
	prometheus.MustRegister(exportsTotal)
	prometheus.MustRegister(importsActive)
}

// RecordRequest records one served HTTP request. route is the chi route
// pattern, not the raw path, to keep label cardinality bounded.
func RecordRequest(method, route string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// ImportOutcome is the per-row tally of one import run.
type ImportOutcome struct {
	Succeeded int
	Failed    int
	Unchanged int
	Skipped   int
}

// RecordImport records the row outcomes and duration of one import run.
func RecordImport(brand string, dryRun bool, outcome ImportOutcome, duration time.Duration) {
	importRowsTotal.WithLabelValues(brand, "succeeded").Add(float64(outcome.Succeeded))
	importRowsTotal.WithLabelValues(brand, "failed").Add(float64(outcome.Failed))
	importRowsTotal.WithLabelValues(brand, "unchanged").Add(float64(outcome.Unchanged))
	importRowsTotal.WithLabelValues(brand, "skipped").Add(float64(outcome.Skipped))
	importDuration.WithLabelValues(brand, strconv.FormatBool(dryRun)).Observe(duration.Seconds())
}

// RecordExport counts one export in the given format ("csv" or "xlsx").
func RecordExport(brand, format string) {
	exportsTotal.WithLabelValues(brand, format).Inc()
}

// ImportStarted and ImportFinished track the number of running imports.
func ImportStarted()  { importsActive.Inc() }
func ImportFinished() { importsActive.Dec() }

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown"
}

// Handler returns the HTTP handler serving the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
