// Package metrics exposes Prometheus instrumentation for dataset loads,
// almanac queries and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	datasetLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ls_ephemeris_dataset_loads_total",
			Help: "Dataset load requests by source (cache, disk, fetch, builtin, error).",
		},
		[]string{"dataset", "source"},
	)

	datasetLoadSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ls_ephemeris_dataset_load_seconds",
			Help:    "Time to make a dataset resident, excluding cache hits.",
			Buckets: []float64{.001, .01, .1, 1, 10, 60, 300, 900},
		},
		[]string{"dataset"},
	)

	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ls_ephemeris_queries_total",
			Help: "Almanac queries by outcome (found, none, error).",
		},
		[]string{"query", "outcome"},
	)

	querySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ls_ephemeris_query_seconds",
			Help:    "Almanac query duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ls_ephemeris_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ls_ephemeris_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

func init() {
	prometheus.MustRegister(datasetLoadsTotal)
	prometheus.MustRegister(datasetLoadSeconds)
	prometheus.MustRegister(queriesTotal)
	prometheus.MustRegister(querySeconds)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Load sources.
const (
	SourceCache   = "cache"
	SourceDisk    = "disk"
	SourceFetch   = "fetch"
	SourceBuiltin = "builtin"
	SourceError   = "error"
)

// ObserveDatasetLoad records one load request. Cache hits are counted but
// not timed.
func ObserveDatasetLoad(dataset, source string, d time.Duration) {
	datasetLoadsTotal.WithLabelValues(dataset, source).Inc()
	if source != SourceCache {
		datasetLoadSeconds.WithLabelValues(dataset).Observe(d.Seconds())
	}
}

// Query outcomes.
const (
	OutcomeFound = "found"
	OutcomeNone  = "none"
	OutcomeError = "error"
)

// ObserveQuery records one almanac query.
func ObserveQuery(query, outcome string, d time.Duration) {
	queriesTotal.WithLabelValues(query, outcome).Inc()
	querySeconds.WithLabelValues(query).Observe(d.Seconds())
}

// Outcome classifies a query result.
func Outcome(found bool, err error) string {
	switch {
	case err != nil:
		return OutcomeError
	case !found:
		return OutcomeNone
	default:
		return OutcomeFound
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		path := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(path, r.Method).Observe(duration)
	})
}

var exactRoutes = map[string]bool{
	"/healthz":         true,
	"/metrics":         true,
	"/api/v1/sun":      true,
	"/api/v1/moon":     true,
	"/api/v1/phase":    true,
	"/api/v1/twilight": true,
	"/api/v1/planets":  true,
	"/api/v1/observer": true,
	"/api/v1/sky":      true,
}

// parameterized maps a route prefix to its label.
var parameterized = []struct {
	prefix string
	label  string
}{
	{"/api/v1/planets/", "/api/v1/planets/{body}"},
	{"/api/v1/seasons/", "/api/v1/seasons/{year}"},
	{"/api/v1/path/", "/api/v1/path/{body}"},
	{"/api/v1/position/", "/api/v1/position/{body}"},
}

// normalizeRoute collapses request paths to a bounded label set.
func normalizeRoute(path string) string {
	if exactRoutes[path] {
		return path
	}
	for _, p := range parameterized {
		if rest, ok := strings.CutPrefix(path, p.prefix); ok && rest != "" && !strings.Contains(rest, "/") {
			return p.label
		}
	}
	return "other"
}
