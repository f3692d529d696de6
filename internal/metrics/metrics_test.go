package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/healthz", "/healthz"},
		{"/metrics", "/metrics"},
		{"/api/v1/sun", "/api/v1/sun"},
		{"/api/v1/planets", "/api/v1/planets"},
		{"/api/v1/planets/mars", "/api/v1/planets/{body}"},
		{"/api/v1/planets/jupiter", "/api/v1/planets/{body}"},
		{"/api/v1/seasons/2024", "/api/v1/seasons/{year}"},
		{"/api/v1/path/moon", "/api/v1/path/{body}"},
		{"/api/v1/position/sun", "/api/v1/position/{body}"},

		{"/api/v1/planets/", "other"},
		{"/api/v1/path/moon/extra", "other"},
		{"/wp-admin", "other"},
		{"/api/v2/sun", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizeRoute(tt.path); got != tt.want {
				t.Errorf("normalizeRoute(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		found bool
		err   error
		want  string
	}{
		{true, nil, OutcomeFound},
		{false, nil, OutcomeNone},
		{true, errors.New("boom"), OutcomeError},
	}

	for _, tt := range tests {
		if got := Outcome(tt.found, tt.err); got != tt.want {
			t.Errorf("Outcome(%v, %v) = %q, want %q", tt.found, tt.err, got, tt.want)
		}
	}
}

func TestObserveDatasetLoad(t *testing.T) {
	before := counterValue(t, "ls_ephemeris_dataset_loads_total", "test-ds", SourceCache)
	ObserveDatasetLoad("test-ds", SourceCache, 0)
	ObserveDatasetLoad("test-ds", SourceCache, 0)
	after := counterValue(t, "ls_ephemeris_dataset_loads_total", "test-ds", SourceCache)
	if after-before != 2 {
		t.Errorf("cache loads increased by %v, want 2", after-before)
	}
}

func TestObserveQuery(t *testing.T) {
	before := counterValue(t, "ls_ephemeris_queries_total", OutcomeNone, "test-query")
	ObserveQuery("test-query", OutcomeNone, time.Millisecond)
	after := counterValue(t, "ls_ephemeris_queries_total", OutcomeNone, "test-query")
	if after-before != 1 {
		t.Errorf("queries increased by %v, want 1", after-before)
	}
}

func TestMiddlewareRecordsStatus(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	before := counterValue(t, "ls_ephemeris_http_requests_total", "418", http.MethodGet, "/api/v1/planets/{body}")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/planets/venus", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	after := counterValue(t, "ls_ephemeris_http_requests_total", "418", http.MethodGet, "/api/v1/planets/{body}")
	if after-before != 1 {
		t.Errorf("request counter increased by %v, want 1", after-before)
	}
}

// counterValue reads a counter from the default registry. labelValues are
// matched in label-name order as Prometheus sorts them.
func counterValue(t *testing.T, name string, labelValues ...string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			pairs := m.GetLabel()
			if len(pairs) != len(labelValues) {
				continue
			}
			for i, lp := range pairs {
				if lp.GetValue() != labelValues[i] {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}
