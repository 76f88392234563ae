package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_RecordsDurationAndCount(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest("GET", "/v1/search", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	requestsVal := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/v1/search", "200"))
	if requestsVal < 1 {
		t.Errorf("expected http_requests_total >= 1, got %f", requestsVal)
	}

	durationCount := testutil.CollectAndCount(httpRequestDuration)
	if durationCount == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMiddleware_RoutePatternLabel(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/v1/runs/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/v1/runs/run_20260828_103000", http.NoBody))

	// The templated route, not the concrete path, is the label.
	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/v1/runs/{id}", "200"))
	if val < 1 {
		t.Errorf("expected count under route pattern label, got %f", val)
	}
}

func TestMiddleware_ErrorStatusLabel(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/boom", http.NoBody))

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/boom", "500"))
	if val < 1 {
		t.Errorf("expected count under 500 status label, got %f", val)
	}
}

func TestStatusWriter_DefaultsTo200OnWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec, status: http.StatusOK}

	_, _ = sw.Write([]byte("body"))
	if sw.status != http.StatusOK {
		t.Errorf("implicit write must keep status 200, got %d", sw.status)
	}

	// A late WriteHeader must not override the recorded status.
	sw.WriteHeader(http.StatusNotFound)
	if sw.status != http.StatusOK {
		t.Errorf("status must be locked after first write, got %d", sw.status)
	}
}
