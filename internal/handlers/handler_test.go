package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aqi_predictor/internal/metrics"
	"aqi_predictor/internal/service"

	"github.com/gin-gonic/gin"
)

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}
}

func TestMetricsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m := metrics.New()
	m.ObserveRejected()
	r := NewHandler(&service.Service{}, nil, m.Handler()).InitRoutes()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "aqi_predictions_rejected_total 1") {
		t.Fatalf("rejected counter missing from exposition")
	}

	// Without a metrics handler the route is absent.
	r = newTestRouter(&service.Service{})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without metrics, got %d", w.Code)
	}
}
