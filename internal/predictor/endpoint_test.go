package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aqi_predictor/internal/models"

	"golang.org/x/time/rate"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(
		WithHTTPClient(http.DefaultClient),
		WithLimiter(rate.NewLimiter(rate.Inf, 1)),
		WithTimeout(2*time.Second),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestEndpoint_Success(t *testing.T) {
	var gotBody map[string]any
	var gotMethod, gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotCT = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"aqi": 87.6, "pollutants": {"pm25": 12.5, "pm10": 30, "o3": 40, "no2": 10, "so2": 2, "co": 0.4}}`))
	}))
	defer srv.Close()

	est, err := newTestClient(t).Endpoint(srv.URL).Estimate(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if gotMethod != http.MethodPost || gotCT != "application/json" {
		t.Fatalf("unexpected request %s %q", gotMethod, gotCT)
	}
	if gotBody["location"] != "Paris" || len(gotBody) != 1 {
		t.Fatalf("unexpected request body: %v", gotBody)
	}
	if est.Index != 88 {
		t.Fatalf("aqi should round to 88, got %d", est.Index)
	}
	if est.Origin != models.OriginEndpoint {
		t.Fatalf("origin = %q", est.Origin)
	}
	want := models.Pollutants{PM25: 12.5, PM10: 30, O3: 40, NO2: 10, SO2: 2, CO: 0.4}
	if est.Pollutants != want {
		t.Fatalf("pollutants = %+v; want %+v", est.Pollutants, want)
	}
}

func TestEndpoint_PollutantsOptional(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"aqi": 412}`))
	}))
	defer srv.Close()

	est, err := newTestClient(t).Endpoint(srv.URL).Estimate(context.Background(), "Delhi")
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if est.Index != 412 {
		t.Fatalf("index = %d; external values are not range-checked", est.Index)
	}
	if est.Pollutants != (models.Pollutants{}) {
		t.Fatalf("missing pollutants should be zeros, got %+v", est.Pollutants)
	}
}

func TestEndpoint_Failures(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `{"aqi": 10}`, ErrEndpointStatus},
		{"not found", http.StatusNotFound, ``, ErrEndpointStatus},
		{"malformed json", http.StatusOK, `{"aqi":`, ErrMalformedResponse},
		{"missing aqi", http.StatusOK, `{"pollutants": {"pm25": 1}}`, ErrMalformedResponse},
		{"aqi not a number", http.StatusOK, `{"aqi": "high"}`, ErrMalformedResponse},
		{"aqi overflows", http.StatusOK, `{"aqi": 1e300}`, ErrMalformedResponse},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := newTestClient(t).Endpoint(srv.URL).Estimate(context.Background(), "Paris")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestEndpoint_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	if _, err := newTestClient(t).Endpoint(url).Estimate(context.Background(), "Paris"); err == nil {
		t.Fatalf("expected transport error for closed server")
	}
}

func TestEndpoint_InvalidURL(t *testing.T) {
	if _, err := newTestClient(t).Endpoint("://nope").Estimate(context.Background(), "Paris"); err == nil {
		t.Fatalf("expected error for invalid url")
	}
}

func TestEndpoint_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c, err := NewClient(WithHTTPClient(http.DefaultClient), WithTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.Endpoint(srv.URL).Estimate(context.Background(), "Paris"); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestNewClient_RejectsBadOptions(t *testing.T) {
	if _, err := NewClient(WithTimeout(0)); err == nil {
		t.Errorf("zero timeout should be rejected")
	}
	if _, err := NewClient(WithHTTPClient(nil)); err == nil {
		t.Errorf("nil http client should be rejected")
	}
	if _, err := NewClient(WithLimiter(nil)); err == nil {
		t.Errorf("nil limiter should be rejected")
	}
}
