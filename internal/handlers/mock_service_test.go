package handlers

import (
	"context"
	"net/http"
	"sync"

	"aqi_predictor/internal/models"
	"aqi_predictor/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockSessions struct {
	mu sync.Mutex

	ticket  service.Ticket
	openErr error

	parseID  string
	parseErr error

	snapshot    models.Session
	snapshotErr error

	closeErr error

	lastParseToken string
	lastSnapshotID string
	lastCloseID    string
	openCalls      int
}

func (m *mockSessions) Open(ctx context.Context) (service.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openCalls++
	return m.ticket, m.openErr
}

func (m *mockSessions) ParseToken(token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

func (m *mockSessions) Snapshot(id string) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSnapshotID = id
	return m.snapshot, m.snapshotErr
}

func (m *mockSessions) Close(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCloseID = id
	return m.closeErr
}

func (m *mockSessions) setSnapshot(s models.Session, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = s
	m.snapshotErr = err
}

func (m *mockSessions) parsedToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastParseToken
}

type mockPrediction struct {
	out   service.Outcome
	err   error
	last  service.PredictParams
	calls int
}

func (m *mockPrediction) Predict(ctx context.Context, p service.PredictParams) (service.Outcome, error) {
	m.calls++
	m.last = p
	return m.out, m.err
}

type mockEventLog struct {
	resp []models.PredictionEvent
	err  error
	last service.LogFilter
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.PredictionEvent, error) {
	m.last = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withHeaders(req *http.Request, hdr http.Header) *http.Request {
	for k, vv := range hdr {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
