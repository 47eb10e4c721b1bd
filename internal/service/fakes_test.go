package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"aqi_predictor/internal/models"
	"aqi_predictor/internal/predictor"
	"aqi_predictor/internal/repository"
)

// fakeEventRepo satisfies repository.EventRepo and records every call.
type fakeEventRepo struct {
	mu sync.Mutex

	gotCtx   context.Context
	gotQuery repository.EventQuery
	calls    int

	appended  []models.PredictionEvent
	appendErr error

	events []models.PredictionEvent
	err    error
}

func (f *fakeEventRepo) List(ctx context.Context, q repository.EventQuery) ([]models.PredictionEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotCtx = ctx
	f.gotQuery = q
	return f.events, f.err
}

func (f *fakeEventRepo) Append(_ context.Context, e models.PredictionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, e)
	return f.appendErr
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}

func (f *fakeEventRepo) last() models.PredictionEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.appended) == 0 {
		return models.PredictionEvent{}
	}
	return f.appended[len(f.appended)-1]
}

// stubSource returns a fixed estimate or error and counts calls.
type stubSource struct {
	mu    sync.Mutex
	est   predictor.Estimate
	err   error
	calls int
	delay time.Duration
}

func (s *stubSource) Estimate(ctx context.Context, _ string) (predictor.Estimate, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return predictor.Estimate{}, ctx.Err()
		}
	}
	return s.est, s.err
}

func (s *stubSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// fakePublisher records published readings.
type fakePublisher struct {
	mu        sync.Mutex
	published []models.Reading
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, r models.Reading) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, r)
	return p.err
}

func (p *fakePublisher) Close() {}

var errBoom = errors.New("boom")

const testSigningKey = "test-signing-key-0123456789"

func newTestSessions(t interface{ Fatalf(string, ...any) }, repo *fakeEventRepo) *SessionService {
	s, err := NewSessionService(SessionsConfig{SigningKey: testSigningKey, TokenTTL: time.Hour}, newEventRecorder(repo, nil), nil, nil)
	if err != nil {
		t.Fatalf("NewSessionService: %v", err)
	}
	return s
}
