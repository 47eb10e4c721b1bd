package service

import (
	"context"
	"testing"
	"time"
)

func TestNewSweeperService_BadSchedule(t *testing.T) {
	s := newTestSessions(t, &fakeEventRepo{})
	if _, err := NewSweeperService(s, "every now and then", time.Minute, nil); err == nil {
		t.Fatalf("expected schedule parse error")
	}
	if _, err := NewSweeperService(nil, "", time.Minute, nil); err == nil {
		t.Fatalf("expected error without a session store")
	}
}

func TestSweeperService_Defaults(t *testing.T) {
	s := newTestSessions(t, &fakeEventRepo{})
	sw, err := NewSweeperService(s, "", 0, nil)
	if err != nil {
		t.Fatalf("NewSweeperService: %v", err)
	}
	if sw.expr != defaultSweepSchedule || sw.idleTTL != defaultIdleTTL {
		t.Fatalf("defaults not applied: schedule=%q ttl=%s", sw.expr, sw.idleTTL)
	}
}

func TestSweeperService_Sweep(t *testing.T) {
	s := newTestSessions(t, &fakeEventRepo{})
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, _ = s.Open(context.Background())
	_, _ = s.Open(context.Background())
	now = now.Add(time.Hour)

	sw, err := NewSweeperService(s, "@every 1m", 30*time.Minute, nil)
	if err != nil {
		t.Fatalf("NewSweeperService: %v", err)
	}
	if n := sw.Sweep(context.Background()); n != 2 {
		t.Fatalf("Sweep removed %d, want 2", n)
	}
	if s.Len() != 0 {
		t.Fatalf("sessions left: %d", s.Len())
	}
}

func TestSweeperService_RunStopsOnCancel(t *testing.T) {
	s := newTestSessions(t, &fakeEventRepo{})
	sw, err := NewSweeperService(s, "@every 1h", time.Minute, nil)
	if err != nil {
		t.Fatalf("NewSweeperService: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sw.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
