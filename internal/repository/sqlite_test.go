package repository

import (
	"path/filepath"
	"testing"
	"time"

	"aqi_predictor/internal/models"
	"aqi_predictor/internal/repository/db"
)

func TestEventSQLite_RoundTrip(t *testing.T) {
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer conn.Close()

	repo := NewRepository(conn).EventRepo
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	aqi := 155

	events := []models.PredictionEvent{
		{OccurredAt: base, Type: models.EventSessionOpened, SessionID: "a", Description: "opened"},
		{OccurredAt: base.Add(time.Minute), Type: models.EventPrediction, SessionID: "a", Location: "Delhi", AQI: &aqi, Category: "Unhealthy", Description: "AQI for Delhi: 155 (Unhealthy)", Metadata: map[string]any{"origin": "endpoint"}},
		{OccurredAt: base.Add(2 * time.Minute), Type: models.EventPrediction, SessionID: "b", Location: "Oslo", Description: "other session"},
	}
	for _, e := range events {
		if err := repo.Append(ctx(t), e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	all, err := repo.List(ctx(t), EventQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("want 3 events, got %d", len(all))
	}

	got, err := repo.List(ctx(t), EventQuery{Type: "prediction", SessionID: "a"})
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 event, got %d: %+v", len(got), got)
	}
	ev := got[0]
	if ev.Location != "Delhi" || ev.AQI == nil || *ev.AQI != 155 || ev.Category != "Unhealthy" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if !ev.OccurredAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("occurred_at = %v", ev.OccurredAt)
	}
	if m, ok := ev.Metadata.(map[string]any); !ok || m["origin"] != "endpoint" {
		t.Fatalf("metadata = %#v", ev.Metadata)
	}
}
