package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"aqi_predictor/internal/logger"
	"aqi_predictor/internal/models"
	"aqi_predictor/internal/repository"
)

const eventWriteTimeout = 3 * time.Second

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var (
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (repository.EventQuery, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return repository.EventQuery{}, ErrInvalidTimeRange
	}

	limit := f.Limit
	if limit < 0 {
		limit = 0
	}

	return repository.EventQuery{
		From:      from,
		To:        to,
		Type:      normalizeEventType(f.Type),
		SessionID: strings.TrimSpace(f.SessionID),
		Limit:     limit,
	}, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.PredictionEvent, error) {
	q, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, q)
}

// eventRecorder appends events on a best-effort basis: failures are logged
// and never surface to the caller. A nil recorder drops everything.
type eventRecorder struct {
	repo repository.EventRepo
	log  *logger.Logger
}

func newEventRecorder(repo repository.EventRepo, log *logger.Logger) *eventRecorder {
	return &eventRecorder{repo: repo, log: logger.OrNop(log)}
}

func (r *eventRecorder) record(ctx context.Context, e models.PredictionEvent) {
	if r == nil || r.repo == nil {
		return
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventWriteTimeout)
	defer cancel()
	if err := r.repo.Append(wctx, e); err != nil {
		r.log.Errorw("event_append_failed", "type", e.Type, "session_id", e.SessionID, "error", err)
	}
}
