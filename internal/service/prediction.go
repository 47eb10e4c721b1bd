package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"aqi_predictor/internal/aqi"
	"aqi_predictor/internal/logger"
	"aqi_predictor/internal/metrics"
	"aqi_predictor/internal/models"
	"aqi_predictor/internal/predictor"
	"aqi_predictor/internal/publisher"
)

var (
	ErrEmptyLocation       = errors.New("location is empty")
	ErrEndpointUnavailable = errors.New("prediction endpoint unavailable")
	ErrEndpointNotAllowed  = errors.New("per-request endpoints are disabled")
	ErrInvalidEndpoint     = errors.New("endpoint must be an absolute http(s) URL")
)

const (
	noticeComplete     = "Prediction Complete"
	noticeDemoComplete = "Demo Prediction Complete"
	noticeUsingDemo    = "Using Demo Data"
	noticeConnectAPI   = "Connect your prediction API for real predictions"
	publishTimeout     = 5 * time.Second
)

type PredictionDeps struct {
	Sessions  *SessionService
	Simulator predictor.Source
	Endpoints EndpointFactory
	Events    *eventRecorder
	Metrics   *metrics.Metrics
	Publisher publisher.Publisher
	Log       *logger.Logger
}

type PredictionService struct {
	deps PredictionDeps
	cfg  PredictorConfig
}

func NewPredictionService(deps PredictionDeps, cfg PredictorConfig) *PredictionService {
	if deps.Publisher == nil {
		deps.Publisher = publisher.Noop{}
	}
	deps.Log = logger.OrNop(deps.Log)
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	return &PredictionService{deps: deps, cfg: cfg}
}

// Predict produces one reading for the session. An empty location is
// rejected before any source is consulted and leaves the history untouched.
func (s *PredictionService) Predict(ctx context.Context, p PredictParams) (Outcome, error) {
	location := strings.TrimSpace(p.Location)
	if location == "" {
		s.deps.Metrics.ObserveRejected()
		s.deps.Events.record(ctx, models.PredictionEvent{
			Type:        models.EventRejected,
			SessionID:   p.SessionID,
			Description: "Please enter a location",
		})
		return Outcome{}, ErrEmptyLocation
	}

	if err := s.deps.Sessions.touch(p.SessionID); err != nil {
		return Outcome{}, err
	}

	endpoint, err := s.resolveEndpoint(p.Endpoint)
	if err != nil {
		return Outcome{}, err
	}

	est, err := s.source(endpoint).Estimate(ctx, location)
	if ctxErr := ctx.Err(); ctxErr != nil {
		// Nobody is waiting for this reading; leave history and events alone.
		s.deps.Log.Debugw("predict_abandoned", "session_id", p.SessionID, "location", location, "error", ctxErr)
		return Outcome{}, fmt.Errorf("predict abandoned: %w", ctxErr)
	}
	if err != nil {
		if endpoint == "" {
			return Outcome{}, fmt.Errorf("simulate estimate: %w", err)
		}
		s.deps.Log.Warnw("endpoint_failed", "session_id", p.SessionID, "location", location, "endpoint", endpoint, "error", err)
		s.deps.Events.record(ctx, models.PredictionEvent{
			Type:        models.EventEndpointFailed,
			SessionID:   p.SessionID,
			Location:    location,
			Description: err.Error(),
			Metadata:    map[string]any{"endpoint": endpoint},
		})
		return Outcome{}, fmt.Errorf("%w: %v", ErrEndpointUnavailable, err)
	}

	reading := aqi.NewReading(location, est.Index, est.Pollutants, est.Origin, time.Now())
	if err := s.deps.Sessions.record(p.SessionID, reading); err != nil {
		return Outcome{}, err
	}

	out := Outcome{
		Reading:     reading,
		Notice:      buildNotice(reading, endpoint != "", est.FellBack),
		Placeholder: reading.Placeholder,
		Breakdown:   aqi.Breakdown(reading.Pollutants),
	}

	s.afterPredict(ctx, p.SessionID, endpoint, est, reading)
	return out, nil
}

func (s *PredictionService) resolveEndpoint(requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return s.cfg.Endpoint, nil
	}
	if !s.cfg.AllowRequestEndpoint {
		return "", ErrEndpointNotAllowed
	}
	u, err := url.Parse(requested)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidEndpoint
	}
	return requested, nil
}

// source picks the estimator for one call. Without an endpoint the simulator
// answers directly; with one, endpoint failures fall back to the simulator
// unless strict mode is on.
func (s *PredictionService) source(endpoint string) predictor.Source {
	if endpoint == "" {
		return s.deps.Simulator
	}
	primary := timedSource{Source: s.deps.Endpoints(endpoint), metrics: s.deps.Metrics}
	if s.cfg.Strict {
		return primary
	}
	return predictor.Fallback{Primary: primary, Secondary: s.deps.Simulator}
}

func buildNotice(r models.Reading, endpointConfigured, fellBack bool) models.Notice {
	switch {
	case fellBack:
		return models.Notice{Title: noticeUsingDemo, Description: noticeConnectAPI, Variant: models.NoticeDestructive}
	case endpointConfigured:
		return models.Notice{Title: noticeComplete, Description: describe(r), Variant: models.NoticeDefault}
	default:
		return models.Notice{Title: noticeDemoComplete, Description: describe(r), Variant: models.NoticeDefault}
	}
}

func describe(r models.Reading) string {
	return fmt.Sprintf("AQI for %s: %d (%s)", r.Location, r.AQI, r.Category)
}

// afterPredict runs the side effects that must never fail the request.
func (s *PredictionService) afterPredict(ctx context.Context, sessionID, endpoint string, est predictor.Estimate, r models.Reading) {
	s.deps.Metrics.ObservePrediction(string(r.Origin), est.FellBack)

	typ := models.EventPrediction
	meta := map[string]any{"origin": r.Origin, "reading_id": r.ID}
	if endpoint != "" {
		meta["endpoint"] = endpoint
	}
	if est.FellBack {
		typ = models.EventFallback
		if est.Cause != nil {
			meta["cause"] = est.Cause.Error()
		}
		s.deps.Log.Warnw("prediction_fallback", "session_id", sessionID, "location", r.Location, "error", est.Cause)
	}

	index := r.AQI
	s.deps.Events.record(ctx, models.PredictionEvent{
		OccurredAt:  r.Timestamp,
		Type:        typ,
		SessionID:   sessionID,
		Location:    r.Location,
		AQI:         &index,
		Category:    r.Category,
		Description: describe(r),
		Metadata:    meta,
	})

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.deps.Publisher.Publish(pubCtx, r); err != nil {
		s.deps.Log.Debugw("publish_skipped", "reading_id", r.ID, "error", err)
	}

	s.deps.Log.Infow("prediction",
		"session_id", sessionID,
		"location", r.Location,
		"aqi", r.AQI,
		"category", r.Category,
		"origin", r.Origin,
		"fallback", est.FellBack,
	)
}

// timedSource reports endpoint latency and outcome to metrics.
type timedSource struct {
	predictor.Source
	metrics *metrics.Metrics
}

func (t timedSource) Estimate(ctx context.Context, location string) (predictor.Estimate, error) {
	start := time.Now()
	est, err := t.Source.Estimate(ctx, location)
	t.metrics.ObserveEndpoint(time.Since(start), err == nil)
	return est, err
}
