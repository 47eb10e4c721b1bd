package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aqi_predictor/internal/logger"
	"aqi_predictor/internal/metrics"
	"aqi_predictor/internal/models"
	"aqi_predictor/internal/predictor"
	"aqi_predictor/internal/publisher"
	"aqi_predictor/internal/repository"
)

// Prediction turns a location into a classified reading and records it in
// the caller's session history.
type Prediction interface {
	Predict(ctx context.Context, p PredictParams) (Outcome, error)
}

// Sessions manages the in-memory views and their reading histories.
type Sessions interface {
	Open(ctx context.Context) (Ticket, error)
	ParseToken(token string) (string, error)
	Snapshot(id string) (models.Session, error)
	Close(ctx context.Context, id string) error
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.PredictionEvent, error)
}

// Sweeper removes idle sessions on a schedule.
// Stop via context cancellation in main() for graceful shutdown.
type Sweeper interface {
	Run(ctx context.Context)
	Sweep(ctx context.Context) int
}

type Service struct {
	Prediction
	Sessions
	EventLog
	Sweeper
}

// EndpointFactory builds a source for one endpoint URL.
type EndpointFactory func(url string) predictor.Source

type PredictorConfig struct {
	Endpoint             string
	AllowRequestEndpoint bool
	Strict               bool
}

type SessionsConfig struct {
	SigningKey    string
	TokenTTL      time.Duration
	IdleTTL       time.Duration
	SweepSchedule string
}

// Options carries the collaborators NewService wires together. Only
// Sessions.SigningKey is mandatory; everything else has a working default.
type Options struct {
	Log       *logger.Logger
	Metrics   *metrics.Metrics
	Publisher publisher.Publisher
	Simulator predictor.Source
	Endpoints EndpointFactory
	Predictor PredictorConfig
	Sessions  SessionsConfig
}

func NewService(repos *repository.Repository, o Options) (*Service, error) {
	if repos == nil || repos.EventRepo == nil {
		return nil, errors.New("event repository is required")
	}
	log := logger.OrNop(o.Log)

	if o.Publisher == nil {
		o.Publisher = publisher.Noop{}
	}
	if o.Simulator == nil {
		o.Simulator = predictor.NewSimulator(nil)
	}
	if o.Endpoints == nil {
		client, err := predictor.NewClient(predictor.WithLogger(log.Desugar()))
		if err != nil {
			return nil, fmt.Errorf("build endpoint client: %w", err)
		}
		o.Endpoints = func(url string) predictor.Source { return client.Endpoint(url) }
	}

	events := newEventRecorder(repos.EventRepo, log)

	sessions, err := NewSessionService(o.Sessions, events, o.Metrics, log)
	if err != nil {
		return nil, err
	}
	sweeper, err := NewSweeperService(sessions, o.Sessions.SweepSchedule, o.Sessions.IdleTTL, log)
	if err != nil {
		return nil, err
	}

	return &Service{
		Prediction: NewPredictionService(PredictionDeps{
			Sessions:  sessions,
			Simulator: o.Simulator,
			Endpoints: o.Endpoints,
			Events:    events,
			Metrics:   o.Metrics,
			Publisher: o.Publisher,
			Log:       log,
		}, o.Predictor),
		Sessions: sessions,
		EventLog: NewEventLogService(repos.EventRepo),
		Sweeper:  sweeper,
	}, nil
}
