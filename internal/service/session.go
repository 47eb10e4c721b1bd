package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"aqi_predictor/internal/aqi"
	"aqi_predictor/internal/logger"
	"aqi_predictor/internal/metrics"
	"aqi_predictor/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	defaultTokenTTL = 12 * time.Hour
	tokenIssuer     = "aqi-predictor"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidToken    = errors.New("invalid session token")
)

type sessionEntry struct {
	createdAt time.Time
	lastSeen  time.Time
	history   aqi.History
}

// SessionService keeps one reading history per open view. Nothing here is
// persisted: closing or expiring a session discards its history.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry

	key      []byte
	tokenTTL time.Duration
	now      func() time.Time

	events  *eventRecorder
	metrics *metrics.Metrics
	log     *logger.Logger
}

func NewSessionService(cfg SessionsConfig, events *eventRecorder, m *metrics.Metrics, log *logger.Logger) (*SessionService, error) {
	if cfg.SigningKey == "" {
		return nil, errors.New("session signing key is empty")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &SessionService{
		sessions: make(map[string]*sessionEntry),
		key:      []byte(cfg.SigningKey),
		tokenTTL: ttl,
		now:      func() time.Time { return time.Now().UTC() },
		events:   events,
		metrics:  m,
		log:      logger.OrNop(log),
	}, nil
}

// Open starts an empty session and returns its signed token.
func (s *SessionService) Open(ctx context.Context) (Ticket, error) {
	now := s.now()
	id := uuid.NewString()
	expires := now.Add(s.tokenTTL)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}).SignedString(s.key)
	if err != nil {
		return Ticket{}, fmt.Errorf("sign session token: %w", err)
	}

	s.mu.Lock()
	s.sessions[id] = &sessionEntry{createdAt: now, lastSeen: now}
	s.mu.Unlock()

	s.metrics.SessionOpened()
	s.events.record(ctx, models.PredictionEvent{
		OccurredAt:  now,
		Type:        models.EventSessionOpened,
		SessionID:   id,
		Description: "Session opened",
	})
	return Ticket{SessionID: id, Token: token, ExpiresAt: expires}, nil
}

// ParseToken verifies the token and returns the session id it carries.
// It does not check that the session still exists.
func (s *SessionService) ParseToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Snapshot returns a copy of the session; later appends do not affect it.
// Reading a session counts as activity, so a view that only watches its
// history is not swept as idle.
func (s *SessionService) Snapshot(id string) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return models.Session{}, ErrSessionNotFound
	}
	e.lastSeen = s.now()
	out := models.Session{
		ID:         id,
		CreatedAt:  e.createdAt,
		LastSeenAt: e.lastSeen,
		History:    e.history.Readings(),
	}
	if latest, ok := e.history.Latest(); ok {
		out.Current = &latest
	}
	return out, nil
}

func (s *SessionService) touch(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	e.lastSeen = s.now()
	return nil
}

// record prepends r to the session history. Concurrent calls for the same
// session are serialized, so every reading lands.
func (s *SessionService) record(id string, r models.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	e.history = e.history.Append(r)
	e.lastSeen = s.now()
	return nil
}

func (s *SessionService) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	s.metrics.SessionsClosed("closed", 1)
	s.events.record(ctx, models.PredictionEvent{
		Type:        models.EventSessionClosed,
		SessionID:   id,
		Description: "Session closed",
		Metadata:    map[string]any{"readings": e.history.Len()},
	})
	return nil
}

// SweepIdle drops sessions not seen for longer than ttl and returns how many
// were removed.
func (s *SessionService) SweepIdle(ctx context.Context, ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	var expired []string
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, id)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, id := range expired {
		s.events.record(ctx, models.PredictionEvent{
			Type:        models.EventSessionExpired,
			SessionID:   id,
			Description: "Session expired after inactivity",
			Metadata:    map[string]any{"idle_ttl": ttl.String()},
		})
	}
	s.metrics.SessionsClosed("expired", len(expired))
	return len(expired)
}

// Len reports the number of open sessions.
func (s *SessionService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
