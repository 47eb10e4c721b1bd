package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"aqi_predictor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms

	wsTypeHistory = "history"
	wsTypeError   = "error"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

type historyFrame struct {
	Current  interface{} `json:"current"`
	Readings interface{} `json:"readings"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origins once the view is served from a known host
}

// @Summary      Stream session history
// @Description  WebSocket that pushes {"type":"history","data":{current,readings}} every interval. The session token goes in ?token= or the Authorization header.
// @Tags         predictions
// @Param        token     query  string  false  "Session token"
// @Param        interval  query  string  false  "Push interval, e.g. 2s (max 10s)"
// @Success      101
// @Failure      401  {object}  map[string]string
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	sessionID, ok := h.wsSession(c)
	if !ok {
		return
	}
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	if err := h.sendHistory(conn, sessionID); err != nil {
		h.log.Infow("ws_write_failed_initial", "err", err, "session_id", sessionID)
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.Infow("ws_ping_failed", "err", err)
				return
			}
		case <-ticker.C:
			if err := h.sendHistory(conn, sessionID); err != nil {
				h.log.Infow("ws_write_failed", "err", err, "session_id", sessionID)
				return
			}
		}
	}
}

// wsSession resolves the session before upgrading so that bad tokens get a
// plain 401 instead of a websocket close frame.
func (h *Handler) wsSession(c *gin.Context) (string, bool) {
	token := c.Query("token")
	if token == "" {
		if t, ok := bearerToken(c.GetHeader("Authorization")); ok {
			token = t
		}
	}
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
		return "", false
	}
	id, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session token"})
		return "", false
	}
	return id, true
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return defaultInterval
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.log.Debugw("ws_read_closed", "err", err)
			return
		}
	}
}

// Helper: sendHistory writes the session snapshot. When the session is gone
// an error frame is written and the stream ends.
func (h *Handler) sendHistory(conn *websocket.Conn, sessionID string) error {
	snap, err := h.services.Snapshot(sessionID)
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err != nil {
		msg := "failed to load session"
		if errors.Is(err, service.ErrSessionNotFound) {
			msg = errSessionGone
		}
		_ = conn.WriteJSON(wsEnvelope{Type: wsTypeError, Error: msg})
		return err
	}
	return conn.WriteJSON(wsEnvelope{
		Type: wsTypeHistory,
		Data: historyFrame{Current: snap.Current, Readings: snap.History},
	})
}
