package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"aqi_predictor/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errLimit       = "invalid 'limit'; use an integer between 1 and 1000"
	errRange       = "'from' must be <= 'to'"

	maxLogLimit = 1000

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

var queryLayouts = []string{time.RFC3339, layoutDateTime, layoutDate}

// badQuery is a client error whose text goes straight into the response.
type badQuery string

func (e badQuery) Error() string { return string(e) }

// @Summary      List logs
// @Description  Filter logs by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). If 'to' is date-only, it is treated as end-of-day inclusive (23:59:59.999999999Z).
// @Tags         logs
// @Produce      json
// @Param        from  query   string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2025-08-01)
// @Param        to    query   string  false  "End of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). Date-only treated as end of day."  example(2025-08-31)
// @Param        type  query   string  false  "Event type"  Enums(PREDICTION,FALLBACK,REJECTED,ENDPOINT_FAILED,SESSION_OPENED,SESSION_CLOSED,SESSION_EXPIRED)
// @Param        session_id  query  string  false  "Only events of this session"
// @Param        limit  query  int     false  "Maximum number of events (1-1000)"
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	filter, err := logFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.services.EventLog.List(c.Request.Context(), filter)
	switch {
	case errors.Is(err, service.ErrInvalidTimeRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": errRange})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load logs", "logs_list_failed", err,
			"from", filter.From, "to", filter.To, "type", filter.Type, "session_id", filter.SessionID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// logFilterFromQuery reads from, to, type, session_id and limit. A date-only
// 'to' covers the whole day.
func logFilterFromQuery(c *gin.Context) (service.LogFilter, error) {
	f := service.LogFilter{
		Type:      strings.ToUpper(strings.TrimSpace(c.Query("type"))),
		SessionID: strings.TrimSpace(c.Query("session_id")),
	}

	if qs := c.Query("from"); qs != "" {
		t, err := parseQueryTime(qs)
		if err != nil {
			return f, badQuery(errFromInvalid)
		}
		f.From = t
	}
	if qs := c.Query("to"); qs != "" {
		t, err := parseQueryTime(qs)
		if err != nil {
			return f, badQuery(errToInvalid)
		}
		if !strings.ContainsAny(qs, "T ") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = t
	}
	if qs := c.Query("limit"); qs != "" {
		n, err := strconv.Atoi(qs)
		if err != nil || n < 1 || n > maxLogLimit {
			return f, badQuery(errLimit)
		}
		f.Limit = n
	}

	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return f, badQuery(errRange)
	}
	return f, nil
}

// parseQueryTime accepts any of queryLayouts and returns UTC.
func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range queryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: want RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'", s)
}
