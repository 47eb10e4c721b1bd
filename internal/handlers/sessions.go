package handlers

import (
	"errors"
	"net/http"

	"aqi_predictor/internal/service"

	"github.com/gin-gonic/gin"
)

const errSessionGone = "session not found or expired"

// @Summary      Open a session
// @Description  Starts an empty prediction history and returns the token that identifies it.
// @Tags         sessions
// @Produce      json
// @Success      201  {object}  service.Ticket
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/sessions [post]
func (h *Handler) openSession(c *gin.Context) {
	ticket, err := h.services.Open(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to open session", "session_open_failed", err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

// @Summary      Close the current session
// @Description  Discards the session and its history.
// @Tags         sessions
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/current [delete]
// @Security     BearerAuth
func (h *Handler) closeSession(c *gin.Context) {
	id := sessionIDFrom(c)
	if err := h.services.Close(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errSessionGone})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to close session", "session_close_failed", err, "session_id", id)
		return
	}
	c.Status(http.StatusNoContent)
}
