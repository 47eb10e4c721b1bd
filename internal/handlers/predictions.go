package handlers

import (
	"context"
	"errors"
	"net/http"

	"aqi_predictor/internal/aqi"
	"aqi_predictor/internal/models"
	"aqi_predictor/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errInvalidBodyPref = "invalid body: "
	errNoPrediction    = "no prediction yet"
	errPredictFailed   = "prediction failed"

	// statusClientClosed marks requests whose client disconnected before the answer.
	statusClientClosed = 499
)

// noticeEmptyLocation is what the view shows when the location field is blank.
var noticeEmptyLocation = models.Notice{
	Title:       "Error",
	Description: "Please enter a location",
	Variant:     models.NoticeDestructive,
}

// PredictRequest is the payload of POST /api/v1/predictions.
type PredictRequest struct {
	// Place to predict for; surrounding whitespace is ignored
	Location string `json:"location" example:"Paris"`
	// Optional prediction endpoint overriding the server default
	Endpoint string `json:"endpoint,omitempty" example:"http://localhost:5000/predict"`
}

// @Summary      Predict AQI
// @Description  Produces a reading for the location and prepends it to the session history. Without a reachable endpoint the reading is demo data and placeholder is true.
// @Tags         predictions
// @Accept       json
// @Produce      json
// @Param        body  body      PredictRequest  true  "Prediction request"
// @Success      200   {object}  service.Outcome
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/predictions [post]
// @Security     BearerAuth
func (h *Handler) predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	id := sessionIDFrom(c)
	out, err := h.services.Predict(c.Request.Context(), service.PredictParams{
		SessionID: id,
		Location:  req.Location,
		Endpoint:  req.Endpoint,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyLocation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "notice": noticeEmptyLocation})
		case errors.Is(err, service.ErrEndpointNotAllowed), errors.Is(err, service.ErrInvalidEndpoint):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errSessionGone})
		case errors.Is(err, context.Canceled):
			h.log.Debugw("predict_client_gone", "session_id", id)
			c.AbortWithStatus(statusClientClosed)
		case errors.Is(err, service.ErrEndpointUnavailable):
			h.logAndJSONError(c, http.StatusBadGateway, service.ErrEndpointUnavailable.Error(), "predict_endpoint_failed", err, "session_id", id)
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errPredictFailed, "predict_failed", err, "session_id", id)
		}
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary      Current reading
// @Description  Latest reading of the session with its pollutant breakdown.
// @Tags         predictions
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "reading, placeholder, breakdown"
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/predictions/current [get]
// @Security     BearerAuth
func (h *Handler) currentPrediction(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	if snap.Current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errNoPrediction})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reading":     snap.Current,
		"placeholder": snap.Current.Placeholder,
		"breakdown":   aqi.Breakdown(snap.Current.Pollutants),
	})
}

// @Summary      Prediction history
// @Description  Up to the 10 most recent readings of the session, newest first.
// @Tags         predictions
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, readings"
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/predictions/history [get]
// @Security     BearerAuth
func (h *Handler) predictionHistory(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(snap.History),
		"readings": snap.History,
	})
}

// @Summary      AQI categories
// @Description  The fixed index-to-category table with display colors.
// @Tags         predictions
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "categories"
// @Router       /api/v1/categories [get]
func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": aqi.Categories()})
}

func (h *Handler) snapshot(c *gin.Context) (models.Session, bool) {
	snap, err := h.services.Snapshot(sessionIDFrom(c))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errSessionGone})
			return models.Session{}, false
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load session", "session_snapshot_failed", err)
		return models.Session{}, false
	}
	return snap, true
}
