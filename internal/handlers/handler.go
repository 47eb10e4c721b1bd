package handlers

import (
	"net/http"

	"aqi_predictor/internal/logger"
	"aqi_predictor/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const statusOK = "ok"

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	metrics  http.Handler
}

// NewHandler constructs a new HTTP handler with dependencies. metrics may be
// nil, in which case /metrics is not registered.
func NewHandler(services *service.Service, log *logger.Logger, metrics http.Handler) *Handler {
	return &Handler{services: services, log: logger.OrNop(log), metrics: metrics}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}

	h.registerAPIRoutes(router)

	// History stream for one session (HTTP upgrade), same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/categories", h.listCategories)
		api.POST("/sessions", h.openSession)
		h.registerLogRoutes(api)

		session := api.Group("", h.sessionMiddleware)
		{
			session.DELETE("/sessions/current", h.closeSession)
			h.registerPredictionRoutes(session)
		}
	}
}

func (h *Handler) registerPredictionRoutes(api *gin.RouterGroup) {
	predictions := api.Group("/predictions")
	{
		// Body example: {"location":"Paris","endpoint":"http://localhost:5000/predict"}
		predictions.POST("", h.predict)
		predictions.GET("/current", h.currentPrediction)
		predictions.GET("/history", h.predictionHistory)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	api.GET("/logs", h.getLogs)
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}
