package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"lg/nutrition-tracker-api/realtime"
	"lg/nutrition-tracker-api/tracker"
)

// Handler holds shared dependencies for all route handlers.
type Handler struct {
	svc *tracker.Service
	hub *realtime.Hub
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// serviceError maps a tracker error to its HTTP status. fn names the calling
// handler in logs.
func serviceError(c *gin.Context, fn string, err error) {
	var warn *tracker.WeightChangeWarning
	var ae *tracker.AnalysisError
	switch {
	case errors.Is(err, tracker.ErrInvalidInput):
		apiError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, tracker.ErrNotFound):
		apiError(c, http.StatusNotFound, "not found")
	case errors.As(err, &warn):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "weight change needs confirmation",
			"warning": warn,
		})
	case errors.As(err, &ae):
		log.Printf("[%s] analysis error: %v", fn, err)
		apiError(c, http.StatusBadGateway, "analysis failed")
	default:
		log.Printf("[%s] storage error: %v", fn, err)
		apiError(c, http.StatusInternalServerError, "failed to save")
	}
}

// dateParam reads and validates the :date path parameter.
func dateParam(c *gin.Context) (string, bool) {
	date := c.Param("date")
	if _, err := time.Parse(tracker.DateLayout, date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return "", false
	}
	return date, true
}

/* ─── Server setup ────────────────────────────────────────────────────── */

func corsMiddleware(origins []string) gin.HandlerFunc {
	config := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type"}
	return cors.New(config)
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine, origins []string) {
	router.Use(corsMiddleware(origins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.GET("/day-logs/:date", h.getDayLog)
	api.POST("/day-logs/:date/meals", h.createMeal)
	api.PUT("/day-logs/:date/meals/:id", h.updateMeal)
	api.DELETE("/day-logs/:date/meals/:id", h.deleteMeal)
	api.POST("/day-logs/:date/water", h.adjustWater)
	api.POST("/day-logs/:date/exercises", h.createExercise)
	api.GET("/week-summary", h.getWeekSummary)

	api.GET("/biometrics", h.getBiometrics)
	api.POST("/biometrics", h.createBiometricEntry)
	api.DELETE("/biometrics/:id", h.deleteBiometricEntry)

	api.GET("/profile", h.getProfile)
	api.POST("/profile/onboarding", h.completeOnboarding)
	api.PATCH("/profile", h.patchProfile)

	api.GET("/stats", h.getStats)
	api.POST("/stats/xp", h.awardXP)
	api.POST("/challenges", h.createChallenge)
	api.POST("/challenges/:id/complete", h.completeChallenge)
	api.DELETE("/challenges/:id", h.deleteChallenge)

	api.POST("/analyze", h.analyzeMeal)

	if h.hub != nil {
		api.GET("/events", h.hub.ServeWS)
	}
}
