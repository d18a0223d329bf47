package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/nutrition-tracker-api/tracker"
)

// getStats returns XP, level, badges, streaks and challenges.
// GET /api/stats
func (h *Handler) getStats(c *gin.Context) {
	stats := h.svc.Stats()
	c.JSON(http.StatusOK, statsResponse{Stats: stats, Progress: tracker.LevelProgress(stats.TotalXP)})
}

// awardXP handles POST /api/stats/xp.
func (h *Handler) awardXP(c *gin.Context) {
	var body awardXPRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Amount == nil {
		apiError(c, http.StatusBadRequest, "amount is required")
		return
	}
	stats, award, err := h.svc.AwardXP(c.Request.Context(), *body.Amount)
	if err != nil {
		serviceError(c, "awardXP", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "award": award})
}

// createChallenge handles POST /api/challenges.
func (h *Handler) createChallenge(c *gin.Context) {
	var body createChallengeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	ch, err := h.svc.AddChallenge(c.Request.Context(), body.Title, body.XPReward)
	if err != nil {
		serviceError(c, "createChallenge", err)
		return
	}
	c.JSON(http.StatusCreated, ch)
}

// completeChallenge awards the challenge XP the first time only. Completing
// an unknown or already completed challenge returns completed=false.
// POST /api/challenges/:id/complete
func (h *Handler) completeChallenge(c *gin.Context) {
	award, ok, err := h.svc.CompleteChallenge(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, "completeChallenge", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed": ok, "award": award})
}

// deleteChallenge handles DELETE /api/challenges/:id.
func (h *Handler) deleteChallenge(c *gin.Context) {
	if err := h.svc.DeleteChallenge(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, "deleteChallenge", err)
		return
	}
	c.Status(http.StatusNoContent)
}
