package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/nutrition-tracker-api/tracker"
)

// getProfile handles GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Profile())
}

// completeOnboarding validates the questionnaire and derives the calorie and
// water targets from it.
// POST /api/profile/onboarding
func (h *Handler) completeOnboarding(c *gin.Context) {
	var body tracker.OnboardingInput
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	profile, award, err := h.svc.CompleteOnboarding(c.Request.Context(), body)
	if err != nil {
		serviceError(c, "completeOnboarding", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile, "award": award})
}

// patchProfile updates only the fields present in the body. Targets are
// recomputed unless daily_kcal_goal / daily_water_goal are given explicitly.
// PATCH /api/profile
func (h *Handler) patchProfile(c *gin.Context) {
	var body tracker.ProfilePatch
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	profile, err := h.svc.UpdateProfile(c.Request.Context(), body)
	if err != nil {
		serviceError(c, "patchProfile", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
