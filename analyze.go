package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/nutrition-tracker-api/tracker"
)

// analyzeMeal turns a description or photo into itemized macros with kcal
// corrected against the macros. Nothing is stored; the client reviews the
// items and posts them as a meal.
// POST /api/analyze
func (h *Handler) analyzeMeal(c *gin.Context) {
	var body tracker.AnalysisInput
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	items, err := h.svc.AnalyzeMeal(c.Request.Context(), body)
	if err != nil {
		serviceError(c, "analyzeMeal", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
