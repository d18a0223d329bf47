package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lg/nutrition-tracker-api/tracker"
)

func (h *Handler) respondDay(c *gin.Context, status int, day tracker.DayLog) {
	c.JSON(status, dayLogResponse{Log: day, Totals: h.svc.DayTotals(day.Date)})
}

// getDayLog returns the day's meals, exercises and water with computed totals.
// Days with nothing logged return an empty log.
// GET /api/day-logs/:date
func (h *Handler) getDayLog(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	day, _ := h.svc.DayLog(date)
	h.respondDay(c, http.StatusOK, day)
}

// createMeal handles POST /api/day-logs/:date/meals.
func (h *Handler) createMeal(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	var body tracker.MealInput
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	day, err := h.svc.AddMeal(c.Request.Context(), date, body)
	if err != nil {
		serviceError(c, "createMeal", err)
		return
	}
	h.respondDay(c, http.StatusCreated, day)
}

// updateMeal handles PUT /api/day-logs/:date/meals/:id.
func (h *Handler) updateMeal(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	var body tracker.MealInput
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	day, err := h.svc.EditMeal(c.Request.Context(), date, c.Param("id"), body)
	if err != nil {
		serviceError(c, "updateMeal", err)
		return
	}
	h.respondDay(c, http.StatusOK, day)
}

// deleteMeal handles DELETE /api/day-logs/:date/meals/:id.
func (h *Handler) deleteMeal(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	day, err := h.svc.DeleteMeal(c.Request.Context(), date, c.Param("id"))
	if err != nil {
		serviceError(c, "deleteMeal", err)
		return
	}
	h.respondDay(c, http.StatusOK, day)
}

// adjustWater adds delta_ml (negative to undo) to the day's water intake.
// POST /api/day-logs/:date/water
func (h *Handler) adjustWater(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	var body waterRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.DeltaML == nil {
		apiError(c, http.StatusBadRequest, "delta_ml is required")
		return
	}
	day, err := h.svc.AdjustWater(c.Request.Context(), date, *body.DeltaML)
	if err != nil {
		serviceError(c, "adjustWater", err)
		return
	}
	h.respondDay(c, http.StatusOK, day)
}

// createExercise handles POST /api/day-logs/:date/exercises.
func (h *Handler) createExercise(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	var body tracker.ExerciseInput
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	day, err := h.svc.AddExercise(c.Request.Context(), date, body)
	if err != nil {
		serviceError(c, "createExercise", err)
		return
	}
	h.respondDay(c, http.StatusCreated, day)
}

// getWeekSummary returns per-day totals for the 7 days starting at week_start.
// GET /api/week-summary?week_start=YYYY-MM-DD (defaults to the current Monday).
func (h *Handler) getWeekSummary(c *gin.Context) {
	var weekStart time.Time
	if s := c.Query("week_start"); s != "" {
		t, err := time.Parse(tracker.DateLayout, s)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid week_start, expected YYYY-MM-DD")
			return
		}
		weekStart = t
	} else {
		weekStart = tracker.CurrentMonday(h.svc.Now())
	}
	c.JSON(http.StatusOK, h.svc.WeekSummary(weekStart))
}
