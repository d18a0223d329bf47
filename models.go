package main

import "lg/nutrition-tracker-api/tracker"

/* ─── Responses ──────────────────────────────────────────────────────── */

// dayLogResponse is the shape of every day-log endpoint: the stored log plus
// the totals view computed against the profile's calorie budget.
type dayLogResponse struct {
	Log    tracker.DayLog    `json:"log"`
	Totals tracker.DayTotals `json:"totals"`
}

// statsResponse adds the level progress bar values to the stats aggregate.
type statsResponse struct {
	tracker.Stats
	Progress tracker.LevelProgressInfo `json:"progress"`
}

/* ─── Requests ───────────────────────────────────────────────────────── */

// waterRequest is the body for POST /api/day-logs/:date/water.
type waterRequest struct {
	DeltaML *int `json:"delta_ml"`
}

// biometricRequest is the body for POST /api/biometrics. Confirm must be set
// to store an entry that differs by more than 20% from the previous one.
type biometricRequest struct {
	tracker.BiometricInput
	Confirm bool `json:"confirm"`
}

// awardXPRequest is the body for POST /api/stats/xp.
type awardXPRequest struct {
	Amount *int `json:"amount"`
}

// createChallengeRequest is the body for POST /api/challenges.
type createChallengeRequest struct {
	Title    string `json:"title"`
	XPReward int    `json:"xp_reward"`
}
