package tracker

import "time"

// MaxStreakWindow bounds the backward scan in ComputeStreaks. Streaks longer
// than this are reported as MaxStreakWindow.
const MaxStreakWindow = 365

// StreakMetrics are the running statistics recomputed from the full log history.
type StreakMetrics struct {
	LoggingStreak    int `json:"logging_streak"`
	WaterStreak      int `json:"water_streak"`
	TotalLoggedCount int `json:"total_logged_count"`
}

// ComputeStreaks walks backward from today, one calendar day at a time, for at
// most MaxStreakWindow days.
//
// A day counts as logged when it has at least one meal or exercise. The logging
// streak stops at the first day that is not logged, except today: an empty
// today is skipped so it cannot zero a streak that ended yesterday.
//
// The water streak only advances on logged days that meet waterGoalML. A logged
// day below the goal ends the water streak without affecting the logging
// streak; today's shortfall is skipped the same way an empty today is.
//
// TotalLoggedCount covers every stored day, not just the scanned window.
func ComputeStreaks(logs map[string]DayLog, waterGoalML int, today time.Time) StreakMetrics {
	var m StreakMetrics
	for _, l := range logs {
		m.TotalLoggedCount += len(l.Meals) + len(l.Exercises)
	}

	waterOpen := true
	for i := 0; i < MaxStreakWindow; i++ {
		l, ok := logs[DateKey(today.AddDate(0, 0, -i))]
		if !ok || !l.HasActivity() {
			if i == 0 {
				continue
			}
			break
		}
		m.LoggingStreak++

		if !waterOpen {
			continue
		}
		switch {
		case l.Summary.WaterIntakeML >= waterGoalML:
			m.WaterStreak++
		case i == 0:
			// today still in progress
		default:
			waterOpen = false
		}
	}
	return m
}
