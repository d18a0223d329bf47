package tracker

import (
	"math"
	"time"
)

// RecomputeSummary derives a day's summary from its meals and water intake.
// Kcal and protein are summed over every item of every meal and rounded;
// water is carried through unchanged.
func RecomputeSummary(meals []Meal, waterML int) DaySummary {
	var kcal, protein float64
	for _, m := range meals {
		for _, it := range m.Items {
			kcal += it.Macros.Kcal
			protein += it.Macros.P
		}
	}
	return DaySummary{
		TotalKcal:     int(math.Round(kcal)),
		TotalProtein:  int(math.Round(protein)),
		WaterIntakeML: waterML,
	}
}

// ApplyWaterDelta adds delta to current, flooring the result at zero.
func ApplyWaterDelta(current, delta int) int {
	if next := current + delta; next > 0 {
		return next
	}
	return 0
}

/* ─── Read-side views ────────────────────────────────────────────────── */

// DayTotals is the computed view returned alongside a day log.
type DayTotals struct {
	Date             string  `json:"date"`
	CalorieBudget    int     `json:"calorie_budget"`
	CaloriesFood     int     `json:"calories_food"`
	CaloriesExercise int     `json:"calories_exercise"`
	NetCalories      int     `json:"net_calories"`
	CaloriesLeft     int     `json:"calories_left"`
	ProteinG         float64 `json:"protein_g"`
	CarbsG           float64 `json:"carbs_g"`
	FatG             float64 `json:"fat_g"`
	WaterIntakeML    int     `json:"water_intake_ml"`
	HasData          bool    `json:"has_data"`
}

// ComputeDayTotals builds the totals view for one day against a calorie budget.
// Net = food minus exercise, left = budget minus net.
func ComputeDayTotals(log DayLog, budget int) DayTotals {
	t := DayTotals{
		Date:          log.Date,
		CalorieBudget: budget,
		CaloriesFood:  log.Summary.TotalKcal,
		WaterIntakeML: log.Summary.WaterIntakeML,
		HasData:       log.HasActivity() || log.Summary.WaterIntakeML > 0,
	}
	var protein, carbs, fat float64
	for _, m := range log.Meals {
		for _, it := range m.Items {
			protein += it.Macros.P
			carbs += it.Macros.C
			fat += it.Macros.F
		}
	}
	for _, e := range log.Exercises {
		t.CaloriesExercise += e.CaloriesBurned
	}
	t.ProteinG = roundTo(protein, 1)
	t.CarbsG = roundTo(carbs, 1)
	t.FatG = roundTo(fat, 1)
	t.NetCalories = t.CaloriesFood - t.CaloriesExercise
	t.CaloriesLeft = budget - t.NetCalories
	return t
}

// WeekSummary returns totals for the 7 days starting at weekStart, filling
// days with no log as zero with HasData=false.
func WeekSummary(logs map[string]DayLog, weekStart time.Time, budget int) []DayTotals {
	result := make([]DayTotals, 7)
	for i := 0; i < 7; i++ {
		key := DateKey(weekStart.AddDate(0, 0, i))
		log, ok := logs[key]
		if !ok {
			log = emptyDayLog(key)
		}
		result[i] = ComputeDayTotals(log, budget)
	}
	return result
}

// CurrentMonday returns the Monday of now's week at midnight in now's location.
// Uses AddDate to safely handle month/year boundaries.
func CurrentMonday(now time.Time) time.Time {
	weekday := int(now.Weekday()) // 0=Sun
	if weekday == 0 {
		weekday = 7 // treat Sunday as day 7 so Mon=1..Sun=7
	}
	d := now.AddDate(0, 0, -(weekday - 1))
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
}
