package tracker

import (
	"math"
	"time"
)

// LevelXPStep is the amount of XP needed per level. Level 1 starts at 0 XP.
const LevelXPStep = 500

// ActivityFactors maps the accepted activity factors to a display label.
// This is the single source of truth for valid factors, also used by
// ValidateOnboarding and UpdateProfile.
var ActivityFactors = map[float64]string{
	1.2:   "sedentary",
	1.375: "light",
	1.55:  "moderate",
	1.725: "active",
}

// Age returns whole years between birth and asOf, subtracting one when the
// birthday has not been reached yet in asOf's year.
func Age(birth, asOf time.Time) int {
	age := asOf.Year() - birth.Year()
	if asOf.Before(birth.AddDate(age, 0, 0)) {
		age--
	}
	return age
}

// BasalMetabolicRate computes BMR via Mifflin-St Jeor, rounded to the nearest kcal.
func BasalMetabolicRate(weightKG, heightCM float64, ageYears int, sex Sex) int {
	bmr := 10*weightKG + 6.25*heightCM - 5*float64(ageYears)
	if sex == SexMale {
		bmr += 5
	} else {
		bmr -= 161
	}
	return int(math.Round(bmr))
}

// DailyCalorieTarget scales BMR by the activity factor and shifts it by goal:
// -500 kcal for weight loss, +300 kcal for muscle gain.
func DailyCalorieTarget(bmr int, activityFactor float64, goal Goal) int {
	target := float64(bmr) * activityFactor
	switch goal {
	case GoalLoss:
		target -= 500
	case GoalGain:
		target += 300
	}
	return int(math.Round(target))
}

// WaterGoalML is 35 ml per kg of body weight.
func WaterGoalML(weightKG float64) int {
	return int(math.Round(weightKG * 35))
}

// BMI returns weight / height(m)^2 rounded to one decimal.
func BMI(weightKG, heightCM float64) float64 {
	h := heightCM / 100
	return roundTo(weightKG/(h*h), 1)
}

// ExerciseCalories estimates burn as MET × kg × hours.
func ExerciseCalories(met, weightKG, durationMinutes float64) int {
	return int(math.Round(met * weightKG * (durationMinutes / 60)))
}

// GoalForTarget derives the goal from current and target weight.
func GoalForTarget(currentKG, targetKG float64) Goal {
	switch {
	case targetKG < currentKG:
		return GoalLoss
	case targetKG > currentKG:
		return GoalGain
	default:
		return GoalMaintenance
	}
}

// LevelFromXP returns floor(xp / LevelXPStep) + 1. Negative XP counts as zero.
func LevelFromXP(totalXP int) int {
	if totalXP < 0 {
		totalXP = 0
	}
	return totalXP/LevelXPStep + 1
}

// LevelProgressInfo describes where totalXP sits inside its level.
type LevelProgressInfo struct {
	Level         int     `json:"level"`
	XPIntoLevel   int     `json:"xp_into_level"`
	XPToNextLevel int     `json:"xp_to_next_level"`
	Percent       float64 `json:"percent"`
}

// LevelProgress reports the progress-bar values for totalXP.
func LevelProgress(totalXP int) LevelProgressInfo {
	if totalXP < 0 {
		totalXP = 0
	}
	into := totalXP % LevelXPStep
	return LevelProgressInfo{
		Level:         LevelFromXP(totalXP),
		XPIntoLevel:   into,
		XPToNextLevel: LevelXPStep - into,
		Percent:       roundTo(float64(into)/LevelXPStep*100, 1),
	}
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
