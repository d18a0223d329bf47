package tracker

import (
	"time"
)

// DateLayout is the ISO calendar-date layout used for day-log keys and JSON dates.
const DateLayout = "2006-01-02"

// DateKey formats t as a day-log key in t's own location.
func DateKey(t time.Time) string { return t.Format(DateLayout) }

/* ─── Nutrition log ──────────────────────────────────────────────────── */

// Macros holds energy and macronutrient grams for one food item.
type Macros struct {
	Kcal float64 `json:"kcal"`
	P    float64 `json:"p"`
	C    float64 `json:"c"`
	F    float64 `json:"f"`
}

// MealItem is one food item inside a meal, as entered or returned by analysis.
type MealItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Macros   Macros  `json:"macros"`
}

// MealType is one of the fixed meal slots of a day.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealSnack     MealType = "snack"
	MealDinner    MealType = "dinner"
)

// validMealTypes is the set of allowed meal slots.
var validMealTypes = map[MealType]bool{
	MealBreakfast: true,
	MealLunch:     true,
	MealSnack:     true,
	MealDinner:    true,
}

// Valid reports whether t is a known meal slot.
func (t MealType) Valid() bool { return validMealTypes[t] }

// Meal is one eating occasion. Its items are stored as analyzed or entered.
type Meal struct {
	ID        string     `json:"id"`
	Type      MealType   `json:"type"`
	UpdatedAt time.Time  `json:"timestamp_updated"`
	Items     []MealItem `json:"items"`
}

// Exercise is a logged workout. CaloriesBurned is derived from MET, body
// weight and duration at logging time and stored with the entry.
type Exercise struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes float64 `json:"duration_minutes"`
	MET             float64 `json:"met"`
	CaloriesBurned  int     `json:"calories_burned"`
}

// DaySummary is derived from a day's meals and water; never authored directly.
type DaySummary struct {
	TotalKcal     int `json:"total_kcal"`
	TotalProtein  int `json:"total_protein"`
	WaterIntakeML int `json:"water_intake_ml"`
}

// DayLog is everything logged for one calendar date.
type DayLog struct {
	Date      string     `json:"date"`
	Summary   DaySummary `json:"summary"`
	Meals     []Meal     `json:"meals"`
	Exercises []Exercise `json:"exercises"`
}

// HasActivity reports whether the day counts as logged for streak purposes.
func (l DayLog) HasActivity() bool {
	return len(l.Meals) > 0 || len(l.Exercises) > 0
}

// clone returns a copy of l whose slices can be modified without touching l.
func (l DayLog) clone() DayLog {
	out := l
	out.Meals = append([]Meal(nil), l.Meals...)
	out.Exercises = append([]Exercise(nil), l.Exercises...)
	return out
}

func emptyDayLog(date string) DayLog {
	return DayLog{Date: date, Meals: []Meal{}, Exercises: []Exercise{}}
}

/* ─── Biometrics ─────────────────────────────────────────────────────── */

// BiometricBasics holds the weight and the BMI derived from it.
type BiometricBasics struct {
	WeightKG float64 `json:"weight_kg"`
	BMI      float64 `json:"bmi"`
}

// Circumferences are optional body measurements in centimetres.
type Circumferences struct {
	Waist      *float64 `json:"waist,omitempty"`
	Abdomen    *float64 `json:"abdomen,omitempty"`
	Hips       *float64 `json:"hips,omitempty"`
	Neck       *float64 `json:"neck,omitempty"`
	ArmRight   *float64 `json:"arm_right,omitempty"`
	ThighRight *float64 `json:"thigh_right,omitempty"`
	CalfRight  *float64 `json:"calf_right,omitempty"`
}

// Ratios are derived from the circumferences and the profile height.
type Ratios struct {
	WaistHip    *float64 `json:"waist_hip_ratio,omitempty"`
	WaistHeight *float64 `json:"waist_height_ratio,omitempty"`
}

// BiometricEntry is one body measurement record. At most one entry exists per date.
type BiometricEntry struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	Basics         BiometricBasics `json:"basics"`
	Circumferences Circumferences  `json:"circumferences_cm"`
	Ratios         Ratios          `json:"ratios"`
}

/* ─── Profile ────────────────────────────────────────────────────────── */

type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Goal is the weight objective that shifts the daily calorie target.
type Goal string

const (
	GoalLoss        Goal = "loss"
	GoalMaintenance Goal = "maintenance"
	GoalGain        Goal = "hypertrophy"
)

// Profile holds the user's identity, anthropometry and the targets derived
// from them at onboarding (or on the last profile update).
type Profile struct {
	Name            string  `json:"name"`
	Sex             Sex     `json:"gender"`
	BirthDate       string  `json:"birthDate"`
	HeightCM        float64 `json:"height_cm"`
	CurrentWeightKG float64 `json:"current_weight_kg"`
	AbdominalCircCM float64 `json:"abdominal_circ_cm,omitempty"`
	TargetWeightKG  float64 `json:"target_weight_kg"`
	ActivityFactor  float64 `json:"activity_factor"`
	Goal            Goal    `json:"goal"`

	CalculatedBMR    int `json:"calculated_tmb"`
	DailyKcalGoal    int `json:"daily_kcal_goal"`
	DailyWaterGoalML int `json:"daily_water_goal"`

	OnboardingCompleted bool `json:"onboarding_completed"`
}

// DefaultProfile is the profile used before onboarding.
func DefaultProfile() Profile {
	return Profile{
		Sex:              SexMale,
		ActivityFactor:   1.2,
		Goal:             GoalMaintenance,
		DailyKcalGoal:    2000,
		DailyWaterGoalML: 2000,
	}
}

/* ─── Gamification ───────────────────────────────────────────────────── */

// MetricKind selects which running statistic a badge tracks.
type MetricKind string

const (
	MetricLoggingStreak MetricKind = "logging_streak"
	MetricWaterStreak   MetricKind = "water_streak"
	MetricTotalLogs     MetricKind = "total_logs"
	MetricLevel         MetricKind = "level"
)

// Tier is one step of a badge's unlock ladder. UnlockedAt is set once.
type Tier struct {
	Level      int        `json:"level"`
	Target     int        `json:"target"`
	XPReward   int        `json:"xp_reward"`
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
}

// Badge is a catalog entry: display metadata, the tracked metric and its tiers
// in ascending target order.
type Badge struct {
	ID                  string     `json:"id"`
	Category            string     `json:"category"`
	Name                string     `json:"name"`
	DescriptionTemplate string     `json:"description_template"`
	Icon                string     `json:"icon"`
	Metric              MetricKind `json:"metric"`
	CurrentValue        int        `json:"currentValue"`
	Tiers               []Tier     `json:"tiers"`
}

// UnlockedTiers returns how many tiers of b are unlocked.
func (b Badge) UnlockedTiers() int {
	n := 0
	for _, t := range b.Tiers {
		if t.Unlocked {
			n++
		}
	}
	return n
}

// Challenge is a user-authored one-off goal. Title and reward never change
// after creation; Completed only moves false -> true.
type Challenge struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	XPReward    int        `json:"xp_reward"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Stats is the gamification aggregate. Level is always LevelFromXP(TotalXP);
// the streak counters and TotalLogsCount are recomputed from the logs.
type Stats struct {
	TotalXP         int         `json:"total_xp"`
	Level           int         `json:"current_level"`
	Badges          []Badge     `json:"badges"`
	StreakDays      int         `json:"streak_days"`
	WaterStreakDays int         `json:"water_streak_days"`
	TotalLogsCount  int         `json:"total_logs_count"`
	Challenges      []Challenge `json:"custom_challenges"`
}

// DefaultStats is the stats aggregate of a brand-new user.
func DefaultStats() Stats {
	return Stats{
		Level:      1,
		Badges:     DefaultCatalog(),
		Challenges: []Challenge{},
	}
}

// clone deep-copies the mutable parts of s.
func (s Stats) clone() Stats {
	out := s
	out.Badges = cloneCatalog(s.Badges)
	out.Challenges = append([]Challenge(nil), s.Challenges...)
	return out
}

// snapshot builds the metric values badges are evaluated against.
func (s Stats) snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		LoggingStreak: s.StreakDays,
		WaterStreak:   s.WaterStreakDays,
		TotalLogs:     s.TotalLogsCount,
		Level:         s.Level,
	}
}
