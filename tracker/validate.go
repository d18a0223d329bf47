package tracker

import (
	"fmt"
	"strings"
	"time"
)

// Physiological bounds checked before data reaches the engine.
const (
	minBirthYear = 1900
	minWeightKG  = 30
	maxWeightKG  = 300
	minHeightCM  = 50
	maxHeightCM  = 300
	minCircCM    = 10
	maxCircCM    = 300
	minAbdCircCM = 30
)

// OnboardingInput is the first-run questionnaire.
type OnboardingInput struct {
	Name            string  `json:"name"`
	Sex             Sex     `json:"gender"`
	BirthDate       string  `json:"birthDate"`
	HeightCM        float64 `json:"height_cm"`
	WeightKG        float64 `json:"current_weight_kg"`
	TargetWeightKG  float64 `json:"target_weight_kg"`
	AbdominalCircCM float64 `json:"abdominal_circ_cm"`
	ActivityFactor  float64 `json:"activity_factor"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

// ValidateOnboarding checks the questionnaire against plausible human ranges.
func ValidateOnboarding(in OnboardingInput, now time.Time) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name is required")
	}
	if in.Sex != SexMale && in.Sex != SexFemale {
		return invalid("gender must be M or F")
	}
	birth, err := time.Parse(DateLayout, in.BirthDate)
	if err != nil {
		return invalid("birthDate must be YYYY-MM-DD")
	}
	if birth.Year() < minBirthYear || birth.Year() > now.Year() {
		return invalid("birth year must be between %d and %d", minBirthYear, now.Year())
	}
	if err := validateWeight(in.WeightKG); err != nil {
		return err
	}
	if err := validateHeight(in.HeightCM); err != nil {
		return err
	}
	if in.AbdominalCircCM < minAbdCircCM || in.AbdominalCircCM > maxCircCM {
		return invalid("abdominal circumference must be between %d and %d cm", minAbdCircCM, maxCircCM)
	}
	if in.TargetWeightKG < minWeightKG {
		return invalid("target weight must be at least %d kg", minWeightKG)
	}
	if _, ok := ActivityFactors[in.ActivityFactor]; !ok {
		return invalid("activity_factor must be one of 1.2, 1.375, 1.55, 1.725")
	}
	return nil
}

// ValidateBiometric checks a measurement entry.
func ValidateBiometric(in BiometricInput) error {
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return invalid("date must be YYYY-MM-DD")
	}
	if err := validateWeight(in.WeightKG); err != nil {
		return err
	}
	c := in.Circumferences
	for name, v := range map[string]*float64{
		"waist": c.Waist, "abdomen": c.Abdomen, "hips": c.Hips, "neck": c.Neck,
		"arm_right": c.ArmRight, "thigh_right": c.ThighRight, "calf_right": c.CalfRight,
	} {
		if v != nil && (*v < minCircCM || *v > maxCircCM) {
			return invalid("%s must be between %d and %d cm", name, minCircCM, maxCircCM)
		}
	}
	return nil
}

// MealInput is a meal as submitted for add or edit.
type MealInput struct {
	Type  MealType   `json:"type"`
	Items []MealItem `json:"items"`
}

func validateMeal(in MealInput) error {
	if !in.Type.Valid() {
		return invalid("type must be one of: breakfast, lunch, snack, dinner")
	}
	if len(in.Items) == 0 {
		return invalid("at least one item is required")
	}
	for _, it := range in.Items {
		if strings.TrimSpace(it.Name) == "" {
			return invalid("item name is required")
		}
		m := it.Macros
		if m.Kcal < 0 || m.P < 0 || m.C < 0 || m.F < 0 {
			return invalid("macros must not be negative")
		}
	}
	return nil
}

// ExerciseInput is a workout as submitted; calories are derived.
type ExerciseInput struct {
	Name            string  `json:"name"`
	DurationMinutes float64 `json:"duration_minutes"`
	MET             float64 `json:"met"`
}

func validateExercise(in ExerciseInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name is required")
	}
	if in.DurationMinutes <= 0 || in.DurationMinutes > 24*60 {
		return invalid("duration_minutes must be between 0 and 1440")
	}
	if in.MET <= 0 || in.MET > 25 {
		return invalid("met must be between 0 and 25")
	}
	return nil
}

func validateWeight(kg float64) error {
	if kg < minWeightKG || kg > maxWeightKG {
		return invalid("weight must be between %d and %d kg", minWeightKG, maxWeightKG)
	}
	return nil
}

func validateHeight(cm float64) error {
	if cm < minHeightCM || cm > maxHeightCM {
		return invalid("height must be between %d and %d cm", minHeightCM, maxHeightCM)
	}
	return nil
}
