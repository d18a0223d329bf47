package tracker

import (
	"errors"
	"testing"
	"time"
)

func validOnboarding() OnboardingInput {
	return OnboardingInput{
		Name:            "Alex",
		Sex:             SexMale,
		BirthDate:       "1996-03-10",
		HeightCM:        175,
		WeightKG:        70,
		TargetWeightKG:  68,
		AbdominalCircCM: 82,
		ActivityFactor:  1.2,
	}
}

func TestValidateOnboarding(t *testing.T) {
	now := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	if err := ValidateOnboarding(validOnboarding(), now); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	cases := []struct {
		name  string
		mutFn func(in *OnboardingInput)
	}{
		{"empty name", func(in *OnboardingInput) { in.Name = " " }},
		{"bad sex", func(in *OnboardingInput) { in.Sex = "X" }},
		{"bad birth date", func(in *OnboardingInput) { in.BirthDate = "10/03/1996" }},
		{"future birth year", func(in *OnboardingInput) { in.BirthDate = "2031-01-01" }},
		{"birth before 1900", func(in *OnboardingInput) { in.BirthDate = "1899-12-31" }},
		{"weight too low", func(in *OnboardingInput) { in.WeightKG = 25 }},
		{"weight too high", func(in *OnboardingInput) { in.WeightKG = 301 }},
		{"height too low", func(in *OnboardingInput) { in.HeightCM = 40 }},
		{"abdomen too small", func(in *OnboardingInput) { in.AbdominalCircCM = 20 }},
		{"target too low", func(in *OnboardingInput) { in.TargetWeightKG = 10 }},
		{"unknown activity factor", func(in *OnboardingInput) { in.ActivityFactor = 1.3 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validOnboarding()
			tc.mutFn(&in)
			if err := ValidateOnboarding(in, now); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestValidateBiometric(t *testing.T) {
	ok := BiometricInput{Date: "2026-10-18", WeightKG: 70, Circumferences: Circumferences{Waist: f64(80)}}
	if err := ValidateBiometric(ok); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	bad := ok
	bad.Circumferences = Circumferences{Neck: f64(5)}
	if err := ValidateBiometric(bad); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("tiny neck: got %v", err)
	}
	bad = ok
	bad.Date = "yesterday"
	if err := ValidateBiometric(bad); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad date: got %v", err)
	}
}

func TestValidateMealAndExercise(t *testing.T) {
	good := MealInput{Type: MealSnack, Items: []MealItem{item("apple", 95, 0.5, 25, 0.3)}}
	if err := validateMeal(good); err != nil {
		t.Fatalf("valid meal rejected: %v", err)
	}
	if err := validateMeal(MealInput{Type: "brunch", Items: good.Items}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown type: got %v", err)
	}
	if err := validateMeal(MealInput{Type: MealSnack}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("no items: got %v", err)
	}
	if err := validateMeal(MealInput{Type: MealSnack, Items: []MealItem{item("x", -1, 0, 0, 0)}}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative kcal: got %v", err)
	}

	if err := validateExercise(ExerciseInput{Name: "run", DurationMinutes: 30, MET: 8}); err != nil {
		t.Errorf("valid exercise rejected: %v", err)
	}
	if err := validateExercise(ExerciseInput{Name: "run", DurationMinutes: 0, MET: 8}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero duration: got %v", err)
	}
}
