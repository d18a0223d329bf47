package tracker

import (
	"testing"
	"time"
)

func TestBasalMetabolicRate(t *testing.T) {
	cases := []struct {
		name   string
		weight float64
		height float64
		age    int
		sex    Sex
		want   int
	}{
		{"male 70kg 175cm 30y", 70, 175, 30, SexMale, 1649},
		{"female 60kg 165cm 25y", 60, 165, 25, SexFemale, 1345},
		{"male 100kg 190cm 50y", 100, 190, 50, SexMale, 1943},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BasalMetabolicRate(tc.weight, tc.height, tc.age, tc.sex)
			if got != tc.want {
				t.Errorf("BasalMetabolicRate = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDailyCalorieTarget(t *testing.T) {
	cases := []struct {
		goal Goal
		want int
	}{
		{GoalMaintenance, 1979},
		{GoalLoss, 1479},
		{GoalGain, 2279},
	}
	for _, tc := range cases {
		t.Run(string(tc.goal), func(t *testing.T) {
			// 1649 * 1.2 = 1978.8
			if got := DailyCalorieTarget(1649, 1.2, tc.goal); got != tc.want {
				t.Errorf("DailyCalorieTarget(%s) = %d, want %d", tc.goal, got, tc.want)
			}
		})
	}
}

func TestAge_BirthdayNotYetReached(t *testing.T) {
	birth := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	if got := Age(birth, time.Date(2020, 6, 14, 0, 0, 0, 0, time.UTC)); got != 29 {
		t.Errorf("day before birthday: got %d, want 29", got)
	}
	if got := Age(birth, time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)); got != 30 {
		t.Errorf("on birthday: got %d, want 30", got)
	}
}

func TestWaterGoalAndBMI(t *testing.T) {
	if got := WaterGoalML(70); got != 2450 {
		t.Errorf("WaterGoalML(70) = %d, want 2450", got)
	}
	if got := BMI(70, 175); got != 22.9 {
		t.Errorf("BMI(70, 175) = %v, want 22.9", got)
	}
	if got := ExerciseCalories(8, 70, 30); got != 280 {
		t.Errorf("ExerciseCalories = %d, want 280", got)
	}
}

func TestGoalForTarget(t *testing.T) {
	if g := GoalForTarget(80, 75); g != GoalLoss {
		t.Errorf("got %s, want loss", g)
	}
	if g := GoalForTarget(80, 85); g != GoalGain {
		t.Errorf("got %s, want hypertrophy", g)
	}
	if g := GoalForTarget(80, 80); g != GoalMaintenance {
		t.Errorf("got %s, want maintenance", g)
	}
}

func TestLevelFromXP(t *testing.T) {
	cases := []struct{ xp, want int }{
		{0, 1}, {499, 1}, {500, 2}, {999, 2}, {1000, 3}, {-20, 1},
	}
	for _, tc := range cases {
		if got := LevelFromXP(tc.xp); got != tc.want {
			t.Errorf("LevelFromXP(%d) = %d, want %d", tc.xp, got, tc.want)
		}
	}
}

// TestLevelFromXP_Monotonic checks that more XP never means a lower level.
func TestLevelFromXP_Monotonic(t *testing.T) {
	prev := LevelFromXP(0)
	for xp := 1; xp <= 20000; xp += 7 {
		lvl := LevelFromXP(xp)
		if lvl < prev {
			t.Fatalf("level dropped from %d to %d at xp=%d", prev, lvl, xp)
		}
		prev = lvl
	}
}

func TestLevelProgress(t *testing.T) {
	p := LevelProgress(1250)
	if p.Level != 3 || p.XPIntoLevel != 250 || p.XPToNextLevel != 250 || p.Percent != 50 {
		t.Errorf("unexpected progress: %+v", p)
	}
}
