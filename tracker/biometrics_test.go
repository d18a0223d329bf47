package tracker

import "testing"

func f64(v float64) *float64 { return &v }

func TestNewBiometricEntry_Ratios(t *testing.T) {
	in := BiometricInput{
		Date:     "2026-10-18",
		WeightKG: 80,
		Circumferences: Circumferences{
			Waist: f64(85),
			Hips:  f64(100),
		},
	}
	e := NewBiometricEntry("b1", in, 180)
	if e.Basics.BMI != 24.7 {
		t.Errorf("BMI = %v, want 24.7", e.Basics.BMI)
	}
	if e.Ratios.WaistHip == nil || *e.Ratios.WaistHip != 0.85 {
		t.Errorf("WaistHip = %v, want 0.85", e.Ratios.WaistHip)
	}
	if e.Ratios.WaistHeight == nil || *e.Ratios.WaistHeight != 0.47 {
		t.Errorf("WaistHeight = %v, want 0.47", e.Ratios.WaistHeight)
	}
}

func TestNewBiometricEntry_UnknownHeight(t *testing.T) {
	e := NewBiometricEntry("b1", BiometricInput{Date: "2026-10-18", WeightKG: 80, Circumferences: Circumferences{Waist: f64(85)}}, 0)
	if e.Basics.BMI != 0 || e.Ratios.WaistHeight != nil || e.Ratios.WaistHip != nil {
		t.Errorf("expected no derived values, got %+v", e)
	}
}

func TestCheckWeightChange(t *testing.T) {
	history := []BiometricEntry{
		{ID: "a", Date: "2026-10-10", Basics: BiometricBasics{WeightKG: 80}},
		{ID: "b", Date: "2026-10-01", Basics: BiometricBasics{WeightKG: 40}},
	}
	cases := []struct {
		name    string
		date    string
		weight  float64
		warning bool
	}{
		{"small change", "2026-10-18", 84, false},
		{"exactly 20 percent", "2026-10-18", 96, false},
		{"large gain", "2026-10-18", 100, true},
		{"large loss", "2026-10-18", 60, true},
		{"same date compared to older entry", "2026-10-10", 42, false},
		{"backfill compared to prior entry only", "2026-10-05", 41, false},
		{"backfill large change vs prior entry", "2026-10-05", 60, true},
		{"older than every entry", "2026-09-01", 200, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry := BiometricEntry{Date: tc.date, Basics: BiometricBasics{WeightKG: tc.weight}}
			w := CheckWeightChange(history, entry)
			if (w != nil) != tc.warning {
				t.Errorf("warning = %v, want %v", w, tc.warning)
			}
		})
	}

	if CheckWeightChange(nil, BiometricEntry{Date: "2026-10-18", Basics: BiometricBasics{WeightKG: 200}}) != nil {
		t.Error("first entry should never warn")
	}
}

func TestUpsertBiometric_OnePerDate(t *testing.T) {
	history := []BiometricEntry{
		{ID: "a", Date: "2026-10-10", Basics: BiometricBasics{WeightKG: 80}},
	}
	history = UpsertBiometric(history, BiometricEntry{ID: "new", Date: "2026-10-12", Basics: BiometricBasics{WeightKG: 79}})
	history = UpsertBiometric(history, BiometricEntry{ID: "other", Date: "2026-10-10", Basics: BiometricBasics{WeightKG: 81}})

	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].Date != "2026-10-12" {
		t.Errorf("not sorted newest first: %v", history)
	}
	if history[1].ID != "a" || history[1].Basics.WeightKG != 81 {
		t.Errorf("replacement = %+v, want id a with 81 kg", history[1])
	}
}

func TestRemoveBiometric(t *testing.T) {
	history := []BiometricEntry{{ID: "a", Date: "2026-10-10"}, {ID: "b", Date: "2026-10-09"}}
	out, ok := RemoveBiometric(history, "a")
	if !ok || len(out) != 1 || out[0].ID != "b" {
		t.Errorf("got %v ok=%v", out, ok)
	}
	if _, ok := RemoveBiometric(history, "zzz"); ok {
		t.Error("unknown id reported found")
	}
}
