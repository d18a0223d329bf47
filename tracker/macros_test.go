package tracker

import "testing"

func TestCorrectMacros(t *testing.T) {
	cases := []struct {
		name string
		in   Macros
		want float64
	}{
		{"implausible kcal corrected", Macros{Kcal: 10, P: 10, C: 10, F: 10}, 170},
		{"within tolerance kept", Macros{Kcal: 160, P: 10, C: 10, F: 10}, 160},
		{"zero kcal with macros", Macros{Kcal: 0, P: 1, C: 1, F: 0}, 8},
		{"all zero kept", Macros{}, 0},
		{"small item uses 50 floor", Macros{Kcal: 20, P: 2, C: 2, F: 1}, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := CorrectMacros([]MealItem{{Name: "x", Macros: tc.in}})
			if len(out) != 1 {
				t.Fatalf("expected 1 item, got %d", len(out))
			}
			if out[0].Macros.Kcal != tc.want {
				t.Errorf("kcal = %v, want %v", out[0].Macros.Kcal, tc.want)
			}
		})
	}
}

func TestCorrectMacros_DoesNotMutateInput(t *testing.T) {
	in := []MealItem{{Name: "x", Macros: Macros{Kcal: 10, P: 10, C: 10, F: 10}}}
	CorrectMacros(in)
	if in[0].Macros.Kcal != 10 {
		t.Error("input modified")
	}
}
