package tracker

import "math"

// Atwater factors in kcal per gram.
const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// AtwaterKcal computes the energy implied by a set of macros.
func AtwaterKcal(m Macros) float64 {
	return m.P*kcalPerGramProtein + m.C*kcalPerGramCarbs + m.F*kcalPerGramFat
}

// CorrectMacros returns a copy of items where each item's kcal is replaced by
// the Atwater value when the two disagree by more than 20% of
// max(reported, 50), or when kcal is zero but the macros imply energy.
// Items are corrected, never dropped.
func CorrectMacros(items []MealItem) []MealItem {
	out := make([]MealItem, len(items))
	for i, it := range items {
		out[i] = it
		calc := AtwaterKcal(it.Macros)
		reported := it.Macros.Kcal
		if math.Abs(calc-reported) > math.Max(reported, 50)*0.2 || (reported == 0 && calc > 0) {
			out[i].Macros.Kcal = math.Round(calc)
		}
	}
	return out
}
