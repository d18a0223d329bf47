package tracker

import (
	"math"
	"sort"
)

// MaxWeightChange is the fraction of change vs the previous entry above which
// a new weight needs explicit confirmation.
const MaxWeightChange = 0.20

// BiometricInput is a user-entered measurement before derived fields are added.
type BiometricInput struct {
	Date           string         `json:"date"`
	WeightKG       float64        `json:"weight_kg"`
	Circumferences Circumferences `json:"circumferences_cm"`
}

// NewBiometricEntry derives BMI and ratios for in. BMI is left at zero when
// the height is unknown (profile not onboarded yet).
func NewBiometricEntry(id string, in BiometricInput, heightCM float64) BiometricEntry {
	e := BiometricEntry{
		ID:             id,
		Date:           in.Date,
		Basics:         BiometricBasics{WeightKG: in.WeightKG},
		Circumferences: in.Circumferences,
	}
	if heightCM > 0 {
		e.Basics.BMI = BMI(in.WeightKG, heightCM)
	}
	c := in.Circumferences
	if c.Waist != nil && c.Hips != nil && *c.Hips > 0 {
		r := roundTo(*c.Waist / *c.Hips, 2)
		e.Ratios.WaistHip = &r
	}
	if c.Waist != nil && heightCM > 0 {
		r := roundTo(*c.Waist/heightCM, 2)
		e.Ratios.WaistHeight = &r
	}
	return e
}

// CheckWeightChange compares entry against the most recent entry dated before
// it. It returns nil when there is no such entry or the change is within
// MaxWeightChange.
func CheckWeightChange(history []BiometricEntry, entry BiometricEntry) *WeightChangeWarning {
	var prev *BiometricEntry
	for i := range history {
		h := &history[i]
		if h.Date >= entry.Date {
			continue
		}
		if prev == nil || h.Date > prev.Date {
			prev = h
		}
	}
	if prev == nil || prev.Basics.WeightKG <= 0 {
		return nil
	}
	delta := math.Abs(entry.Basics.WeightKG-prev.Basics.WeightKG) / prev.Basics.WeightKG
	if delta <= MaxWeightChange {
		return nil
	}
	return &WeightChangeWarning{
		PreviousDate: prev.Date,
		PreviousKG:   prev.Basics.WeightKG,
		NewKG:        entry.Basics.WeightKG,
		DeltaPct:     roundTo(delta*100, 1),
	}
}

// UpsertBiometric returns a new history where entry replaces any entry on the
// same date (keeping that entry's ID), sorted by date descending.
func UpsertBiometric(history []BiometricEntry, entry BiometricEntry) []BiometricEntry {
	out := make([]BiometricEntry, 0, len(history)+1)
	for _, h := range history {
		if h.Date == entry.Date {
			entry.ID = h.ID
			continue
		}
		out = append(out, h)
	}
	out = append(out, entry)
	sortBiometrics(out)
	return out
}

// RemoveBiometric returns history without the entry with the given id.
func RemoveBiometric(history []BiometricEntry, id string) ([]BiometricEntry, bool) {
	out := make([]BiometricEntry, 0, len(history))
	found := false
	for _, h := range history {
		if h.ID == id {
			found = true
			continue
		}
		out = append(out, h)
	}
	return out, found
}

func sortBiometrics(entries []BiometricEntry) {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })
}
