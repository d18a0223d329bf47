package tracker

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a meal or biometric entry id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput wraps every validation failure.
	ErrInvalidInput = errors.New("invalid input")
)

// AnalysisError is the recoverable failure of the food-recognition
// collaborator: a transport error, a bad status or a malformed response.
type AnalysisError struct {
	Op  string
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis %s: %v", e.Op, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// WeightChangeWarning is returned when a biometric entry differs from the most
// recent entry on another date by more than MaxWeightChange. The caller must
// confirm before the entry is stored.
type WeightChangeWarning struct {
	PreviousDate string  `json:"previous_date"`
	PreviousKG   float64 `json:"previous_kg"`
	NewKG        float64 `json:"new_kg"`
	DeltaPct     float64 `json:"delta_pct"`
}

func (w *WeightChangeWarning) Error() string {
	return fmt.Sprintf("weight changed %.1f%% since %s (%.1f kg -> %.1f kg); confirmation required",
		w.DeltaPct, w.PreviousDate, w.PreviousKG, w.NewKG)
}
