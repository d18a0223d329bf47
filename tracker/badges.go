package tracker

import "time"

// MetricsSnapshot is the set of statistics badges are evaluated against.
type MetricsSnapshot struct {
	LoggingStreak int
	WaterStreak   int
	TotalLogs     int
	Level         int
}

// Value returns the statistic a badge with the given selector tracks.
// Unknown selectors read as zero and therefore never unlock anything.
func (s MetricsSnapshot) Value(kind MetricKind) int {
	switch kind {
	case MetricLoggingStreak:
		return s.LoggingStreak
	case MetricWaterStreak:
		return s.WaterStreak
	case MetricTotalLogs:
		return s.TotalLogs
	case MetricLevel:
		return s.Level
	}
	return 0
}

/* ─── Catalog ────────────────────────────────────────────────────────── */

// newTiers builds an ascending tier ladder. Tier n (1-based) rewards baseXP*n.
func newTiers(targets []int, baseXP int) []Tier {
	tiers := make([]Tier, len(targets))
	for i, t := range targets {
		tiers[i] = Tier{Level: i + 1, Target: t, XPReward: baseXP * (i + 1)}
	}
	return tiers
}

// DefaultCatalog returns a fresh, fully locked copy of the badge catalog.
// New badges are added here as data; EvaluateBadges handles all of them.
func DefaultCatalog() []Badge {
	return []Badge{
		{
			ID:                  "water_streak",
			Category:            "hydration",
			Name:                "Water Master",
			DescriptionTemplate: "Hit your water goal {target} days in a row.",
			Icon:                "💧",
			Metric:              MetricWaterStreak,
			Tiers:               newTiers([]int{3, 7, 15, 30, 365}, 50),
		},
		{
			ID:                  "consistency_streak",
			Category:            "consistency",
			Name:                "Consistency Fire",
			DescriptionTemplate: "Log something {target} days in a row.",
			Icon:                "🔥",
			Metric:              MetricLoggingStreak,
			Tiers:               newTiers([]int{3, 7, 15, 30, 365}, 100),
		},
		{
			ID:                  "total_logs",
			Category:            "diet",
			Name:                "Iron Diary",
			DescriptionTemplate: "Record {target} meals or workouts in total.",
			Icon:                "📝",
			Metric:              MetricTotalLogs,
			Tiers:               newTiers([]int{10, 50, 100, 500, 1000}, 20),
		},
		{
			ID:                  "level_climber",
			Category:            "consistency",
			Name:                "Steady Evolution",
			DescriptionTemplate: "Reach user level {target}.",
			Icon:                "👑",
			Metric:              MetricLevel,
			CurrentValue:        1,
			Tiers:               newTiers([]int{5, 10, 20, 50, 100}, 200),
		},
	}
}

// cloneCatalog deep-copies badges so tier updates never alias the input.
func cloneCatalog(in []Badge) []Badge {
	if in == nil {
		return nil
	}
	out := make([]Badge, len(in))
	for i, b := range in {
		out[i] = b
		out[i].Tiers = append([]Tier(nil), b.Tiers...)
	}
	return out
}

// mergeCatalog adds catalog badges missing from stored (e.g. badges introduced
// after the stats were first saved). Stored unlock state is never touched.
func mergeCatalog(stored []Badge) []Badge {
	seen := make(map[string]bool, len(stored))
	for _, b := range stored {
		seen[b.ID] = true
	}
	out := cloneCatalog(stored)
	for _, b := range DefaultCatalog() {
		if !seen[b.ID] {
			out = append(out, b)
		}
	}
	return out
}

/* ─── Evaluation ─────────────────────────────────────────────────────── */

// TierUnlock records one tier transition produced by an evaluation.
type TierUnlock struct {
	BadgeID   string    `json:"badge_id"`
	BadgeName string    `json:"badge_name"`
	Tier      int       `json:"tier"`
	Target    int       `json:"target"`
	XPReward  int       `json:"xp_reward"`
	At        time.Time `json:"unlocked_at"`
}

// BadgeEvaluation is the result of one EvaluateBadges pass.
type BadgeEvaluation struct {
	Catalog  []Badge
	XPGained int
	Unlocked []TierUnlock
}

// EvaluateBadges unlocks every due tier in catalog against snap and returns
// the updated copy together with the XP those tiers award. The input catalog
// is not modified.
//
// Tiers are visited in ascending order and the scan of a badge stops at the
// first locked tier whose target is not met, so a tier never unlocks ahead of
// a lower one. Several tiers of one badge may unlock in the same pass.
// Unlocked tiers are left as they are, which makes re-evaluation with the same
// or a lower value a no-op.
func EvaluateBadges(catalog []Badge, snap MetricsSnapshot, now time.Time) BadgeEvaluation {
	res := BadgeEvaluation{Catalog: cloneCatalog(catalog)}
	for bi := range res.Catalog {
		b := &res.Catalog[bi]
		value := snap.Value(b.Metric)
		b.CurrentValue = value

		for ti := range b.Tiers {
			t := &b.Tiers[ti]
			if t.Unlocked {
				continue
			}
			if value < t.Target {
				break
			}
			at := now
			t.Unlocked = true
			t.UnlockedAt = &at
			res.XPGained += t.XPReward
			res.Unlocked = append(res.Unlocked, TierUnlock{
				BadgeID:   b.ID,
				BadgeName: b.Name,
				Tier:      t.Level,
				Target:    t.Target,
				XPReward:  t.XPReward,
				At:        now,
			})
		}
	}
	return res
}
