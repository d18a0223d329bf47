package tracker

import "time"

// Fixed XP values for user actions. Meal, water and exercise logging award
// nothing directly but still run the badge pass.
const (
	XPOnboarding     = 50
	XPBiometricEntry = 30
	XPLogging        = 0
)

// Award describes what one AwardXP call did.
type Award struct {
	Amount      int          `json:"amount"`
	BadgeXP     int          `json:"badge_xp"`
	LevelBefore int          `json:"level_before"`
	LevelAfter  int          `json:"level_after"`
	Unlocked    []TierUnlock `json:"unlocked,omitempty"`
}

// LeveledUp reports whether the award moved the user to a higher level.
func (a Award) LeveledUp() bool { return a.LevelAfter > a.LevelBefore }

// AwardXP adds amount to the total (negative amounts count as zero), recomputes
// the level, then runs exactly one badge pass on the updated stats so a level
// change can itself unlock a level badge. XP from that pass is added and the
// level recomputed once more; it is not fed into a second pass.
func AwardXP(stats Stats, amount int, now time.Time) (Stats, Award) {
	if amount < 0 {
		amount = 0
	}
	next := stats.clone()
	award := Award{Amount: amount, LevelBefore: LevelFromXP(stats.TotalXP)}

	next.TotalXP += amount
	next.Level = LevelFromXP(next.TotalXP)

	eval := EvaluateBadges(next.Badges, next.snapshot(), now)
	next.Badges = eval.Catalog
	next.TotalXP += eval.XPGained
	next.Level = LevelFromXP(next.TotalXP)

	award.BadgeXP = eval.XPGained
	award.Unlocked = eval.Unlocked
	award.LevelAfter = next.Level
	return next, award
}

// withStreaks returns a copy of s carrying freshly computed streak metrics.
func (s Stats) withStreaks(m StreakMetrics) Stats {
	next := s.clone()
	next.StreakDays = m.LoggingStreak
	next.WaterStreakDays = m.WaterStreak
	next.TotalLogsCount = m.TotalLoggedCount
	return next
}
