package tracker

import (
	"testing"
	"time"
)

var badgeNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func findBadge(t *testing.T, catalog []Badge, id string) Badge {
	t.Helper()
	for _, b := range catalog {
		if b.ID == id {
			return b
		}
	}
	t.Fatalf("badge %q not in catalog", id)
	return Badge{}
}

func TestDefaultCatalog_TiersAscending(t *testing.T) {
	for _, b := range DefaultCatalog() {
		for i := 1; i < len(b.Tiers); i++ {
			if b.Tiers[i].Target <= b.Tiers[i-1].Target {
				t.Errorf("%s: tier %d target %d not above %d", b.ID, i+1, b.Tiers[i].Target, b.Tiers[i-1].Target)
			}
			if b.Tiers[i].Unlocked {
				t.Errorf("%s: tier %d unlocked in a fresh catalog", b.ID, i+1)
			}
		}
	}
}

// TestEvaluateBadges_MultipleTiersInOnePass verifies a metric jump unlocks
// every tier it passes, with the combined reward.
func TestEvaluateBadges_MultipleTiersInOnePass(t *testing.T) {
	res := EvaluateBadges(DefaultCatalog(), MetricsSnapshot{LoggingStreak: 8, Level: 1}, badgeNow)

	b := findBadge(t, res.Catalog, "consistency_streak")
	if b.UnlockedTiers() != 2 {
		t.Fatalf("unlocked tiers = %d, want 2", b.UnlockedTiers())
	}
	if res.XPGained != 100+200 {
		t.Errorf("XPGained = %d, want 300", res.XPGained)
	}
	if len(res.Unlocked) != 2 || res.Unlocked[0].Tier != 1 || res.Unlocked[1].Tier != 2 {
		t.Errorf("unexpected unlock order: %+v", res.Unlocked)
	}
	if b.Tiers[0].UnlockedAt == nil || !b.Tiers[0].UnlockedAt.Equal(badgeNow) {
		t.Errorf("tier 1 UnlockedAt = %v, want %v", b.Tiers[0].UnlockedAt, badgeNow)
	}
	if b.CurrentValue != 8 {
		t.Errorf("CurrentValue = %d, want 8", b.CurrentValue)
	}
}

func TestEvaluateBadges_Idempotent(t *testing.T) {
	snap := MetricsSnapshot{WaterStreak: 3, TotalLogs: 12, Level: 1}
	first := EvaluateBadges(DefaultCatalog(), snap, badgeNow)
	if first.XPGained != 50+20 {
		t.Fatalf("first XPGained = %d, want 70", first.XPGained)
	}

	second := EvaluateBadges(first.Catalog, snap, badgeNow.Add(time.Hour))
	if second.XPGained != 0 || len(second.Unlocked) != 0 {
		t.Errorf("re-evaluation awarded %d XP, %d unlocks", second.XPGained, len(second.Unlocked))
	}

	// A lower value never re-locks.
	lower := EvaluateBadges(first.Catalog, MetricsSnapshot{Level: 1}, badgeNow)
	if findBadge(t, lower.Catalog, "water_streak").UnlockedTiers() != 1 {
		t.Error("water badge tier was re-locked")
	}
	at := findBadge(t, second.Catalog, "water_streak").Tiers[0].UnlockedAt
	if at == nil || !at.Equal(badgeNow) {
		t.Errorf("UnlockedAt changed on re-evaluation: %v", at)
	}
}

func TestEvaluateBadges_DoesNotMutateInput(t *testing.T) {
	catalog := DefaultCatalog()
	EvaluateBadges(catalog, MetricsSnapshot{LoggingStreak: 400, Level: 1}, badgeNow)
	for _, b := range catalog {
		if b.UnlockedTiers() != 0 {
			t.Errorf("%s modified in place", b.ID)
		}
	}
}

func TestMergeCatalog_AddsMissingBadges(t *testing.T) {
	stored := EvaluateBadges(DefaultCatalog()[:1], MetricsSnapshot{WaterStreak: 3}, badgeNow).Catalog
	merged := mergeCatalog(stored)
	if len(merged) != len(DefaultCatalog()) {
		t.Fatalf("merged %d badges, want %d", len(merged), len(DefaultCatalog()))
	}
	if findBadge(t, merged, "water_streak").UnlockedTiers() != 1 {
		t.Error("stored unlock state lost in merge")
	}
}
