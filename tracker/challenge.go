package tracker

import (
	"fmt"
	"strings"
	"time"
)

// AddChallenge appends a new open challenge to stats.
func AddChallenge(stats Stats, id, title string, xpReward int) (Stats, Challenge, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return stats, Challenge{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if xpReward < 0 {
		return stats, Challenge{}, fmt.Errorf("%w: xp_reward must not be negative", ErrInvalidInput)
	}
	ch := Challenge{ID: id, Title: title, XPReward: xpReward}
	next := stats.clone()
	next.Challenges = append(next.Challenges, ch)
	return next, ch, nil
}

// CompleteChallenge marks the challenge done and awards its XP through AwardXP.
// Unknown ids and already completed challenges leave stats unchanged and
// report ok=false.
func CompleteChallenge(stats Stats, id string, now time.Time) (next Stats, award Award, ok bool) {
	idx := -1
	for i, c := range stats.Challenges {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 || stats.Challenges[idx].Completed {
		return stats, Award{}, false
	}

	marked := stats.clone()
	at := now
	marked.Challenges[idx].Completed = true
	marked.Challenges[idx].CompletedAt = &at

	next, award = AwardXP(marked, marked.Challenges[idx].XPReward, now)
	return next, award, true
}

// DeleteChallenge removes the challenge regardless of its state. XP already
// awarded for it is kept. Unknown ids are a no-op.
func DeleteChallenge(stats Stats, id string) Stats {
	next := stats.clone()
	kept := next.Challenges[:0]
	for _, c := range next.Challenges {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	next.Challenges = kept
	return next
}
