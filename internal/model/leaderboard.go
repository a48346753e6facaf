package model

import "time"

// Tier is the coarse rank label derived from cumulative points.
type Tier string

const (
	TierNone     Tier = "none"
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// TierForPoints maps a cumulative point total onto its tier label.
func TierForPoints(points int64) Tier {
	switch {
	case points >= 5000:
		return TierPlatinum
	case points >= 1000:
		return TierGold
	case points >= 500:
		return TierSilver
	case points >= 100:
		return TierBronze
	default:
		return TierNone
	}
}

// LeaderboardEntry is the per-user aggregate derived from the activity ledger.
// Entries are created lazily on first activity and never deleted; rollback
// does not reverse them.
type LeaderboardEntry struct {
	User          string    `json:"user"`
	Points        int64     `json:"points"`
	PulseCount    uint64    `json:"pulse_count"`
	CurrentStreak uint64    `json:"current_streak"`
	LongestStreak uint64    `json:"longest_streak"`
	Tier          Tier      `json:"tier"`
	LastActive    time.Time `json:"last_active"`
}

// LeaderboardMutation is the instruction an activity projects onto a user's
// leaderboard entry. A zero PointsDelta with an empty TierOverride and
// HasStreak false is a no-op apart from LastActive.
type LeaderboardMutation struct {
	User         string
	PointsDelta  int64
	PulseDelta   uint64
	Streak       uint64
	HasStreak    bool
	TierOverride Tier
	Timestamp    time.Time
}
