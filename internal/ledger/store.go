// Package ledger owns the in-memory activity log and the per-user
// leaderboard aggregates derived from it.
package ledger

import (
	"sort"
	"sync"

	"github.com/pulseboardhq/pulseboard-backend/internal/model"
	"go.uber.org/zap"
)

// Store is the single owner of both collections. All methods are safe for
// concurrent use; Append and Rollback read-then-write aggregate fields, so
// they serialize on the store mutex.
type Store struct {
	logger *zap.Logger

	mu          sync.RWMutex
	activities  []model.ActivityRecord
	leaderboard map[string]*model.LeaderboardEntry
	totalFees   uint64
	totalTxs    uint64
}

// NewStore returns an empty store.
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		logger:      logger.Named("ledger"),
		leaderboard: map[string]*model.LeaderboardEntry{},
	}
}

// Append inserts the record at the end of the activity log, bumps the fee
// and transaction counters when the record carries a nonzero fee, and
// applies the leaderboard mutation. It returns a snapshot of the updated
// leaderboard entry, or nil when the record carries no mutation.
func (s *Store) Append(record model.ActivityRecord, mutation *model.LeaderboardMutation) *model.LeaderboardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activities = append(s.activities, record)
	if record.Fee > 0 {
		s.totalFees += record.Fee
		s.totalTxs++
	}

	if mutation == nil {
		return nil
	}
	entry := s.applyMutation(*mutation)
	snapshot := *entry
	return &snapshot
}

func (s *Store) applyMutation(m model.LeaderboardMutation) *model.LeaderboardEntry {
	entry, ok := s.leaderboard[m.User]
	if !ok {
		entry = &model.LeaderboardEntry{User: m.User, Tier: model.TierNone}
		s.leaderboard[m.User] = entry
	}

	if m.PointsDelta != 0 {
		entry.Points += m.PointsDelta
		entry.Tier = model.TierForPoints(entry.Points)
	}
	entry.PulseCount += m.PulseDelta
	if m.HasStreak {
		entry.CurrentStreak = m.Streak
		if m.Streak > entry.LongestStreak {
			entry.LongestStreak = m.Streak
		}
	}
	if m.TierOverride != "" {
		entry.Tier = m.TierOverride
	}
	if m.Timestamp.After(entry.LastActive) {
		entry.LastActive = m.Timestamp
	}
	return entry
}

// Rollback removes every activity record whose block height is in heights
// and returns the removed records in log order. Leaderboard aggregates and
// the fee/transaction counters are left untouched: reorgs are expected to
// be rare and shallow, and the reference behavior keeps the aggregates
// append-only.
func (s *Store) Rollback(heights []uint64) []model.ActivityRecord {
	if len(heights) == 0 {
		return nil
	}
	retract := make(map[uint64]struct{}, len(heights))
	for _, h := range heights {
		retract[h] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []model.ActivityRecord
	kept := s.activities[:0]
	for _, record := range s.activities {
		if _, gone := retract[record.BlockHeight]; gone {
			removed = append(removed, record)
			continue
		}
		kept = append(kept, record)
	}
	s.activities = kept

	if len(removed) > 0 {
		s.logger.Info("rolled back activity records",
			zap.Int("removed", len(removed)),
			zap.Uint64s("heights", heights),
		)
	}
	return removed
}

// QueryRecent returns up to limit records, most recent first.
func (s *Store) QueryRecent(limit int) []model.ActivityRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recentLocked(limit, func(model.ActivityRecord) bool { return true })
}

// QueryByUser returns up to limit records for one user, most recent first.
func (s *Store) QueryByUser(user string, limit int) []model.ActivityRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recentLocked(limit, func(r model.ActivityRecord) bool { return r.User == user })
}

func (s *Store) recentLocked(limit int, match func(model.ActivityRecord) bool) []model.ActivityRecord {
	if limit <= 0 {
		return nil
	}
	out := make([]model.ActivityRecord, 0, limit)
	for i := len(s.activities) - 1; i >= 0 && len(out) < limit; i-- {
		if match(s.activities[i]) {
			out = append(out, s.activities[i])
		}
	}
	return out
}

// QueryLeaderboard returns up to limit entries sorted descending by points.
func (s *Store) QueryLeaderboard(limit int) []model.LeaderboardEntry {
	if limit <= 0 {
		return nil
	}

	s.mu.RLock()
	entries := make([]model.LeaderboardEntry, 0, len(s.leaderboard))
	for _, entry := range s.leaderboard {
		entries = append(entries, *entry)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].User < entries[j].User
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Stats reports the aggregate counters for the query surface.
func (s *Store) Stats() model.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Stats{
		Users:             uint64(len(s.leaderboard)),
		Activities:        uint64(len(s.activities)),
		TotalFees:         s.totalFees,
		TotalTransactions: s.totalTxs,
	}
}
