package tracker

import (
	"context"
	"time"

	"github.com/pulseboardhq/pulseboard-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Store owns the activity log and leaderboard aggregates.
	Store interface {
		Append(record model.ActivityRecord, mutation *model.LeaderboardMutation) *model.LeaderboardEntry
		Rollback(heights []uint64) []model.ActivityRecord
	}

	// Archive mirrors ledger mutations into durable storage.
	Archive interface {
		InsertActivity(ctx context.Context, record model.ActivityRecord) error
		DeleteActivitiesByHeights(ctx context.Context, heights []uint64) error
	}

	// Notifier fans out state changes after the store mutation happened.
	Notifier interface {
		Publish(channel string, payload any)
	}

	// Metrics observes ingest outcomes.
	Metrics interface {
		ObservePayload(err error, blocks int, started time.Time)
		ObserveActivity(eventType model.EventType)
		ObserveRollback(blocks, removed int)
	}
)
