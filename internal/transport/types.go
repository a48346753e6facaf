// Package transport exposes the HTTP surface: the webhook intake,
// read-side queries and the websocket feed.
package transport

import (
	"context"

	"github.com/pulseboardhq/pulseboard-backend/internal/model"
	"github.com/pulseboardhq/pulseboard-backend/internal/tracker"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Ingestor consumes one raw webhook delivery.
	Ingestor interface {
		ProcessPayload(ctx context.Context, body []byte) (tracker.Summary, error)
	}

	// Query is the read-side of the ledger store.
	Query interface {
		QueryRecent(limit int) []model.ActivityRecord
		QueryByUser(user string, limit int) []model.ActivityRecord
		QueryLeaderboard(limit int) []model.LeaderboardEntry
		Stats() model.Stats
	}
)
