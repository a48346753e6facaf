package model

import "time"

// EventType tags an activity record with its application-level meaning.
type EventType string

const (
	TypePulse       EventType = "pulse"
	TypeBoost       EventType = "boost"
	TypeCheckin     EventType = "checkin"
	TypeMegaPulse   EventType = "mega-pulse"
	TypeChallenge   EventType = "challenge"
	TypeReward      EventType = "reward"
	TypeTier        EventType = "tier"
	TypeBadgeMinted EventType = "badge-minted"
	TypeSTXTransfer EventType = "stx-transfer"
)

// ActivityRecord is the durable unit of the activity ledger. Records are
// immutable after creation and removed only by rollback. The ID is derived
// from the transaction hash plus a per-kind suffix, so re-projecting the same
// transaction and event kind always yields the same ID.
type ActivityRecord struct {
	ID          string         `json:"id"`
	User        string         `json:"user"`
	Type        EventType      `json:"type"`
	Points      int64          `json:"points"`
	Fee         uint64         `json:"fee"`
	BlockHeight uint64         `json:"block_height"`
	TxID        string         `json:"tx_id"`
	Timestamp   time.Time      `json:"timestamp"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Stats aggregates ledger-wide counters exposed on the query surface.
type Stats struct {
	Users             uint64 `json:"users"`
	Activities        uint64 `json:"activities"`
	TotalFees         uint64 `json:"total_fees"`
	TotalTransactions uint64 `json:"total_transactions"`
}
