// Package tracker classifies normalized chain events and turns them into
// activity records and leaderboard mutations, and orchestrates the per
// delivery ingest pipeline.
package tracker

import (
	"time"

	"github.com/pulseboardhq/pulseboard-backend/internal/clarity"
	"github.com/pulseboardhq/pulseboard-backend/internal/model"
	"github.com/pulseboardhq/pulseboard-backend/internal/utils"
	"go.uber.org/zap"
)

// Record ID suffixes, one per event kind. The suffix guarantees at most one
// record per (transaction, event kind) pair.
const (
	suffixPulse     = "pulse"
	suffixBoost     = "boost"
	suffixCheckin   = "checkin"
	suffixMega      = "mega"
	suffixChallenge = "challenge"
	suffixReward    = "reward"
	suffixTier      = "tier"
	suffixNFT       = "nft"
	suffixSTX       = "stx"
)

// Projector turns one normalized event into zero or one activity record
// plus zero or one leaderboard mutation. Unknown event tags are logged and
// dropped, never errors.
type Projector struct {
	logger *zap.Logger
}

// NewProjector returns a projector logging dropped events through logger.
func NewProjector(logger *zap.Logger) *Projector {
	return &Projector{logger: logger.Named("projector")}
}

// Project classifies event within its enclosing transaction and block.
func (p *Projector) Project(event model.Event, txID string, height uint64, ts time.Time) (*model.ActivityRecord, *model.LeaderboardMutation) {
	switch event.Kind {
	case model.KindPrint:
		return p.projectPrint(event.Data, txID, height, ts)
	case model.KindNFTTransfer:
		return p.projectNFT(event.Data, txID, height, ts)
	case model.KindSTXTransfer:
		return p.projectSTX(event.Data, txID, height, ts)
	default:
		p.logger.Debug("skipping event of unhandled kind", zap.String("kind", string(event.Kind)), zap.String("tx_id", txID))
		return nil, nil
	}
}

func (p *Projector) projectPrint(data any, txID string, height uint64, ts time.Time) (*model.ActivityRecord, *model.LeaderboardMutation) {
	value := printValue(data)
	tag := utils.AsString(value["event"])
	user := printUser(value)

	record := model.ActivityRecord{
		User:        user,
		BlockHeight: height,
		TxID:        txID,
		Timestamp:   ts,
	}
	mutation := model.LeaderboardMutation{User: user, Timestamp: ts}

	switch tag {
	case "pulse-sent":
		record.ID = recordID(txID, suffixPulse)
		record.Type = model.TypePulse
		record.Points = utils.AsInt64(value["points"])
		record.Fee = utils.AsUint64(value["fee"])
		streak := utils.AsUint64(value["streak"])
		record.Metadata = map[string]any{"streak": streak}
		mutation.PointsDelta = record.Points
		mutation.PulseDelta = 1
		mutation.Streak = streak
		mutation.HasStreak = true
	case "boost-activated":
		record.ID = recordID(txID, suffixBoost)
		record.Type = model.TypeBoost
		record.Points = utils.AsInt64(value["points"])
		record.Fee = utils.AsUint64(value["fee"])
		record.Metadata = map[string]any{"multiplier": utils.AsUint64(value["multiplier"])}
		mutation.PointsDelta = record.Points
	case "daily-checkin":
		record.ID = recordID(txID, suffixCheckin)
		record.Type = model.TypeCheckin
		record.Points = utils.AsInt64(value["points"])
		mutation.PointsDelta = record.Points
	case "mega-pulse":
		record.ID = recordID(txID, suffixMega)
		record.Type = model.TypeMegaPulse
		record.Points = utils.AsInt64(value["points"])
		record.Fee = utils.AsUint64(value["fee"])
		multiplier := utils.AsUint64(value["multiplier"])
		record.Metadata = map[string]any{"multiplier": multiplier}
		mutation.PointsDelta = record.Points
		mutation.PulseDelta = multiplier
	case "challenge-completed":
		record.ID = recordID(txID, suffixChallenge)
		record.Type = model.TypeChallenge
		record.Points = utils.AsInt64(value["points"])
		record.Fee = utils.AsUint64(value["fee"])
		record.Metadata = map[string]any{"challenge_id": utils.AsString(value["challenge-id"])}
		mutation.PointsDelta = record.Points
	case "reward-claimed":
		record.ID = recordID(txID, suffixReward)
		record.Type = model.TypeReward
		// Spending is recorded as a negative ledger delta, but the
		// leaderboard total is not debited; only the tier label moves.
		record.Points = -utils.AsInt64(value["spent-points"])
		newTier := utils.AsString(value["new-tier"])
		record.Metadata = map[string]any{"new_tier": newTier}
		mutation.TierOverride = model.Tier(newTier)
	case "tier-achieved":
		record.ID = recordID(txID, suffixTier)
		record.Type = model.TypeTier
		tier := utils.AsString(value["tier"])
		record.Metadata = map[string]any{"tier": tier}
		mutation.TierOverride = model.Tier(tier)
	default:
		p.logger.Info("dropping print event with unknown tag", zap.String("tag", tag), zap.String("tx_id", txID))
		return nil, nil
	}

	return &record, &mutation
}

func (p *Projector) projectNFT(data any, txID string, height uint64, ts time.Time) (*model.ActivityRecord, *model.LeaderboardMutation) {
	value, _ := utils.AsMap(data)
	if sender := utils.AsString(value["sender"]); sender != "" {
		p.logger.Debug("skipping non-mint nft transfer", zap.String("tx_id", txID))
		return nil, nil
	}

	recipient := utils.AsString(value["recipient"])
	if recipient == "" {
		recipient = "unknown"
	}
	return &model.ActivityRecord{
		ID:          recordID(txID, suffixNFT),
		User:        recipient,
		Type:        model.TypeBadgeMinted,
		BlockHeight: height,
		TxID:        txID,
		Timestamp:   ts,
		Metadata:    map[string]any{"asset": utils.AsString(value["asset_identifier"])},
	}, nil
}

func (p *Projector) projectSTX(data any, txID string, height uint64, ts time.Time) (*model.ActivityRecord, *model.LeaderboardMutation) {
	value, _ := utils.AsMap(data)
	sender := utils.AsString(value["sender"])
	if sender == "" {
		sender = "unknown"
	}
	return &model.ActivityRecord{
		ID:          recordID(txID, suffixSTX),
		User:        sender,
		Type:        model.TypeSTXTransfer,
		Fee:         utils.AsUint64(value["amount"]),
		BlockHeight: height,
		TxID:        txID,
		Timestamp:   ts,
		Metadata:    map[string]any{"recipient": utils.AsString(value["recipient"])},
	}, nil
}

// MutationForRecord re-derives the leaderboard mutation an archived record
// implied, used when replaying a persisted log at startup.
func MutationForRecord(record model.ActivityRecord) *model.LeaderboardMutation {
	mutation := model.LeaderboardMutation{
		User:        record.User,
		Timestamp:   record.Timestamp,
		PointsDelta: record.Points,
	}
	switch record.Type {
	case model.TypePulse:
		mutation.PulseDelta = 1
		mutation.Streak = utils.AsUint64(record.Metadata["streak"])
		mutation.HasStreak = true
	case model.TypeBoost, model.TypeCheckin, model.TypeChallenge:
	case model.TypeMegaPulse:
		mutation.PulseDelta = utils.AsUint64(record.Metadata["multiplier"])
	case model.TypeReward:
		mutation.PointsDelta = 0
		mutation.TierOverride = model.Tier(utils.AsString(record.Metadata["new_tier"]))
	case model.TypeTier:
		mutation.PointsDelta = 0
		mutation.TierOverride = model.Tier(utils.AsString(record.Metadata["tier"]))
	default:
		return nil
	}
	return &mutation
}

// printValue resolves the event payload to its key-value form: pre-decoded
// values are used as-is, hex-encoded ones go through the tuple decoder.
func printValue(data any) map[string]any {
	switch v := data.(type) {
	case string:
		return clarity.Decode(v)
	case map[string]any:
		if inner, ok := utils.AsMap(v["value"]); ok {
			return inner
		}
		if hexValue := utils.AsString(v["hex"]); hexValue != "" {
			return clarity.Decode(hexValue)
		}
		if hexValue := utils.AsString(v["raw_value"]); hexValue != "" {
			return clarity.Decode(hexValue)
		}
		if s := utils.AsString(v["value"]); s != "" {
			return clarity.Decode(s)
		}
		return v
	default:
		return nil
	}
}

func printUser(value map[string]any) string {
	if sender := utils.AsString(value["sender"]); sender != "" {
		return sender
	}
	if user := utils.AsString(value["user"]); user != "" {
		return user
	}
	return "unknown"
}

func recordID(txID, suffix string) string {
	return txID + "-" + suffix
}
