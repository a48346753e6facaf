package tracker

import (
	"encoding/hex"
	"reflect"
	"testing"
	"time"

	"github.com/pulseboardhq/pulseboard-backend/internal/model"
	"go.uber.org/zap"
)

var (
	blockTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	txHash    = "0xabc123"
)

func printEvent(value map[string]any) model.Event {
	return model.Event{Kind: model.KindPrint, Data: map[string]any{"value": value}}
}

func TestProjector_PrintTags(t *testing.T) {
	p := NewProjector(zap.NewNop())

	tests := []struct {
		name       string
		value      map[string]any
		wantID     string
		wantType   model.EventType
		wantPoints int64
		wantFee    uint64
		wantMut    model.LeaderboardMutation
	}{
		{
			name: "pulse sent",
			value: map[string]any{
				"event": "pulse-sent", "sender": "SP1A", "points": float64(10),
				"fee": float64(250), "streak": float64(4),
			},
			wantID:     "0xabc123-pulse",
			wantType:   model.TypePulse,
			wantPoints: 10,
			wantFee:    250,
			wantMut: model.LeaderboardMutation{
				User: "SP1A", PointsDelta: 10, PulseDelta: 1,
				Streak: 4, HasStreak: true, Timestamp: blockTime,
			},
		},
		{
			name: "boost activated",
			value: map[string]any{
				"event": "boost-activated", "sender": "SP1A",
				"points": float64(25), "fee": float64(500), "multiplier": float64(2),
			},
			wantID:     "0xabc123-boost",
			wantType:   model.TypeBoost,
			wantPoints: 25,
			wantFee:    500,
			wantMut:    model.LeaderboardMutation{User: "SP1A", PointsDelta: 25, Timestamp: blockTime},
		},
		{
			name: "daily checkin carries no fee",
			value: map[string]any{
				"event": "daily-checkin", "sender": "SP1A",
				"points": float64(5), "fee": float64(9999),
			},
			wantID:     "0xabc123-checkin",
			wantType:   model.TypeCheckin,
			wantPoints: 5,
			wantFee:    0,
			wantMut:    model.LeaderboardMutation{User: "SP1A", PointsDelta: 5, Timestamp: blockTime},
		},
		{
			name: "mega pulse adds multiplier pulses",
			value: map[string]any{
				"event": "mega-pulse", "sender": "SP1A",
				"points": float64(50), "fee": float64(1000), "multiplier": float64(5),
			},
			wantID:     "0xabc123-mega",
			wantType:   model.TypeMegaPulse,
			wantPoints: 50,
			wantFee:    1000,
			wantMut:    model.LeaderboardMutation{User: "SP1A", PointsDelta: 50, PulseDelta: 5, Timestamp: blockTime},
		},
		{
			name: "challenge completed",
			value: map[string]any{
				"event": "challenge-completed", "sender": "SP1A",
				"points": float64(100), "fee": float64(300), "challenge-id": "weekly-5",
			},
			wantID:     "0xabc123-challenge",
			wantType:   model.TypeChallenge,
			wantPoints: 100,
			wantFee:    300,
			wantMut:    model.LeaderboardMutation{User: "SP1A", PointsDelta: 100, Timestamp: blockTime},
		},
		{
			name: "reward claimed records negative points without debiting total",
			value: map[string]any{
				"event": "reward-claimed", "sender": "SP1A",
				"spent-points": float64(400), "new-tier": "silver",
			},
			wantID:     "0xabc123-reward",
			wantType:   model.TypeReward,
			wantPoints: -400,
			wantMut:    model.LeaderboardMutation{User: "SP1A", TierOverride: model.TierSilver, Timestamp: blockTime},
		},
		{
			name: "tier achieved",
			value: map[string]any{
				"event": "tier-achieved", "sender": "SP1A", "tier": "gold",
			},
			wantID:   "0xabc123-tier",
			wantType: model.TypeTier,
			wantMut:  model.LeaderboardMutation{User: "SP1A", TierOverride: model.TierGold, Timestamp: blockTime},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, mutation := p.Project(printEvent(tt.value), txHash, 100, blockTime)
			if record == nil {
				t.Fatal("Project() record = nil, want record")
			}
			if record.ID != tt.wantID {
				t.Errorf("record id = %q, want %q", record.ID, tt.wantID)
			}
			if record.Type != tt.wantType {
				t.Errorf("record type = %q, want %q", record.Type, tt.wantType)
			}
			if record.Points != tt.wantPoints {
				t.Errorf("record points = %d, want %d", record.Points, tt.wantPoints)
			}
			if record.Fee != tt.wantFee {
				t.Errorf("record fee = %d, want %d", record.Fee, tt.wantFee)
			}
			if record.BlockHeight != 100 || record.TxID != txHash {
				t.Errorf("record scoping = (%d, %q), want (100, %q)", record.BlockHeight, record.TxID, txHash)
			}
			if mutation == nil {
				t.Fatal("Project() mutation = nil, want mutation")
			}
			if !reflect.DeepEqual(*mutation, tt.wantMut) {
				t.Errorf("mutation = %+v, want %+v", *mutation, tt.wantMut)
			}
		})
	}
}

func TestProjector_IdempotentIDDerivation(t *testing.T) {
	p := NewProjector(zap.NewNop())
	event := printEvent(map[string]any{"event": "pulse-sent", "sender": "SP1A", "points": float64(10)})

	first, _ := p.Project(event, txHash, 100, blockTime)
	second, _ := p.Project(event, txHash, 100, blockTime)

	if first == nil || second == nil {
		t.Fatal("expected records from both projections")
	}
	if first.ID != second.ID {
		t.Errorf("ids differ: %q vs %q", first.ID, second.ID)
	}
}

func TestProjector_UnknownTagIsDropped(t *testing.T) {
	p := NewProjector(zap.NewNop())

	record, mutation := p.Project(printEvent(map[string]any{"event": "something-unrecognized"}), txHash, 100, blockTime)

	if record != nil || mutation != nil {
		t.Errorf("Project() = (%v, %v), want (nil, nil)", record, mutation)
	}
}

func TestProjector_UnknownKindIsDropped(t *testing.T) {
	p := NewProjector(zap.NewNop())

	record, mutation := p.Project(model.Event{Kind: "ft-transfer", Data: nil}, txHash, 100, blockTime)

	if record != nil || mutation != nil {
		t.Errorf("Project() = (%v, %v), want (nil, nil)", record, mutation)
	}
}

func TestProjector_HexEncodedPrintData(t *testing.T) {
	p := NewProjector(zap.NewNop())
	payload := hex.EncodeToString([]byte(`{"event":"daily-checkin","sender":"SP1A","points":5}`))

	record, mutation := p.Project(model.Event{Kind: model.KindPrint, Data: "0x" + payload}, txHash, 100, blockTime)

	if record == nil || mutation == nil {
		t.Fatal("expected record and mutation from hex-encoded data")
	}
	if record.Type != model.TypeCheckin || record.Points != 5 {
		t.Errorf("record = %+v, want checkin with 5 points", record)
	}
}

func TestProjector_NFTTransfer(t *testing.T) {
	p := NewProjector(zap.NewNop())

	t.Run("mint projects badge", func(t *testing.T) {
		record, mutation := p.Project(model.Event{
			Kind: model.KindNFTTransfer,
			Data: map[string]any{"recipient": "SP1A", "asset_identifier": "SP2X.badges::early"},
		}, txHash, 100, blockTime)

		if record == nil {
			t.Fatal("expected record")
		}
		if record.Type != model.TypeBadgeMinted || record.User != "SP1A" {
			t.Errorf("record = %+v, want badge-minted for SP1A", record)
		}
		if record.Points != 0 || record.Fee != 0 {
			t.Errorf("badge record carries points/fee: %+v", record)
		}
		if record.ID != "0xabc123-nft" {
			t.Errorf("record id = %q", record.ID)
		}
		if mutation != nil {
			t.Errorf("mutation = %+v, want nil", mutation)
		}
	})

	t.Run("missing recipient defaults to unknown", func(t *testing.T) {
		record, _ := p.Project(model.Event{Kind: model.KindNFTTransfer, Data: map[string]any{}}, txHash, 100, blockTime)
		if record == nil || record.User != "unknown" {
			t.Errorf("record = %+v, want user unknown", record)
		}
	})

	t.Run("transfer with sender is skipped", func(t *testing.T) {
		record, _ := p.Project(model.Event{
			Kind: model.KindNFTTransfer,
			Data: map[string]any{"sender": "SP1A", "recipient": "SP1B"},
		}, txHash, 100, blockTime)
		if record != nil {
			t.Errorf("record = %+v, want nil for non-mint transfer", record)
		}
	})
}

func TestProjector_STXTransfer(t *testing.T) {
	p := NewProjector(zap.NewNop())

	record, mutation := p.Project(model.Event{
		Kind: model.KindSTXTransfer,
		Data: map[string]any{"sender": "SP1A", "recipient": "SP1B", "amount": "1500"},
	}, txHash, 100, blockTime)

	if record == nil {
		t.Fatal("expected record")
	}
	if record.Type != model.TypeSTXTransfer || record.Fee != 1500 || record.Points != 0 {
		t.Errorf("record = %+v, want stx-transfer with fee 1500 and no points", record)
	}
	if record.ID != "0xabc123-stx" {
		t.Errorf("record id = %q", record.ID)
	}
	if mutation != nil {
		t.Errorf("mutation = %+v, want nil", mutation)
	}
}

func TestMutationForRecord(t *testing.T) {
	tests := []struct {
		name   string
		record model.ActivityRecord
		want   *model.LeaderboardMutation
	}{
		{
			name: "pulse rebuilds streak",
			record: model.ActivityRecord{
				User: "SP1A", Type: model.TypePulse, Points: 10,
				Timestamp: blockTime, Metadata: map[string]any{"streak": float64(4)},
			},
			want: &model.LeaderboardMutation{
				User: "SP1A", PointsDelta: 10, PulseDelta: 1,
				Streak: 4, HasStreak: true, Timestamp: blockTime,
			},
		},
		{
			name: "mega pulse rebuilds multiplier pulses",
			record: model.ActivityRecord{
				User: "SP1A", Type: model.TypeMegaPulse, Points: 50,
				Timestamp: blockTime, Metadata: map[string]any{"multiplier": float64(5)},
			},
			want: &model.LeaderboardMutation{User: "SP1A", PointsDelta: 50, PulseDelta: 5, Timestamp: blockTime},
		},
		{
			name: "reward overrides tier without points",
			record: model.ActivityRecord{
				User: "SP1A", Type: model.TypeReward, Points: -400,
				Timestamp: blockTime, Metadata: map[string]any{"new_tier": "silver"},
			},
			want: &model.LeaderboardMutation{User: "SP1A", TierOverride: model.TierSilver, Timestamp: blockTime},
		},
		{
			name:   "badge mint has no mutation",
			record: model.ActivityRecord{User: "SP1A", Type: model.TypeBadgeMinted, Timestamp: blockTime},
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MutationForRecord(tt.record)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MutationForRecord() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
