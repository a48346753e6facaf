package notify

import "github.com/pulseboardhq/pulseboard-backend/internal/model"

// ChannelFor maps an activity type onto its notification channel.
func ChannelFor(t model.EventType) string {
	switch t {
	case model.TypePulse:
		return ChannelPulse
	case model.TypeBoost:
		return ChannelBoost
	case model.TypeCheckin:
		return ChannelCheckin
	case model.TypeMegaPulse:
		return ChannelMegaPulse
	case model.TypeChallenge:
		return ChannelChallenge
	case model.TypeReward:
		return ChannelReward
	case model.TypeTier:
		return ChannelTier
	case model.TypeBadgeMinted:
		return ChannelBadge
	case model.TypeSTXTransfer:
		return ChannelSTXTransfer
	default:
		return ""
	}
}
