// Package notify implements the synchronous publish/subscribe relay used to
// fan out ledger state changes.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Named channels, one per mutation kind.
const (
	ChannelPulse             = "pulse"
	ChannelBoost             = "boost"
	ChannelCheckin           = "checkin"
	ChannelMegaPulse         = "mega-pulse"
	ChannelChallenge         = "challenge"
	ChannelReward            = "reward"
	ChannelTier              = "tier"
	ChannelBadge             = "badge"
	ChannelSTXTransfer       = "stx-transfer"
	ChannelLeaderboardUpdate = "leaderboard-update"
	ChannelRollback          = "rollback"
)

// Channels lists every named channel in a fixed order.
var Channels = []string{
	ChannelPulse,
	ChannelBoost,
	ChannelCheckin,
	ChannelMegaPulse,
	ChannelChallenge,
	ChannelReward,
	ChannelTier,
	ChannelBadge,
	ChannelSTXTransfer,
	ChannelLeaderboardUpdate,
	ChannelRollback,
}

// Subscriber receives one published message. Subscribers run synchronously
// in subscription order; a panicking subscriber is isolated and must not
// prevent delivery to the rest.
type Subscriber func(channel string, payload any)

// Notifier is an in-process pub/sub registry. It holds no domain state:
// publishing is always a trailing side effect of a store mutation that has
// already happened.
type Notifier struct {
	logger *zap.Logger

	mu   sync.RWMutex
	subs map[string][]Subscriber
}

// New returns an empty registry.
func New(logger *zap.Logger) *Notifier {
	return &Notifier{
		logger: logger.Named("notify"),
		subs:   map[string][]Subscriber{},
	}
}

// Subscribe registers fn on one named channel.
func (n *Notifier) Subscribe(channel string, fn Subscriber) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs[channel] = append(n.subs[channel], fn)
}

// SubscribeAll registers fn on every named channel.
func (n *Notifier) SubscribeAll(fn Subscriber) {
	for _, channel := range Channels {
		n.Subscribe(channel, fn)
	}
}

// Publish delivers payload to every subscriber of the channel, in
// subscription order, swallowing per-subscriber panics.
func (n *Notifier) Publish(channel string, payload any) {
	n.mu.RLock()
	subs := make([]Subscriber, len(n.subs[channel]))
	copy(subs, n.subs[channel])
	n.mu.RUnlock()

	for _, fn := range subs {
		n.deliver(channel, payload, fn)
	}
}

func (n *Notifier) deliver(channel string, payload any, fn Subscriber) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("subscriber panicked", zap.String("channel", channel), zap.Any("panic", r))
		}
	}()
	fn(channel, payload)
}
