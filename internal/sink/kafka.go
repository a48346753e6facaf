// Package sink streams published tracker updates into Kafka so downstream
// consumers can follow the activity feed without holding a websocket open.
package sink

import (
	"context"
	"fmt"

	"github.com/pulseboardhq/pulseboard-backend/pkg/batcher"
	"github.com/segmentio/kafka-go"
	"github.com/sugawarayuuta/sonnet"
	"go.uber.org/zap"
)

// Writer is the subset of kafka.Writer the sink needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Update is one published change, keyed by its channel.
type Update struct {
	Channel string `json:"channel"`
	Payload any    `json:"payload"`
}

// Kafka buffers updates and writes them to a topic in batches. Delivery is
// best effort: a failed batch is logged and dropped, the ledger is not
// affected.
type Kafka struct {
	logger  *zap.Logger
	writer  Writer
	batcher *batcher.Batcher[Update]
}

// NewKafka returns a sink writing to the given brokers and topic.
func NewKafka(brokers []string, topic string, cfg batcher.Config, logger *zap.Logger) *Kafka {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return newKafka(writer, cfg, logger)
}

func newKafka(writer Writer, cfg batcher.Config, logger *zap.Logger) *Kafka {
	k := &Kafka{
		logger: logger.Named("sink"),
		writer: writer,
	}
	k.batcher = batcher.New(logger, cfg, k.flush)
	return k
}

// Start launches the background flush loop.
func (k *Kafka) Start(ctx context.Context) {
	k.batcher.Start(ctx)
}

// Stop flushes the remaining buffer and closes the writer.
func (k *Kafka) Stop() {
	k.batcher.Stop()
	if err := k.writer.Close(); err != nil {
		k.logger.Warn("writer not closed", zap.Error(err))
	}
}

// Publish queues one update. It matches the notify.Subscriber signature so
// the sink can subscribe to all channels.
func (k *Kafka) Publish(channel string, payload any) {
	if err := k.batcher.Add(context.Background(), Update{Channel: channel, Payload: payload}); err != nil {
		k.logger.Warn("update not queued", zap.String("channel", channel), zap.Error(err))
	}
}

func (k *Kafka) flush(ctx context.Context, updates []Update) error {
	msgs := make([]kafka.Message, 0, len(updates))
	for _, update := range updates {
		raw, err := sonnet.Marshal(update)
		if err != nil {
			k.logger.Error("update not encoded", zap.String("channel", update.Channel), zap.Error(err))
			continue
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(update.Channel),
			Value: raw,
		})
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := k.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d messages: %w", len(msgs), err)
	}
	return nil
}
