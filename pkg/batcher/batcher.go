// Package batcher provides a generic buffered batch processor that flushes
// by size or interval, with rate-limited flush callbacks.
package batcher

import (
	"context"
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// Flush delivers one accumulated batch.
type Flush[T any] func(context.Context, []T) error

// Config tunes batching behavior. Zero values fall back to defaults.
type Config struct {
	// Size triggers a flush once the buffer holds this many items.
	Size int
	// Interval triggers a flush even when the buffer is not full.
	Interval time.Duration
	// FlushesPerSecond caps how often the flush callback runs.
	FlushesPerSecond int
}

const (
	defaultSize             = 100
	defaultInterval         = time.Second
	defaultFlushesPerSecond = 10
)

func (c Config) withDefaults() Config {
	if c.Size <= 0 {
		c.Size = defaultSize
	}
	if c.Interval <= 0 {
		c.Interval = defaultInterval
	}
	if c.FlushesPerSecond <= 0 {
		c.FlushesPerSecond = defaultFlushesPerSecond
	}
	return c
}

// Batcher buffers items and flushes them in the background. A flush error
// is logged and the batch dropped; items are not redelivered.
type Batcher[T any] struct {
	cfg     Config
	flush   Flush[T]
	limiter ratelimit.Limiter
	logger  *zap.Logger

	items chan T
	stop  chan struct{}
	wg    sync.WaitGroup
}

// New constructs a Batcher; call Start to begin flushing.
func New[T any](logger *zap.Logger, cfg Config, flush Flush[T]) *Batcher[T] {
	cfg = cfg.withDefaults()
	return &Batcher[T]{
		cfg:     cfg,
		flush:   flush,
		limiter: ratelimit.New(cfg.FlushesPerSecond),
		logger:  logger.Named("batcher"),
		items:   make(chan T, cfg.Size*2),
		stop:    make(chan struct{}),
	}
}

// Start launches the background flush loop.
func (b *Batcher[T]) Start(ctx context.Context) {
	b.wg.Add(1)
	go b.run(ctx)
}

// Stop flushes the remaining buffer and waits for the loop to exit.
func (b *Batcher[T]) Stop() {
	close(b.stop)
	b.wg.Wait()
}

// Add queues one item, respecting context cancellation.
func (b *Batcher[T]) Add(ctx context.Context, item T) error {
	select {
	case <-b.stop:
		return context.Canceled
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case b.items <- item:
		return nil
	}
}

func (b *Batcher[T]) run(ctx context.Context) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.cfg.Interval)
	defer ticker.Stop()

	buf := make([]T, 0, b.cfg.Size)
	deliver := func() {
		if len(buf) == 0 {
			return
		}
		b.limiter.Take()
		if err := b.flush(ctx, buf); err != nil {
			b.logger.Error("batch not flushed", zap.Int("size", len(buf)), zap.Error(err))
		}
		buf = buf[:0]
	}

	for {
		select {
		case <-ctx.Done():
			deliver()
			return
		case <-b.stop:
			// Drain whatever was queued before the stop.
			for {
				select {
				case item := <-b.items:
					buf = append(buf, item)
					if len(buf) >= b.cfg.Size {
						deliver()
					}
				default:
					deliver()
					return
				}
			}
		case item := <-b.items:
			buf = append(buf, item)
			if len(buf) >= b.cfg.Size {
				deliver()
			}
		case <-ticker.C:
			deliver()
		}
	}
}
