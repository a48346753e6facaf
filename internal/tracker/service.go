package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pulseboardhq/pulseboard-backend/internal/chainhook"
	"github.com/pulseboardhq/pulseboard-backend/internal/model"
	"github.com/pulseboardhq/pulseboard-backend/internal/notify"
	"github.com/sugawarayuuta/sonnet"
	"go.uber.org/zap"
)

// RollbackEvent is the payload published on the rollback channel.
type RollbackEvent struct {
	Heights []uint64 `json:"heights"`
	Removed int      `json:"removed"`
}

// Summary reports what one webhook delivery produced.
type Summary struct {
	Blocks     int `json:"blocks"`
	Activities int `json:"activities"`
	RolledBack int `json:"rolled_back"`
}

// Service runs the ingest pipeline for one webhook delivery at a time:
// normalize, decode, project, mutate the store, then notify. Notification
// is always a trailing side effect, never a precondition.
type Service struct {
	logger    *zap.Logger
	projector *Projector
	store     Store
	archive   Archive
	notifier  Notifier
	metrics   Metrics
	now       func() time.Time
}

// NewService wires the ingest pipeline. archive may be nil when durable
// mirroring is disabled.
func NewService(store Store, notifier Notifier, archive Archive, metrics Metrics, logger *zap.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if notifier == nil {
		return nil, errors.New("notifier is required")
	}
	if metrics == nil {
		return nil, errors.New("ingest metrics is required")
	}
	logger = logger.Named("tracker")
	return &Service{
		logger:    logger,
		projector: NewProjector(logger),
		store:     store,
		archive:   archive,
		notifier:  notifier,
		metrics:   metrics,
		now:       time.Now,
	}, nil
}

// ProcessPayload ingests one raw webhook body. An unrecognizable payload
// shape is a no-op, not an error; only an unparseable body errors.
func (s *Service) ProcessPayload(ctx context.Context, body []byte) (Summary, error) {
	started := time.Now()

	var payload map[string]any
	if err := sonnet.Unmarshal(body, &payload); err != nil {
		s.metrics.ObservePayload(err, 0, started)
		return Summary{}, fmt.Errorf("parse webhook body: %w", err)
	}

	result := chainhook.Normalize(payload, s.now().UTC())

	summary := Summary{Blocks: len(result.Blocks)}
	summary.RolledBack = s.processRollback(ctx, result.Rollback)
	summary.Activities = s.processBlocks(ctx, result.Blocks)

	s.metrics.ObservePayload(nil, len(result.Blocks), started)
	if summary.Blocks == 0 && summary.RolledBack == 0 {
		s.logger.Debug("payload carried no recognizable blocks")
	}
	return summary, nil
}

// processRollback retracts previously delivered blocks before the apply
// list is processed, mirroring how the chain replaces them.
func (s *Service) processRollback(ctx context.Context, blocks []model.Block) int {
	if len(blocks) == 0 {
		return 0
	}

	heights := make([]uint64, 0, len(blocks))
	for _, block := range blocks {
		heights = append(heights, block.Height)
	}

	removed := s.store.Rollback(heights)
	s.metrics.ObserveRollback(len(blocks), len(removed))
	if s.archive != nil {
		if err := s.archive.DeleteActivitiesByHeights(ctx, heights); err != nil {
			s.logger.Error("archive rollback failed", zap.Uint64s("heights", heights), zap.Error(err))
		}
	}
	s.notifier.Publish(notify.ChannelRollback, RollbackEvent{Heights: heights, Removed: len(removed)})

	s.logger.Info("processed rollback", zap.Uint64s("heights", heights), zap.Int("removed", len(removed)))
	return len(removed)
}

func (s *Service) processBlocks(ctx context.Context, blocks []model.Block) int {
	activities := 0
	for _, block := range blocks {
		for _, tx := range block.Transactions {
			for _, event := range tx.Events {
				if s.processEvent(ctx, event, tx.TxID, block) {
					activities++
				}
			}
		}
	}
	return activities
}

func (s *Service) processEvent(ctx context.Context, event model.Event, txID string, block model.Block) bool {
	record, mutation := s.projector.Project(event, txID, block.Height, block.Timestamp)
	if record == nil {
		return false
	}

	entry := s.store.Append(*record, mutation)
	if s.archive != nil {
		if err := s.archive.InsertActivity(ctx, *record); err != nil {
			s.logger.Error("archive insert failed", zap.String("id", record.ID), zap.Error(err))
		}
	}

	s.notifier.Publish(notify.ChannelFor(record.Type), *record)
	if entry != nil {
		s.notifier.Publish(notify.ChannelLeaderboardUpdate, *entry)
	}
	s.metrics.ObserveActivity(record.Type)
	return true
}
