package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/pulseboardhq/pulseboard-backend/internal/model"
	"github.com/sugawarayuuta/sonnet"
)

// InsertActivity appends one activity record to the archive.
func (r *Repository) InsertActivity(ctx context.Context, record model.ActivityRecord) error {
	start := time.Now()
	var err error
	defer func() {
		r.observe("insert_activity", err, start)
	}()

	metadata := []byte("{}")
	if len(record.Metadata) > 0 {
		if metadata, err = sonnet.Marshal(record.Metadata); err != nil {
			return fmt.Errorf("encode activity metadata: %w", err)
		}
	}

	const query = `
INSERT INTO activities (
	id,
	user_address,
	event_type,
	points,
	fee,
	block_height,
	tx_id,
	timestamp,
	metadata
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if _, err = r.db.ExecContext(ctx, query,
		record.ID,
		record.User,
		string(record.Type),
		record.Points,
		int64(record.Fee),
		int64(record.BlockHeight),
		record.TxID,
		record.Timestamp.Unix(),
		string(metadata),
	); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}
