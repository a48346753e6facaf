package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/pulseboardhq/pulseboard-backend/internal/model"
	"github.com/sugawarayuuta/sonnet"
)

// ReplayActivities streams every archived record in insertion order,
// invoking fn per record. Used at startup to rebuild the in-memory ledger.
func (r *Repository) ReplayActivities(ctx context.Context, fn func(model.ActivityRecord) error) error {
	start := time.Now()
	var err error
	defer func() {
		r.observe("replay_activities", err, start)
	}()

	const query = `
SELECT
	id,
	user_address,
	event_type,
	points,
	fee,
	block_height,
	tx_id,
	timestamp,
	metadata
FROM activities
ORDER BY rowid`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query activities: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var (
			record    model.ActivityRecord
			eventType string
			fee       int64
			height    int64
			unixTime  int64
			metadata  string
		)
		if err = rows.Scan(
			&record.ID,
			&record.User,
			&eventType,
			&record.Points,
			&fee,
			&height,
			&record.TxID,
			&unixTime,
			&metadata,
		); err != nil {
			return fmt.Errorf("scan activity: %w", err)
		}

		record.Type = model.EventType(eventType)
		record.Fee = uint64(fee)
		record.BlockHeight = uint64(height)
		record.Timestamp = time.Unix(unixTime, 0).UTC()
		if metadata != "" && metadata != "{}" {
			if err = sonnet.Unmarshal([]byte(metadata), &record.Metadata); err != nil {
				return fmt.Errorf("decode activity metadata: %w", err)
			}
		}

		if err = fn(record); err != nil {
			return fmt.Errorf("replay activity %s: %w", record.ID, err)
		}
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("iterate activities: %w", err)
	}
	return nil
}
