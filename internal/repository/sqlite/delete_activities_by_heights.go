package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DeleteActivitiesByHeights removes every archived record at the given
// block heights, mirroring an in-memory rollback.
func (r *Repository) DeleteActivitiesByHeights(ctx context.Context, heights []uint64) error {
	start := time.Now()
	var err error
	defer func() {
		r.observe("delete_activities_by_heights", err, start)
	}()

	if len(heights) == 0 {
		return nil
	}

	placeholders := make([]string, len(heights))
	args := make([]any, len(heights))
	for i, height := range heights {
		placeholders[i] = "?"
		args[i] = int64(height)
	}

	query := fmt.Sprintf("DELETE FROM activities WHERE block_height IN (%s)", strings.Join(placeholders, ", "))
	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete activities by heights: %w", err)
	}
	return nil
}
