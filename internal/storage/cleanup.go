package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DeleteOlderThan deletes decisions recorded before the given unix epoch.
// Returns the number of deleted rows.
func (d *DB) DeleteOlderThan(before int64) (int64, error) {
	res, err := d.db.Exec("DELETE FROM brightness_events WHERE timestamp < ?", before)
	if err != nil {
		return 0, fmt.Errorf("delete from brightness_events: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// RunCleanup prunes rows older than retention once immediately and then
// every interval until ctx is done.
func (d *DB) RunCleanup(ctx context.Context, retention, interval time.Duration, logger *slog.Logger) {
	prune := func() {
		cutoff := time.Now().Add(-retention).Unix()
		n, err := d.DeleteOlderThan(cutoff)
		if err != nil {
			logger.Error("cleanup failed", "err", err)
			return
		}
		logger.Debug("cleanup done", "deleted", n, "cutoff", cutoff)
	}

	prune()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			prune()
		case <-ctx.Done():
			return
		}
	}
}
