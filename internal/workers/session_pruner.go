package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/rentalhub/rentalhub/internal/session"
	"github.com/rentalhub/rentalhub/internal/storage"
)

// pruneTimeout bounds a single pruning pass
const pruneTimeout = 2 * time.Minute

// StartSessionPruner schedules removal of signed-out sessions that have been
// idle for longer than retention. Signed-in sessions are left alone.
func StartSessionPruner(schedule string, retention time.Duration, store *storage.SQLStore, logger zerolog.Logger) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
		defer cancel()
		PruneSessions(ctx, store, retention, time.Now(), logger)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session prune schedule %q: %w", schedule, err)
	}

	c.Start()
	logger.Info().
		Str("schedule", schedule).
		Dur("retention", retention).
		Msg("Session pruner started")

	return c, nil
}

// PruneSessions runs one pruning pass relative to now
func PruneSessions(ctx context.Context, store *storage.SQLStore, retention time.Duration, now time.Time, logger zerolog.Logger) int64 {
	cutoff := now.Add(-retention)

	removed, err := store.PruneIdle(ctx, cutoff, session.AuthenticatedKey, "true", session.SystemNamespace)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to prune sessions")
		return 0
	}

	if removed > 0 {
		logger.Info().
			Int64("rows", removed).
			Time("cutoff", cutoff).
			Msg("Pruned signed-out sessions")
	} else {
		logger.Debug().Time("cutoff", cutoff).Msg("No sessions to prune")
	}
	return removed
}
