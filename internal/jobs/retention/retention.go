package retention

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sidgureja7803/dev-tinder-server/internal/domain/rules"
)

type swipeSweeper interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Job deletes swipe ledger rows past their retention window. Exclusion sets
// and mutual-like checks read live rows only, so the sweep is the sole piece
// of expiry bookkeeping.
type Job struct {
	swipes    swipeSweeper
	retention time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func New(swipes swipeSweeper, retention time.Duration, logger *zap.Logger) *Job {
	if retention <= 0 {
		retention = rules.SwipeRetention
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		swipes:    swipes,
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.swipes == nil {
		return nil
	}

	cutoff := j.now().UTC().Add(-j.retention)
	deleted, err := j.swipes.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("sweep expired swipes: %w", err)
	}
	if deleted > 0 {
		j.logger.Info("swipe retention sweep completed",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
	return nil
}
