package session

import (
	"context"
	"time"

	"github.com/gorhill/cronexpr"
	"go.uber.org/zap"
)

// Pruner is implemented by stores that keep expired threads until told to
// drop them. Redis expires keys on its own and does not need one.
type Pruner interface {
	PruneExpired(ctx context.Context) (int64, error)
}

// Janitor prunes expired threads on a cron schedule.
type Janitor struct {
	Pruner   Pruner
	Schedule string        // "@hourly", "@daily" or a 5-field cron expression
	Tick     time.Duration // how often the schedule is checked
	Logger   *zap.Logger

	last *time.Time
}

// Run blocks until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	tick := j.Tick
	if tick <= 0 {
		tick = time.Minute
	}
	logger := j.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if !isDue(j.Schedule, j.last, now) {
				continue
			}
			n, err := j.Pruner.PruneExpired(ctx)
			if err != nil {
				logger.Warn("prune expired threads failed", zap.Error(err))
				continue
			}
			j.last = &now
			logger.Info("pruned expired threads", zap.Int64("deleted", n))
		}
	}
}

// isDue reports whether a job with cronSpec should run at now given its last
// run. Invalid specs fall back to daily.
func isDue(cronSpec string, last *time.Time, now time.Time) bool {
	if last == nil {
		return true
	}
	switch cronSpec {
	case "@daily":
		return now.Sub(*last) >= 24*time.Hour
	case "@hourly":
		return now.Sub(*last) >= time.Hour
	}
	expr, err := cronexpr.Parse(cronSpec)
	if err != nil {
		return now.Sub(*last) >= 24*time.Hour
	}
	return !expr.Next(*last).After(now)
}
