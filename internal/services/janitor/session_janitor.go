package janitor

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Purger removes expired sessions and reports how many were dropped.
type Purger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// Config controls how often expired sessions are swept.
type Config struct {
	Interval time.Duration
}

// SessionJanitor periodically deletes expired sessions from stores that,
// unlike Redis, have no native key expiry.
type SessionJanitor struct {
	purger Purger
	logger *zap.Logger
	cron   *cron.Cron
	cfg    Config
}

func NewSessionJanitor(purger Purger, logger *zap.Logger, cfg Config) (*SessionJanitor, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	j := &SessionJanitor{
		purger: purger,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	if _, err := j.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if _, err := j.Sweep(ctx); err != nil {
			j.logger.Error("session sweep failed", zap.Error(err))
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule session sweep: %w", err)
	}

	return j, nil
}

// Start launches the cron scheduler.
func (j *SessionJanitor) Start() {
	if j == nil || j.cron == nil {
		return
	}
	j.cron.Start()
	j.logger.Info("session janitor started", zap.Duration("interval", j.cfg.Interval))
}

// Stop waits for a running sweep or for ctx, whichever ends first.
func (j *SessionJanitor) Stop(ctx context.Context) error {
	if j == nil || j.cron == nil {
		return nil
	}
	stopCtx := j.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	j.logger.Info("session janitor stopped")
	return nil
}

// Sweep runs one purge synchronously.
func (j *SessionJanitor) Sweep(ctx context.Context) (int, error) {
	if j == nil || j.purger == nil {
		return 0, nil
	}
	removed, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		return removed, err
	}
	if removed > 0 {
		j.logger.Info("expired sessions purged", zap.Int("count", removed))
	}
	return removed, nil
}
