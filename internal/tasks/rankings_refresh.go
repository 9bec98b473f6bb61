package tasks

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher recomputes a cached view.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RankingsRefreshTask periodically rebuilds the tag and author rankings so
// readers rarely hit a cold cache.
type RankingsRefreshTask struct {
	rankings Refresher
	cron     *cron.Cron
	timeout  time.Duration
	logger   *zap.Logger
}

// NewRankingsRefreshTask schedules the refresh on spec (standard cron syntax
// or descriptors such as "@every 5m"). Call Start to begin running it.
func NewRankingsRefreshTask(rankings Refresher, spec string, logger *zap.Logger) (*RankingsRefreshTask, error) {
	t := &RankingsRefreshTask{
		rankings: rankings,
		cron:     cron.New(),
		timeout:  time.Minute,
		logger:   logger,
	}
	entryID, err := t.cron.AddFunc(spec, t.run)
	if err != nil {
		return nil, err
	}
	logger.Info("rankings refresh scheduled", zap.String("schedule", spec), zap.Int("entry_id", int(entryID)))
	return t, nil
}

func (t *RankingsRefreshTask) run() {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	if err := t.rankings.Refresh(ctx); err != nil {
		t.logger.Error("rankings refresh failed", zap.Error(err))
		return
	}
	t.logger.Debug("rankings refreshed", zap.Duration("duration", time.Since(start)))
}

func (t *RankingsRefreshTask) Start() {
	t.cron.Start()
}

// Stop halts scheduling; the returned context is done once a running
// refresh has finished.
func (t *RankingsRefreshTask) Stop() context.Context {
	return t.cron.Stop()
}
