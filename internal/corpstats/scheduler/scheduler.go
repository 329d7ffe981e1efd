// Package scheduler runs periodic reconciliation of every stored snapshot.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"corpstats/internal/corpstats/models"
)

// Syncer reconciles every snapshot.
type Syncer interface {
	SyncAll(ctx context.Context) ([]*models.SyncResult, error)
}

// Scheduler triggers SyncAll on a cron schedule. A run that is still going
// when the next one is due causes that next run to be skipped.
type Scheduler struct {
	cron     *cron.Cron
	syncer   Syncer
	schedule string
	timeout  time.Duration
	logger   *slog.Logger
}

// New creates a scheduler. timeout bounds one run; zero means no bound.
func New(syncer Syncer, schedule string, timeout time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		syncer:   syncer,
		schedule: schedule,
		timeout:  timeout,
		logger:   logger,
	}
}

// Start registers the sync job and starts the cron loop. ctx is the parent of
// every run; cancelling it aborts a run in progress.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.schedule, func() { s.Run(ctx) }); err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.logger.Info("sync scheduler started", "schedule", s.schedule)
	return nil
}

// Stop stops scheduling and waits for a running sync to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("sync scheduler stopped")
}

// Run performs one scheduled sync and logs a summary.
func (s *Scheduler) Run(ctx context.Context) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	results, err := s.syncer.SyncAll(ctx)

	var updated, removed int
	for _, r := range results {
		switch r.Outcome {
		case models.OutcomeUpdated:
			updated++
		case models.OutcomeRemoved:
			removed++
		}
	}
	attrs := []any{"updated", updated, "removed", removed, "duration", time.Since(start)}
	if err != nil {
		s.logger.WarnContext(ctx, "scheduled sync finished with failures", append(attrs, "error", err)...)
		return
	}
	s.logger.InfoContext(ctx, "scheduled sync finished", attrs...)
}

// cronLogger adapts slog to cron's logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
