package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/askdocs/internal/common"
	"github.com/ternarybob/askdocs/internal/services/ingest"
)

// refreshTimeout bounds one scheduled rebuild of the index
const refreshTimeout = 30 * time.Minute

// Refresher rebuilds and publishes the index
type Refresher interface {
	Refresh(ctx context.Context) (ingest.Stats, error)
}

// Scheduler handles periodic index refresh
type Scheduler struct {
	refresher Refresher
	cron      *cron.Cron
	logger    arbor.ILogger
	schedule  string
}

// NewScheduler creates a new refresh scheduler.
// Overlapping runs are skipped rather than queued.
func NewScheduler(refresher Refresher, logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		refresher: refresher,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger,
	}
}

// Start begins the scheduled refresh. An empty schedule leaves the scheduler idle.
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		s.logger.Info().Msg("Index refresh schedule not configured, scheduled refresh disabled")
		return nil
	}

	if err := common.ValidateRefreshSchedule(schedule); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(schedule, s.runRefresh); err != nil {
		return err
	}
	s.schedule = schedule

	s.cron.Start()
	s.logger.Info().
		Str("schedule", schedule).
		Msg("Index refresh scheduler started")

	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Index refresh scheduler stopped")
}

// RunNow triggers an immediate refresh in the background
func (s *Scheduler) RunNow() {
	s.logger.Info().Msg("Triggering immediate index refresh")
	common.SafeGo(s.logger, "indexRefresh", s.runRefresh)
}

// NextRun returns the next scheduled refresh, or nil when no schedule is active
func (s *Scheduler) NextRun() *time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 || entries[0].Next.IsZero() {
		return nil
	}
	next := entries[0].Next
	return &next
}

// Schedule returns the active cron expression
func (s *Scheduler) Schedule() string {
	return s.schedule
}

func (s *Scheduler) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	s.logger.Info().Msg("Starting scheduled index refresh")

	stats, err := s.refresher.Refresh(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("Scheduled index refresh failed")
		return
	}

	s.logger.Info().
		Int("documents", stats.Documents).
		Int("chunks", stats.Chunks).
		Int("skipped", stats.ChunksSkipped).
		Dur("duration", stats.Duration).
		Msg("Scheduled index refresh completed")
}
