package scheduler

import (
	"context"
	"time"

	"commute-watch/internal/models"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// CheckRunner is the dispatcher operation the scheduler drives.
type CheckRunner interface {
	RunCheckCycle(ctx context.Context) (*models.CheckSummary, error)
}

// Scheduler fires the commute check once a minute. The time gate matches
// the current local minute exactly, so the tick interval must stay at or
// below sixty seconds or scheduled checks are silently missed.
type Scheduler struct {
	runner      CheckRunner
	log         zerolog.Logger
	tickTimeout time.Duration
	c           *cron.Cron
}

// New creates a scheduler around the given runner. tickTimeout bounds a
// whole tick; zero means ten minutes.
func New(runner CheckRunner, log zerolog.Logger, tickTimeout time.Duration) *Scheduler {
	if tickTimeout <= 0 {
		tickTimeout = 10 * time.Minute
	}
	return &Scheduler{
		runner:      runner,
		log:         log,
		tickTimeout: tickTimeout,
		c:           cron.New(cron.WithLocation(time.UTC)),
	}
}

// Start registers the minute tick and starts the cron loop. cron skips a
// tick if the previous run of the same job is still going, so ticks never
// overlap from this scheduler.
func (s *Scheduler) Start() error {
	_, err := s.c.AddJob("* * * * *", cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(s.tick)))
	if err != nil {
		return err
	}
	s.c.Start()
	s.log.Info().Msg("commute check scheduler started")
	return nil
}

// Stop halts the cron loop and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	ctx := s.c.Stop()
	<-ctx.Done()
	s.log.Info().Msg("commute check scheduler stopped")
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.tickTimeout)
	defer cancel()

	summary, err := s.runner.RunCheckCycle(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("commute check cycle failed")
		return
	}

	failures := 0
	for _, r := range summary.Results {
		if !r.Success {
			failures++
		}
	}

	event := s.log.Info()
	if failures > 0 {
		event = s.log.Warn()
	}
	event.Int("checked", summary.Checked).Int("failures", failures).Msg("commute check tick done")
}
