package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// PollScheduler fires the poll job on a fixed cadence. The cadence does not
// depend on the outcome of an iteration, and a still-running iteration
// suppresses the next tick instead of overlapping it, so exactly one
// network call is ever in flight.
type PollScheduler struct {
	cronEngine *cron.Cron
	interval   time.Duration
	job        func(context.Context)
	logger     *logrus.Logger
	firstRun   sync.WaitGroup
}

func NewPollScheduler(interval time.Duration, job func(context.Context), logger *logrus.Logger) *PollScheduler {
	return &PollScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)),
		interval:   interval,
		job:        job,
		logger:     logger,
	}
}

// Start runs the job once immediately, then on every interval tick.
func (s *PollScheduler) Start() error {
	// The immediate run and the cron ticks share one chained job, so the
	// skip guard covers them both.
	guarded := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(
		cron.FuncJob(func() { s.job(context.Background()) }),
	)

	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cronEngine.AddJob(spec, guarded); err != nil {
		return fmt.Errorf("could not add poll job (%s): %w", spec, err)
	}

	s.logger.Debugf("Poll scheduler starting, interval %s", s.interval)
	s.firstRun.Add(1)
	go func() {
		defer s.firstRun.Done()
		guarded.Run()
	}()
	s.cronEngine.Start()
	return nil
}

// Stop halts the schedule and waits for a running iteration to finish,
// including the immediate startup run, which lives outside the cron engine.
func (s *PollScheduler) Stop() {
	s.logger.Debug("Poll scheduler stopping...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.firstRun.Wait()
	s.logger.Debug("Poll scheduler stopped")
}
