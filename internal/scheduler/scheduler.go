// Package scheduler runs the periodic orphan-image sweep.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"accessibilityhire/internal/cache"
)

// Sweeper is one sweep pass
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

const lockName = "scheduler:orphan-sweep"

// Scheduler wraps robfig/cron. With several server instances the cache
// lock lets only one of them sweep per tick.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	locks   cache.Cache
	spec    string
	timeout time.Duration
	log     *logrus.Entry
}

// New creates a Scheduler that fires every intervalHours hours.
func New(sweeper Sweeper, locks cache.Cache, intervalHours int, log *logrus.Entry) *Scheduler {
	if intervalHours <= 0 {
		intervalHours = 24
	}
	log = log.WithField("component", "scheduler")
	cronLog := cron.PrintfLogger(log)
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cronLog), cron.WithChain(cron.Recover(cronLog))),
		sweeper: sweeper,
		locks:   locks,
		spec:    fmt.Sprintf("@every %dh", intervalHours),
		timeout: time.Duration(intervalHours) * time.Hour / 2,
		log:     log,
	}
}

// Start registers the job and starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.cron.Start()
	s.log.WithField("spec", s.spec).Info("cron started")
	return nil
}

// Stop waits for a running sweep to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("cron stopped")
}

// RunOnce performs a single locked sweep
func (s *Scheduler) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	unlock, err := s.locks.Lock(ctx, lockName, s.timeout)
	if errors.Is(err, cache.ErrLocked) {
		s.log.Info("sweep skipped, another instance holds the lock")
		return
	}
	if err != nil {
		s.log.WithError(err).Warn("sweep skipped, lock unavailable")
		return
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			s.log.WithError(err).Warn("failed to release sweep lock")
		}
	}()

	removed, err := s.sweeper.Sweep(ctx)
	if err != nil {
		s.log.WithError(err).WithField("removed", removed).Error("sweep failed")
		return
	}
	s.log.WithField("removed", removed).Info("sweep cycle complete")
}
