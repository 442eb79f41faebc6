package main

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs the periodic housekeeping jobs: refreshing the per-event
// registration gauge and purging registration attempts that were never
// finished.
type Scheduler struct {
	cfg         *apiConfig
	tickChan    <-chan time.Time
	stop        chan struct{}
	ticker      *time.Ticker
	wg          sync.WaitGroup
	statsJobs   func(ctx context.Context)
	cleanupJobs func(ctx context.Context)
}

func NewScheduler(cfg *apiConfig, interval time.Duration) *Scheduler {
	ticker := time.NewTicker(interval)
	s := &Scheduler{
		cfg:      cfg,
		tickChan: ticker.C,
		stop:     make(chan struct{}),
		ticker:   ticker,
	}
	s.statsJobs = s.refreshEventGauge
	s.cleanupJobs = s.purgeStaleAttempts
	return s
}

// Start runs one cycle right away, then one per tick until Stop is called.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runCycle()
		for {
			select {
			case <-s.tickChan:
				s.runCycle()
			case <-s.stop:
				s.cfg.logger.Info("scheduler stopping")
				s.ticker.Stop()
				return
			}
		}
	}()
}

// Stop signals the scheduler and waits for the running cycle to finish.
func (s *Scheduler) Stop() {
	close(s.stop)
	s.wg.Wait()
}

func (s *Scheduler) runCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	s.statsJobs(ctx)
	s.cleanupJobs(ctx)
}

func (s *Scheduler) refreshEventGauge(ctx context.Context) {
	rows, err := s.cfg.dbQueries.CountRegistrationsPerEvent(ctx)
	if err != nil {
		s.cfg.logger.Error("scheduler: failed to count registrations", "error", err)
		return
	}
	eventRegistrations.Reset()
	for _, row := range rows {
		eventRegistrations.WithLabelValues(row.EventID).Set(float64(row.Count))
	}
	s.cfg.logger.Debug("scheduler: event gauge refreshed", "events", len(rows))
}

func (s *Scheduler) purgeStaleAttempts(ctx context.Context) {
	cutoff := s.cfg.clock.Now().Add(-s.cfg.attemptTTL)
	n, err := s.cfg.dbQueries.DeleteAttemptsBefore(ctx, cutoff)
	if err != nil {
		s.cfg.logger.Error("scheduler: failed to purge registration attempts", "error", err)
		return
	}
	if n > 0 {
		s.cfg.logger.Info("scheduler: purged stale registration attempts", "count", n, "cutoff", cutoff)
	}
}
