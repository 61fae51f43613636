// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// sweepTimeout bounds one expiry sweep
const sweepTimeout = time.Minute

// Sweeper materializes expired surveys. survey.Service implements it.
type Sweeper interface {
	ExpireOverdue(ctx context.Context) (int, error)
}

// Scheduler runs the expiry sweep on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	spec    string
}

// New registers the sweep under spec, which accepts standard five-field
// cron expressions and descriptors such as "@every 5m".
func New(spec string, sweeper Sweeper) (*Scheduler, error) {
	s := &Scheduler{cron: cron.New(), sweeper: sweeper, spec: spec}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("expiry sweep scheduled", "spec", s.spec)
}

// Stop halts the schedule and returns a context that is done once any
// running sweep has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunOnce performs a sweep immediately.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()
	return s.sweeper.ExpireOverdue(ctx)
}

func (s *Scheduler) run() {
	n, err := s.RunOnce(context.Background())
	if err != nil {
		slog.Error("expiry sweep failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("expiry sweep finished", "expired", n)
	}
}
