// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/travthru/travthru/internal/analytics"
	"github.com/travthru/travthru/internal/geoip"
)

// Scheduler handles periodic jobs: page view rollups and GeoIP
// database refreshes.
type Scheduler struct {
	cron       *cron.Cron
	logger     *slog.Logger
	aggregator *analytics.Aggregator
	geo        *geoip.Lookup
}

// New creates a new scheduler instance. geo may be nil when GeoIP is
// not configured.
func New(aggregator *analytics.Aggregator, geo *geoip.Lookup, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		logger:     logger,
		aggregator: aggregator,
		geo:        geo,
	}
}

// Start registers the jobs and begins the cron loop.
func (s *Scheduler) Start() error {
	// Roll up raw page views hourly
	_, err := s.cron.AddFunc("0 * * * *", func() {
		if err := s.aggregator.Rollup(context.Background()); err != nil {
			s.logger.Error("failed to roll up page views", "error", err)
		}
	})
	if err != nil {
		return err
	}

	// Reload the GeoIP database daily in case it was updated on disk
	if s.geo != nil {
		_, err = s.cron.AddFunc("30 4 * * *", func() {
			if err := s.geo.Reload(); err != nil {
				s.logger.Warn("failed to reload GeoIP database", "error", err)
			}
		})
		if err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
