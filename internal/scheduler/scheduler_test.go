// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/travthru/travthru/internal/analytics"
	"github.com/travthru/travthru/internal/store"
)

func TestSchedulerStartStop(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	defer func() { _ = db.Close() }()
	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	s := New(analytics.NewAggregator(db), nil, slog.Default())
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if got := len(s.cron.Entries()); got != 1 {
		t.Errorf("registered jobs = %d, want 1 without GeoIP", got)
	}
	s.Stop()
}
