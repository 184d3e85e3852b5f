// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/travthru/travthru/internal/store"
)

// rollupAge is how old raw page views must be before they are folded
// into the daily table and pruned.
const rollupAge = 24 * time.Hour

func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// Aggregator folds raw page views into daily rollups.
type Aggregator struct {
	db *sql.DB
}

// NewAggregator creates an aggregator over the given database.
func NewAggregator(db *sql.DB) *Aggregator {
	return &Aggregator{db: db}
}

// Rollup groups raw views older than the cutoff into page_views_daily
// and deletes the raw rows, all within one transaction.
func (a *Aggregator) Rollup(ctx context.Context) error {
	cutoff := time.Now().Add(-rollupAge)

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning rollup transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	queries := store.New(tx)

	counts, err := queries.ListPageViewCountsBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("listing page view counts: %w", err)
	}
	if len(counts) == 0 {
		return nil
	}

	for _, c := range counts {
		err := queries.UpsertDailyPageViews(ctx, store.UpsertDailyPageViewsParams{
			Day:     c.Day,
			Path:    c.Path,
			Country: c.Country,
			Views:   c.Views,
		})
		if err != nil {
			return fmt.Errorf("upserting daily views for %s %s: %w", c.Day, c.Path, err)
		}
	}

	if err := queries.DeletePageViewsBefore(ctx, cutoff); err != nil {
		return fmt.Errorf("pruning raw page views: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rollup: %w", err)
	}

	slog.Info("rolled up page views", "groups", len(counts), "cutoff", cutoff.Format(time.RFC3339))
	return nil
}
