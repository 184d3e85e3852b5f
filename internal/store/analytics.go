// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createPageView = `
INSERT INTO page_views (path, country, visitor_hash, created_at)
VALUES (?, ?, ?, ?)
`

// CreatePageViewParams holds the fields for CreatePageView.
type CreatePageViewParams struct {
	Path        string
	Country     string
	VisitorHash string
	CreatedAt   time.Time
}

// CreatePageView records a raw public page view.
func (q *Queries) CreatePageView(ctx context.Context, arg CreatePageViewParams) error {
	_, err := q.db.ExecContext(ctx, createPageView,
		arg.Path, arg.Country, arg.VisitorHash, arg.CreatedAt,
	)
	return err
}

const listPageViewCountsBefore = `
SELECT date(created_at) AS day, path, country, COUNT(*) AS views
FROM page_views
WHERE created_at < ?
GROUP BY day, path, country
`

// PageViewCount is a grouped raw-view count ready for rollup.
type PageViewCount struct {
	Day     string
	Path    string
	Country string
	Views   int64
}

// ListPageViewCountsBefore groups raw views older than the cutoff by
// day, path and country.
func (q *Queries) ListPageViewCountsBefore(ctx context.Context, cutoff time.Time) ([]PageViewCount, error) {
	rows, err := q.db.QueryContext(ctx, listPageViewCountsBefore, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PageViewCount
	for rows.Next() {
		var c PageViewCount
		if err := rows.Scan(&c.Day, &c.Path, &c.Country, &c.Views); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const upsertDailyPageViews = `
INSERT INTO page_views_daily (day, path, country, views)
VALUES (?, ?, ?, ?)
ON CONFLICT(day, path, country) DO UPDATE SET views = views + excluded.views
`

// UpsertDailyPageViewsParams holds the fields for UpsertDailyPageViews.
type UpsertDailyPageViewsParams struct {
	Day     string
	Path    string
	Country string
	Views   int64
}

// UpsertDailyPageViews adds view counts into the daily rollup table.
func (q *Queries) UpsertDailyPageViews(ctx context.Context, arg UpsertDailyPageViewsParams) error {
	_, err := q.db.ExecContext(ctx, upsertDailyPageViews, arg.Day, arg.Path, arg.Country, arg.Views)
	return err
}

const deletePageViewsBefore = `DELETE FROM page_views WHERE created_at < ?`

// DeletePageViewsBefore prunes raw views older than the cutoff.
func (q *Queries) DeletePageViewsBefore(ctx context.Context, cutoff time.Time) error {
	_, err := q.db.ExecContext(ctx, deletePageViewsBefore, cutoff)
	return err
}

const listTopPages = `
SELECT path, SUM(views) AS views
FROM page_views_daily
GROUP BY path
ORDER BY views DESC
LIMIT ?
`

// TopPage is a path with its aggregated view count.
type TopPage struct {
	Path  string
	Views int64
}

// ListTopPages returns the most viewed paths from the daily rollups.
func (q *Queries) ListTopPages(ctx context.Context, limit int64) ([]TopPage, error) {
	rows, err := q.db.QueryContext(ctx, listTopPages, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TopPage
	for rows.Next() {
		var p TopPage
		if err := rows.Scan(&p.Path, &p.Views); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
