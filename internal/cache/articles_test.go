// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/travthru/travthru/internal/store"
)

func testQueries(t *testing.T) *store.Queries {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return store.New(db)
}

func createTestArticle(t *testing.T, queries *store.Queries, slug string, published bool) store.Article {
	t.Helper()

	now := time.Now()
	a, err := queries.CreateArticle(context.Background(), store.CreateArticleParams{
		Title:     "KLIA Transfer Guide",
		Slug:      slug,
		Excerpt:   "Everything about airport transfers.",
		Content:   "<p>Full guide.</p>",
		Author:    "TravThru Team",
		Published: published,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("creating article: %v", err)
	}
	return a
}

func TestArticleCache_GetBySlug(t *testing.T) {
	queries := testQueries(t)
	c := NewArticleCache(queries)
	ctx := context.Background()

	createTestArticle(t, queries, "klia-guide", true)

	first, err := c.GetBySlug(ctx, "klia-guide")
	if err != nil {
		t.Fatalf("GetBySlug() error: %v", err)
	}
	if first.Slug != "klia-guide" {
		t.Errorf("slug = %q, want klia-guide", first.Slug)
	}

	// Second lookup must be served from cache
	second, err := c.GetBySlug(ctx, "klia-guide")
	if err != nil {
		t.Fatalf("cached GetBySlug() error: %v", err)
	}
	if second != first {
		t.Error("second lookup should return the cached pointer")
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %d hits / %d misses, want 1/1", stats.Hits, stats.Misses)
	}
}

func TestArticleCache_GetBySlug_UnpublishedNotFound(t *testing.T) {
	queries := testQueries(t)
	c := NewArticleCache(queries)

	createTestArticle(t, queries, "draft-guide", false)

	_, err := c.GetBySlug(context.Background(), "draft-guide")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetBySlug(draft) error = %v, want sql.ErrNoRows", err)
	}
}

func TestArticleCache_ListPublished(t *testing.T) {
	queries := testQueries(t)
	c := NewArticleCache(queries)
	ctx := context.Background()

	createTestArticle(t, queries, "first", true)
	createTestArticle(t, queries, "second", false)

	list, err := c.ListPublished(ctx)
	if err != nil {
		t.Fatalf("ListPublished() error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d published articles, want 1", len(list))
	}

	// New publish is invisible until invalidation
	createTestArticle(t, queries, "third", true)
	list, err = c.ListPublished(ctx)
	if err != nil {
		t.Fatalf("cached ListPublished() error: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("cached list has %d articles, want stale 1", len(list))
	}

	c.Invalidate()
	list, err = c.ListPublished(ctx)
	if err != nil {
		t.Fatalf("ListPublished() after invalidation error: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("got %d articles after invalidation, want 2", len(list))
	}
}

func TestManager_ClearAll(t *testing.T) {
	queries := testQueries(t)

	m, err := NewManager(queries, DefaultCacheConfig())
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	defer m.Stop()

	createTestArticle(t, queries, "guide", true)
	if _, err := m.Articles.GetBySlug(context.Background(), "guide"); err != nil {
		t.Fatalf("warming article cache: %v", err)
	}
	if err := m.General.Set(context.Background(), "geocode:klia", []byte(`[]`), 0); err != nil {
		t.Fatalf("setting general cache: %v", err)
	}

	m.ClearAll()

	if got := m.Articles.Stats().Items; got != 0 {
		t.Errorf("article cache items after clear = %d, want 0", got)
	}
	if _, err := m.General.Get(context.Background(), "geocode:klia"); err != ErrCacheMiss {
		t.Errorf("general cache get after clear = %v, want ErrCacheMiss", err)
	}

	total := m.TotalStats()
	if total.Hits != 0 || total.Misses != 1 {
		t.Errorf("total stats after clear = %d hits / %d misses, want 0/1", total.Hits, total.Misses)
	}
}
