// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/travthru/travthru/internal/store"
)

// ArticleCache provides cached access to published articles.
// Entries are invalidated on any article write, so the TTL is only a
// backstop against a missed invalidation.
type ArticleCache struct {
	queries *store.Queries
	mu      sync.RWMutex

	bySlug    map[string]*store.Article
	published []store.Article
	listedAt  time.Time
	ttl       time.Duration

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

// NewArticleCache creates a new article cache.
func NewArticleCache(queries *store.Queries) *ArticleCache {
	return &ArticleCache{
		queries: queries,
		bySlug:  make(map[string]*store.Article),
		ttl:     time.Hour,
	}
}

// GetBySlug retrieves a published article by slug.
// sql.ErrNoRows from the store is passed through as the not-found signal.
func (c *ArticleCache) GetBySlug(ctx context.Context, slug string) (*store.Article, error) {
	c.mu.RLock()
	if a, ok := c.bySlug[slug]; ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return a, nil
	}
	c.mu.RUnlock()

	c.misses.Add(1)

	a, err := c.queries.GetPublishedArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.bySlug[slug] = &a
	c.mu.Unlock()
	c.sets.Add(1)

	return &a, nil
}

// ListPublished returns all published articles, newest first.
func (c *ArticleCache) ListPublished(ctx context.Context) ([]store.Article, error) {
	c.mu.RLock()
	if c.published != nil && time.Since(c.listedAt) < c.ttl {
		list := c.published
		c.mu.RUnlock()
		c.hits.Add(1)
		return list, nil
	}
	c.mu.RUnlock()

	c.misses.Add(1)

	articles, err := c.queries.ListPublishedArticles(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.published = articles
	c.listedAt = time.Now()
	c.mu.Unlock()
	c.sets.Add(1)

	return articles, nil
}

// Invalidate clears the cache. Called after any article create, update,
// publish toggle or delete.
func (c *ArticleCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bySlug = make(map[string]*store.Article)
	c.published = nil
}

// Stats returns cache statistics.
func (c *ArticleCache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	c.mu.RLock()
	items := len(c.bySlug)
	if c.published != nil {
		items++
	}
	c.mu.RUnlock()

	return Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		Items:   items,
		HitRate: hitRate,
	}
}

// ResetStats resets the cache statistics.
func (c *ArticleCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
}
