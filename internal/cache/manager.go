package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/travthru/travthru/internal/store"
)

func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// CacheType identifies a specific cache.
type CacheType string

// Cache types.
const (
	CacheTypeArticles CacheType = "articles"
	CacheTypeGeneral  CacheType = "general"
)

// NamedStats holds statistics for a specific cache.
type NamedStats struct {
	Name  string
	Type  CacheType
	Stats Stats
}

// Manager manages all cache instances and provides a unified interface.
type Manager struct {
	Articles *ArticleCache
	General  Cacher // for misc cached data (geocode responses etc.)
}

// NewManager creates a new cache manager. The general cache backend is
// selected by cfg (memory by default, Redis when configured).
func NewManager(queries *store.Queries, cfg CacheConfig) (*Manager, error) {
	general, err := NewCache(cfg)
	if err != nil {
		return nil, err
	}
	return &Manager{
		Articles: NewArticleCache(queries),
		General:  general,
	}, nil
}

// Stop releases cache resources.
func (m *Manager) Stop() {
	if err := m.General.Close(); err != nil {
		slog.Warn("failed to close general cache", "error", err)
	}
}

// ClearAll clears all caches and resets statistics.
func (m *Manager) ClearAll() {
	m.Articles.Invalidate()
	m.Articles.ResetStats()

	ctx, cancel := contextWithTimeout()
	defer cancel()
	if err := m.General.Clear(ctx); err != nil {
		slog.Warn("failed to clear general cache", "error", err)
	}
	if sp, ok := m.General.(StatsProvider); ok {
		sp.ResetStats()
	}

	slog.Info("caches cleared")
}

// InvalidateArticles invalidates the article cache.
// Call this when articles are created, updated, published or deleted.
func (m *Manager) InvalidateArticles() {
	m.Articles.Invalidate()
}

// AllStats returns statistics for all caches.
func (m *Manager) AllStats() []NamedStats {
	stats := []NamedStats{
		{
			Name:  "Published Articles",
			Type:  CacheTypeArticles,
			Stats: m.Articles.Stats(),
		},
	}
	if sp, ok := m.General.(StatsProvider); ok {
		stats = append(stats, NamedStats{
			Name:  "General Cache",
			Type:  CacheTypeGeneral,
			Stats: sp.Stats(),
		})
	}
	return stats
}

// TotalStats returns aggregated statistics across all caches.
func (m *Manager) TotalStats() Stats {
	total := Stats{}
	for _, s := range m.AllStats() {
		total.Hits += s.Stats.Hits
		total.Misses += s.Stats.Misses
		total.Sets += s.Stats.Sets
		total.Items += s.Stats.Items
	}

	requests := total.Hits + total.Misses
	if requests > 0 {
		total.HitRate = float64(total.Hits) / float64(requests) * 100
	}
	return total
}
