// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package analytics records public page views and rolls them up into
// daily aggregates for the admin dashboard.
package analytics

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mileusna/useragent"

	"github.com/travthru/travthru/internal/geoip"
	"github.com/travthru/travthru/internal/store"
)

// Tracker records page views for public routes.
type Tracker struct {
	queries *store.Queries
	geo     *geoip.Lookup
}

// NewTracker creates a page view tracker. geo may be nil when GeoIP
// is not configured.
func NewTracker(db *sql.DB, geo *geoip.Lookup) *Tracker {
	return &Tracker{
		queries: store.New(db),
		geo:     geo,
	}
}

// Middleware records a page view for each GET request that is not a
// bot, asset, or API call. Recording happens in the background so the
// response is never delayed by the write.
func (t *Tracker) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if t.shouldTrack(r) {
				path := r.URL.Path
				ip := clientIP(r)
				ua := r.Header.Get("User-Agent")

				go func() {
					ctx, cancel := contextWithTimeout()
					defer cancel()

					country := ""
					if t.geo != nil {
						country = t.geo.LookupCountry(ip)
					}

					err := t.queries.CreatePageView(ctx, store.CreatePageViewParams{
						Path:        path,
						Country:     country,
						VisitorHash: visitorHash(ip, ua),
						CreatedAt:   time.Now(),
					})
					if err != nil {
						slog.Warn("failed to record page view", "path", path, "error", err)
					}
				}()
			}

			next.ServeHTTP(w, r)
		})
	}
}

// shouldTrack filters out non-page requests and known bots.
func (t *Tracker) shouldTrack(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}

	path := r.URL.Path
	if strings.HasPrefix(path, "/static/") ||
		strings.HasPrefix(path, "/uploads/") ||
		strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/admin") ||
		path == "/favicon.ico" {
		return false
	}

	ua := useragent.Parse(r.Header.Get("User-Agent"))
	return !ua.Bot
}

// visitorHash derives a stable, anonymous visitor identifier for the
// current day. The date component keeps hashes from being linkable
// across days.
func visitorHash(ip, userAgent string) string {
	day := time.Now().Format("2006-01-02")
	sum := sha256.Sum256([]byte(ip + "|" + userAgent + "|" + day))
	return hex.EncodeToString(sum[:16])
}

// clientIP extracts the client IP, honouring reverse proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if idx := strings.Index(ip, ","); idx != -1 {
			return strings.TrimSpace(ip[:idx])
		}
		return ip
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return host
}
