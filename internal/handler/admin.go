// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/travthru/travthru/internal/middleware"
	"github.com/travthru/travthru/internal/render"
	"github.com/travthru/travthru/internal/store"
)

// AdminHandler handles the admin dashboard.
type AdminHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer) *AdminHandler {
	return &AdminHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// DashboardData holds statistics for the admin dashboard.
type DashboardData struct {
	ArticleCount        int64
	PublishedCount      int64
	UserCount           int64
	PendingTestimonials int64
	RecentEvents        []store.Event
	TopPages            []store.TopPage
}

// Dashboard handles GET /admin - displays site statistics, the
// moderation queue size, recent audit events and top visited pages.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := DashboardData{}

	var err error
	if data.ArticleCount, err = h.queries.CountArticles(ctx); err != nil {
		slog.Error("failed to count articles", "error", err)
	}
	published, err := h.queries.ListPublishedArticles(ctx)
	if err != nil {
		slog.Error("failed to list published articles", "error", err)
	}
	data.PublishedCount = int64(len(published))

	if data.UserCount, err = h.queries.CountUsers(ctx); err != nil {
		slog.Error("failed to count users", "error", err)
	}
	if data.PendingTestimonials, err = h.queries.CountPendingTestimonials(ctx); err != nil {
		slog.Error("failed to count pending testimonials", "error", err)
	}
	if data.RecentEvents, err = h.queries.ListRecentEvents(ctx, 10); err != nil {
		slog.Error("failed to list recent events", "error", err)
	}
	if data.TopPages, err = h.queries.ListTopPages(ctx, 5); err != nil {
		slog.Error("failed to list top pages", "error", err)
	}

	renderOrInternalError(w, r, h.renderer, "admin/dashboard", render.TemplateData{
		Title: "Dashboard",
		User:  middleware.GetUser(r),
		Data:  data,
	})
}

// EventsData holds data for the events list template.
type EventsData struct {
	Events []store.Event
}

// Events handles GET /admin/events - displays the audit log.
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.queries.ListRecentEvents(r.Context(), 100)
	if err != nil {
		logAndInternalError(w, "failed to list events", "error", err)
		return
	}

	renderOrInternalError(w, r, h.renderer, "admin/events_list", render.TemplateData{
		Title: "Event Log",
		User:  middleware.GetUser(r),
		Data:  EventsData{Events: events},
	})
}
