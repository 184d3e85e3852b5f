// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/travthru/travthru/internal/logging"
	"github.com/travthru/travthru/internal/middleware"
	"github.com/travthru/travthru/internal/render"
	"github.com/travthru/travthru/internal/store"
)

// Testimonial text is capped to keep the home page carousel readable.
const maxTestimonialTextLen = 1000

// TestimonialsHandler handles testimonial moderation and public submission.
type TestimonialsHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewTestimonialsHandler creates a new TestimonialsHandler.
func NewTestimonialsHandler(db *sql.DB, renderer *render.Renderer) *TestimonialsHandler {
	return &TestimonialsHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// TestimonialsListData holds data for the testimonials list template.
type TestimonialsListData struct {
	Testimonials []store.Testimonial
	PendingCount int64
}

// List handles GET /admin/testimonials - shows all testimonials,
// pending first.
func (h *TestimonialsHandler) List(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.queries.ListTestimonials(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list testimonials", "error", err)
		return
	}

	pending, err := h.queries.CountPendingTestimonials(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to count pending testimonials", "error", err)
		return
	}

	renderOrInternalError(w, r, h.renderer, "admin/testimonials_list", render.TemplateData{
		Title: "Testimonials",
		User:  middleware.GetUser(r),
		Data: TestimonialsListData{
			Testimonials: testimonials,
			PendingCount: pending,
		},
	})
}

// Approve handles POST /admin/testimonials/{id}/approve.
func (h *TestimonialsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.setApproved(w, r, true)
}

// Reject handles POST /admin/testimonials/{id}/reject - returns an
// approved testimonial to the pending queue.
func (h *TestimonialsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.setApproved(w, r, false)
}

func (h *TestimonialsHandler) setApproved(w http.ResponseWriter, r *http.Request, approved bool) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminTestimonials, "Invalid testimonial ID")
		return
	}

	if _, ok := h.requireTestimonial(w, r, id); !ok {
		return
	}

	err = h.queries.SetTestimonialApproved(r.Context(), store.SetTestimonialApprovedParams{
		ID:       id,
		Approved: approved,
	})
	if err != nil {
		slog.Error("failed to update testimonial approval", "error", err,
			"category", logging.EventCategoryTestimonial, "testimonial_id", id)
		flashError(w, r, h.renderer, redirectAdminTestimonials, "Error updating testimonial")
		return
	}

	message := "Testimonial approved and now visible on the site"
	if !approved {
		message = "Testimonial hidden from the site"
	}
	slog.Info("testimonial moderation changed", "testimonial_id", id,
		"approved", approved, "moderated_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminTestimonials, message)
}

// Delete handles POST /admin/testimonials/{id}/delete.
func (h *TestimonialsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminTestimonials, "Invalid testimonial ID")
		return
	}

	if _, ok := h.requireTestimonial(w, r, id); !ok {
		return
	}

	if err := h.queries.DeleteTestimonial(r.Context(), id); err != nil {
		slog.Error("failed to delete testimonial", "error", err,
			"category", logging.EventCategoryTestimonial, "testimonial_id", id)
		flashError(w, r, h.renderer, redirectAdminTestimonials, "Error deleting testimonial")
		return
	}

	slog.Info("testimonial deleted", "testimonial_id", id,
		"deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminTestimonials, "Testimonial deleted")
}

// Submit handles POST /testimonials - public testimonial submission.
// New testimonials always start unapproved and only appear on the site
// after an operator approves them.
func (h *TestimonialsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectHomeTestimonials) {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	role := strings.TrimSpace(r.FormValue("role"))
	text := strings.TrimSpace(r.FormValue("text"))
	ratingStr := r.FormValue("rating")

	if name == "" || text == "" {
		flashError(w, r, h.renderer, redirectHomeTestimonials, "Please provide your name and a review")
		return
	}
	if len(text) > maxTestimonialTextLen {
		flashError(w, r, h.renderer, redirectHomeTestimonials, "Review is too long")
		return
	}

	rating, err := strconv.ParseInt(ratingStr, 10, 64)
	if err != nil || rating < 1 || rating > 5 {
		flashError(w, r, h.renderer, redirectHomeTestimonials, "Rating must be between 1 and 5 stars")
		return
	}

	testimonial, err := h.queries.CreateTestimonial(r.Context(), store.CreateTestimonialParams{
		Name:      name,
		Role:      role,
		Text:      text,
		Rating:    rating,
		Approved:  false,
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to create testimonial", "error", err,
			"category", logging.EventCategoryTestimonial)
		flashError(w, r, h.renderer, redirectHomeTestimonials, "Could not submit your review. Please try again")
		return
	}

	slog.Info("testimonial submitted", "testimonial_id", testimonial.ID,
		"category", logging.EventCategoryTestimonial, "rating", rating)
	flashSuccess(w, r, h.renderer, redirectHomeTestimonials,
		"Thank you for your review! It will appear after moderation")
}

func (h *TestimonialsHandler) requireTestimonial(w http.ResponseWriter, r *http.Request, id int64) (store.Testimonial, bool) {
	return requireEntityWithRedirect(w, r, h.renderer, redirectAdminTestimonials, "Testimonial", id,
		func(id int64) (store.Testimonial, error) { return h.queries.GetTestimonialByID(r.Context(), id) })
}
