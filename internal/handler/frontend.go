// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/travthru/travthru/internal/booking"
	"github.com/travthru/travthru/internal/cache"
	"github.com/travthru/travthru/internal/fleet"
	"github.com/travthru/travthru/internal/geocode"
	"github.com/travthru/travthru/internal/markdown"
	"github.com/travthru/travthru/internal/render"
	"github.com/travthru/travthru/internal/seo"
	"github.com/travthru/travthru/internal/store"
)

// maxRelatedShown caps the related panel on an article page. The query
// fetches one extra row as a spare.
const maxRelatedShown = 2

// FrontendHandler handles the public site routes.
type FrontendHandler struct {
	queries       *store.Queries
	renderer      *render.Renderer
	caches        *cache.Manager
	whatsAppPhone string
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(db *sql.DB, renderer *render.Renderer, caches *cache.Manager, whatsAppPhone string) *FrontendHandler {
	return &FrontendHandler{
		queries:       store.New(db),
		renderer:      renderer,
		caches:        caches,
		whatsAppPhone: whatsAppPhone,
	}
}

// HomeData holds data for the home page template.
type HomeData struct {
	Cars             []fleet.Car
	Testimonials     []store.Testimonial
	PopularLocations []string
	WhatsAppPhone    string
}

// Home handles GET / - the landing page with fleet, booking form and
// approved testimonials.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.queries.ListApprovedTestimonials(r.Context())
	if err != nil {
		slog.Error("failed to list approved testimonials", "error", err)
		// The page is still useful without the carousel
	}

	renderOrInternalError(w, r, h.renderer, "frontend/home", render.TemplateData{
		Title: "TravThru - Private Chauffeur & Car Rental in Kuala Lumpur",
		Data: HomeData{
			Cars:             fleet.All(),
			Testimonials:     testimonials,
			PopularLocations: geocode.PopularLocations,
			WhatsAppPhone:    h.whatsAppPhone,
		},
	})
}

// BookingSubmit handles POST /booking - validates the quote request and
// redirects the visitor to WhatsApp with a pre-filled message. Nothing
// is persisted.
func (h *FrontendHandler) BookingSubmit(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectHomeBooking) {
		return
	}

	details := booking.Details{
		TripType:        booking.TripType(r.FormValue("trip_type")),
		PickupLocation:  r.FormValue("pickup_location"),
		DropoffLocation: r.FormValue("dropoff_location"),
		PickupDate:      r.FormValue("pickup_date"),
		PickupTime:      r.FormValue("pickup_time"),
		ReturnDate:      r.FormValue("return_date"),
		ReturnTime:      r.FormValue("return_time"),
	}

	if err := details.Validate(); err != nil {
		flashError(w, r, h.renderer, redirectHomeBooking, "Please complete the booking form: "+err.Error())
		return
	}

	slog.Info("booking quote requested",
		"trip_type", string(details.TripType),
		"pickup", details.PickupLocation,
		"dropoff", details.DropoffLocation)

	http.Redirect(w, r, booking.Link(h.whatsAppPhone, details), http.StatusSeeOther)
}

// CarInquiry handles GET /inquiry?car=NAME - redirects to WhatsApp with
// a rental inquiry for the named car.
func (h *FrontendHandler) CarInquiry(w http.ResponseWriter, r *http.Request) {
	carName := r.URL.Query().Get("car")
	car, ok := fleet.ByName(carName)
	if !ok {
		h.renderer.SetFlash(r, "Unknown car", "error")
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	slog.Info("car inquiry", "car", car.Name)
	http.Redirect(w, r, booking.CarInquiryLink(h.whatsAppPhone, car.Name), http.StatusSeeOther)
}

// ArticleSummary is the list view model for a published article.
type ArticleSummary struct {
	Title     string
	Slug      string
	Excerpt   string
	Image     string
	Author    string
	CreatedAt string
}

// ArticlesListPageData holds data for the public articles page.
type ArticlesListPageData struct {
	Articles []ArticleSummary
}

// ArticlesList handles GET /articles - lists published articles.
func (h *FrontendHandler) ArticlesList(w http.ResponseWriter, r *http.Request) {
	articles, err := h.caches.Articles.ListPublished(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list published articles", "error", err)
		return
	}

	summaries := make([]ArticleSummary, 0, len(articles))
	for _, a := range articles {
		summaries = append(summaries, ArticleSummary{
			Title:     a.Title,
			Slug:      a.Slug,
			Excerpt:   markdown.Excerpt(a.Excerpt, a.Content),
			Image:     a.Image,
			Author:    a.Author,
			CreatedAt: a.CreatedAt.Format("January 2, 2006"),
		})
	}

	renderOrInternalError(w, r, h.renderer, "frontend/articles", render.TemplateData{
		Title: "Travel Guides & Tips",
		Data:  ArticlesListPageData{Articles: summaries},
	})
}

// ArticlePageData holds data for a single article page.
type ArticlePageData struct {
	Article store.Article
	// HTML is the article body, converted from markdown and sanitized
	// at render time. Stored content is never trusted as-is.
	HTML    template.HTML
	Related []ArticleSummary
}

// ArticleBySlug handles GET /articles/{slug} - a single published
// article with up to three related articles.
func (h *FrontendHandler) ArticleBySlug(w http.ResponseWriter, r *http.Request) {
	slug := SlugParam(r)

	article, err := h.caches.Articles.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.renderNotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to load article", "error", err, "slug", slug)
		return
	}

	related, err := h.queries.ListRelatedArticles(r.Context(), store.ListRelatedArticlesParams{
		Slug:  slug,
		Limit: 3,
	})
	if err != nil {
		slog.Error("failed to list related articles", "error", err, "slug", slug)
	}

	if len(related) > maxRelatedShown {
		related = related[:maxRelatedShown]
	}
	relatedSummaries := make([]ArticleSummary, 0, len(related))
	for _, a := range related {
		relatedSummaries = append(relatedSummaries, ArticleSummary{
			Title:     a.Title,
			Slug:      a.Slug,
			Excerpt:   markdown.Excerpt(a.Excerpt, a.Content),
			Image:     a.Image,
			Author:    a.Author,
			CreatedAt: a.CreatedAt.Format("January 2, 2006"),
		})
	}

	renderOrInternalError(w, r, h.renderer, "frontend/article", render.TemplateData{
		Title: article.Title,
		Data: ArticlePageData{
			Article: *article,
			HTML:    markdown.RenderOrEmpty(article.Content),
			Related: relatedSummaries,
		},
	})
}

func (h *FrontendHandler) renderNotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	if err := h.renderer.Render(w, r, "frontend/article_not_found", render.TemplateData{
		Title: "Article Not Found",
	}); err != nil {
		slog.Error("template render error", "error", err)
	}
}

// Sitemap handles GET /sitemap.xml - homepage, article index and every
// published article.
func (h *FrontendHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	articles, err := h.queries.ListPublishedArticles(r.Context())
	if err != nil {
		slog.Error("failed to list articles for sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	entries := make([]seo.SitemapArticle, 0, len(articles))
	for _, a := range articles {
		entries = append(entries, seo.SitemapArticle{
			Slug:      a.Slug,
			UpdatedAt: a.UpdatedAt,
		})
	}

	out, err := seo.GenerateSitemap(siteURL(r), entries)
	if err != nil {
		slog.Error("failed to build sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}

// Robots handles GET /robots.txt.
func (h *FrontendHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.GenerateRobots(siteURL(r), false)))
}

// siteURL reconstructs the external base URL from the request,
// honouring the reverse proxy scheme header.
func siteURL(r *http.Request) string {
	scheme := "https"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS == nil {
		scheme = "http"
	}
	return scheme + "://" + r.Host
}

// NotFound is the router-level 404 handler for unmatched paths.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	if err := h.renderer.Render(w, r, "frontend/not_found", render.TemplateData{
		Title: "Page Not Found",
	}); err != nil {
		slog.Error("template render error", "error", err)
	}
}
