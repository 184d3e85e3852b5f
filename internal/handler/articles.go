// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/travthru/travthru/internal/cache"
	"github.com/travthru/travthru/internal/imaging"
	"github.com/travthru/travthru/internal/logging"
	"github.com/travthru/travthru/internal/markdown"
	"github.com/travthru/travthru/internal/middleware"
	"github.com/travthru/travthru/internal/render"
	"github.com/travthru/travthru/internal/store"
	"github.com/travthru/travthru/internal/util"
)

// ArticlesPerPage is the number of articles per admin list page.
const ArticlesPerPage = 10

// maxUploadSize limits article image uploads to 10 MB.
const maxUploadSize = 10 << 20

// ArticlesHandler handles admin article management routes.
type ArticlesHandler struct {
	queries   *store.Queries
	renderer  *render.Renderer
	caches    *cache.Manager
	processor *imaging.Processor
}

// NewArticlesHandler creates a new ArticlesHandler.
func NewArticlesHandler(db *sql.DB, renderer *render.Renderer, caches *cache.Manager, uploadsDir string) *ArticlesHandler {
	return &ArticlesHandler{
		queries:   store.New(db),
		renderer:  renderer,
		caches:    caches,
		processor: imaging.NewProcessor(uploadsDir),
	}
}

// ArticlesListData holds data for the articles list template.
type ArticlesListData struct {
	Articles   []store.Article
	Total      int64
	Pagination AdminPagination
}

// List handles GET /admin/articles - displays a paginated list of articles.
func (h *ArticlesHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	total, err := h.queries.CountArticles(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to count articles", "error", err)
		return
	}

	page := ParsePageParam(r)
	page, _ = NormalizePagination(page, int(total), ArticlesPerPage)

	articles, err := h.queries.ListArticles(r.Context(), store.ListArticlesParams{
		Limit:  ArticlesPerPage,
		Offset: int64((page - 1) * ArticlesPerPage),
	})
	if err != nil {
		logAndInternalError(w, "failed to list articles", "error", err)
		return
	}

	renderOrInternalError(w, r, h.renderer, "admin/articles_list", render.TemplateData{
		Title: "Articles",
		User:  user,
		Data: ArticlesListData{
			Articles:   articles,
			Total:      total,
			Pagination: BuildAdminPagination(page, int(total), ArticlesPerPage, redirectAdminArticles, r.URL.Query()),
		},
	})
}

// ArticleFormData holds data for the article form template.
type ArticleFormData struct {
	Article    *store.Article
	Errors     map[string]string
	FormValues map[string]string
	IsEdit     bool
}

// NewForm handles GET /admin/articles/new - displays the new article form.
func (h *ArticlesHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "New Article", ArticleFormData{
		Errors:     make(map[string]string),
		FormValues: make(map[string]string),
	})
}

// Create handles POST /admin/articles - creates a new article.
func (h *ArticlesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminArticlesNew) {
		return
	}

	form := h.articleFormValues(r)
	if form.values["slug"] == "" {
		form.values["slug"] = util.Slugify(form.values["title"])
	}

	formErrors := h.validateArticleForm(form)
	if msg := ValidateSlugWithChecker(form.values["slug"], func() (int64, error) {
		return h.queries.ArticleSlugExists(r.Context(), form.values["slug"])
	}); msg != "" {
		formErrors["slug"] = msg
	}

	if len(formErrors) > 0 {
		h.renderForm(w, r, "New Article", ArticleFormData{
			Errors:     formErrors,
			FormValues: form.values,
		})
		return
	}

	user := middleware.GetUser(r)
	author := "TravThru Team"
	if user != nil {
		author = user.Name
	}

	now := time.Now()
	article, err := h.queries.CreateArticle(r.Context(), store.CreateArticleParams{
		Title:     form.values["title"],
		Slug:      form.values["slug"],
		Excerpt:   form.values["excerpt"],
		Content:   form.values["content"],
		Image:     form.values["image"],
		Author:    author,
		Published: form.published,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		slog.Error("failed to create article", "error", err,
			"category", logging.EventCategoryArticle, "slug", form.values["slug"])
		flashError(w, r, h.renderer, redirectAdminArticlesNew, "Error creating article")
		return
	}

	h.caches.InvalidateArticles()

	slog.Info("article created", "article_id", article.ID, "slug", article.Slug,
		"created_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminArticles, "Article created successfully")
}

// EditForm handles GET /admin/articles/{id} - displays the edit article form.
func (h *ArticlesHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminArticles, "Invalid article ID")
		return
	}

	article, ok := h.requireArticle(w, r, id)
	if !ok {
		return
	}

	h.renderForm(w, r, "Edit Article", ArticleFormData{
		Article: &article,
		Errors:  make(map[string]string),
		FormValues: map[string]string{
			"title":   article.Title,
			"slug":    article.Slug,
			"excerpt": article.Excerpt,
			"content": article.Content,
			"image":   article.Image,
		},
		IsEdit: true,
	})
}

// Update handles POST /admin/articles/{id} - updates an existing article.
func (h *ArticlesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminArticles, "Invalid article ID")
		return
	}

	article, ok := h.requireArticle(w, r, id)
	if !ok {
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, fmt.Sprintf(redirectAdminArticlesID, id)) {
		return
	}

	form := h.articleFormValues(r)
	if form.values["slug"] == "" {
		form.values["slug"] = util.Slugify(form.values["title"])
	}

	formErrors := h.validateArticleForm(form)
	if msg := ValidateSlugForUpdate(form.values["slug"], article.Slug, func() (int64, error) {
		return h.queries.ArticleSlugExistsExcluding(r.Context(), store.ArticleSlugExistsExcludingParams{
			Slug: form.values["slug"],
			ID:   id,
		})
	}); msg != "" {
		formErrors["slug"] = msg
	}

	if len(formErrors) > 0 {
		h.renderForm(w, r, "Edit Article", ArticleFormData{
			Article:    &article,
			Errors:     formErrors,
			FormValues: form.values,
			IsEdit:     true,
		})
		return
	}

	_, err = h.queries.UpdateArticle(r.Context(), store.UpdateArticleParams{
		ID:        id,
		Title:     form.values["title"],
		Slug:      form.values["slug"],
		Excerpt:   form.values["excerpt"],
		Content:   form.values["content"],
		Image:     form.values["image"],
		Published: form.published,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to update article", "error", err,
			"category", logging.EventCategoryArticle, "article_id", id)
		flashError(w, r, h.renderer, fmt.Sprintf(redirectAdminArticlesID, id), "Error updating article")
		return
	}

	h.caches.InvalidateArticles()

	slog.Info("article updated", "article_id", id, "updated_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminArticles, "Article updated successfully")
}

// TogglePublish handles POST /admin/articles/{id}/publish - flips the publish flag.
func (h *ArticlesHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminArticles, "Invalid article ID")
		return
	}

	article, ok := h.requireArticle(w, r, id)
	if !ok {
		return
	}

	err = h.queries.SetArticlePublished(r.Context(), store.SetArticlePublishedParams{
		ID:        id,
		Published: !article.Published,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to toggle article publish state", "error", err,
			"category", logging.EventCategoryArticle, "article_id", id)
		flashError(w, r, h.renderer, redirectAdminArticles, "Error updating article")
		return
	}

	h.caches.InvalidateArticles()

	message := "Article published"
	if article.Published {
		message = "Article unpublished"
	}
	slog.Info("article publish state changed", "article_id", id,
		"published", !article.Published, "changed_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminArticles, message)
}

// Delete handles POST /admin/articles/{id}/delete - deletes an article.
func (h *ArticlesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminArticles, "Invalid article ID")
		return
	}

	article, ok := h.requireArticle(w, r, id)
	if !ok {
		return
	}

	if err := h.queries.DeleteArticle(r.Context(), id); err != nil {
		slog.Error("failed to delete article", "error", err,
			"category", logging.EventCategoryArticle, "article_id", id)
		flashError(w, r, h.renderer, redirectAdminArticles, "Error deleting article")
		return
	}

	h.caches.InvalidateArticles()

	slog.Info("article deleted", "article_id", id, "slug", article.Slug,
		"deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminArticles, "Article deleted successfully")
}

// Preview handles POST /admin/articles/preview - converts submitted
// markdown to sanitized HTML for the editor preview pane.
func (h *ArticlesHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	html, err := markdown.Render(r.FormValue("content"))
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, "Could not render markdown")
		return
	}

	writeJSONSuccess(w, map[string]any{"html": string(html)})
}

// Upload handles POST /admin/articles/upload - stores an article image
// and its resized variants, returning the public URL.
func (h *ArticlesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSONError(w, http.StatusBadRequest, "File too large or invalid upload")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "No image file provided")
		return
	}
	defer func() { _ = file.Close() }()

	imageID := uuid.New().String()
	result, err := h.processor.ProcessImage(file, imageID, header.Filename)
	if err != nil {
		slog.Error("failed to process uploaded image", "error", err, "filename", header.Filename)
		writeJSONError(w, http.StatusUnprocessableEntity, "Unsupported or corrupt image file")
		return
	}

	if _, err := h.processor.CreateAllVariants(result.FilePath, imageID, header.Filename); err != nil {
		slog.Error("failed to create image variants", "error", err, "uuid", imageID)
		// Original saved; variants are an optimization
	}

	slog.Info("article image uploaded", "uuid", imageID, "size", result.Size,
		"uploaded_by", middleware.GetUserID(r))

	writeJSONSuccess(w, map[string]any{
		"url":    "/uploads/" + result.FilePath,
		"width":  result.Width,
		"height": result.Height,
	})
}

// articleForm carries parsed article form fields.
type articleForm struct {
	values    map[string]string
	published bool
}

func (h *ArticlesHandler) articleFormValues(r *http.Request) articleForm {
	return articleForm{
		values: map[string]string{
			"title":   strings.TrimSpace(r.FormValue("title")),
			"slug":    strings.TrimSpace(r.FormValue("slug")),
			"excerpt": strings.TrimSpace(r.FormValue("excerpt")),
			"content": r.FormValue("content"),
			"image":   strings.TrimSpace(r.FormValue("image")),
		},
		// Two submit buttons share the form: "Save Draft" and "Publish".
		published: r.FormValue("action") == "publish",
	}
}

func (h *ArticlesHandler) validateArticleForm(form articleForm) map[string]string {
	formErrors := make(map[string]string)
	if form.values["title"] == "" {
		formErrors["title"] = "Title is required"
	}
	if form.values["content"] == "" {
		formErrors["content"] = "Content is required"
	}
	return formErrors
}

func (h *ArticlesHandler) requireArticle(w http.ResponseWriter, r *http.Request, id int64) (store.Article, bool) {
	return requireEntityWithRedirect(w, r, h.renderer, redirectAdminArticles, "Article", id,
		func(id int64) (store.Article, error) { return h.queries.GetArticleByID(r.Context(), id) })
}

func (h *ArticlesHandler) renderForm(w http.ResponseWriter, r *http.Request, title string, data ArticleFormData) {
	renderOrInternalError(w, r, h.renderer, "admin/articles_form", render.TemplateData{
		Title: title,
		User:  middleware.GetUser(r),
		Data:  data,
	})
}
