// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/travthru/travthru/internal/store"
)

func newArticlesHandler(t *testing.T) (*ArticlesHandler, *sql.DB, *store.Queries) {
	t.Helper()
	db := testDB(t)
	h := NewArticlesHandler(db, testRenderer(t), testCacheManager(t, db), t.TempDir())
	return h, db, store.New(db)
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestArticlesHandler_Create(t *testing.T) {
	h, _, queries := newArticlesHandler(t)

	form := url.Values{
		"title":   {"KLIA Arrival Guide"},
		"content": {"## Arriving at KLIA\n\nWhat to expect."},
	}
	rec := httptest.NewRecorder()
	h.Create(rec, postForm("/admin/articles", form))

	assertStatus(t, rec.Code, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); loc != "/admin/articles" {
		t.Errorf("Location = %q; want /admin/articles", loc)
	}

	article, err := queries.GetArticleByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("article not created: %v", err)
	}
	if article.Slug != "klia-arrival-guide" {
		t.Errorf("slug = %q; want auto-generated klia-arrival-guide", article.Slug)
	}
	if article.Published {
		t.Error("new article should start unpublished")
	}
}

func TestArticlesHandler_Create_PublishAction(t *testing.T) {
	h, _, queries := newArticlesHandler(t)

	form := url.Values{
		"title":   {"Genting Day Trip"},
		"content": {"Plan your day."},
		"action":  {"publish"},
	}
	rec := httptest.NewRecorder()
	h.Create(rec, postForm("/admin/articles", form))

	assertStatus(t, rec.Code, http.StatusSeeOther)

	article, err := queries.GetArticleByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("article not created: %v", err)
	}
	if !article.Published {
		t.Error("Publish button should create the article published")
	}
}

func TestArticlesHandler_Update_SaveDraftUnpublishes(t *testing.T) {
	h, db, queries := newArticlesHandler(t)
	article := createTestArticle(t, db, "Live Guide", "live-guide", true)

	form := url.Values{
		"title":   {"Live Guide"},
		"slug":    {"live-guide"},
		"content": {"Updated body."},
		"action":  {"draft"},
	}
	req := requestWithURLParams(
		postForm("/admin/articles/1", form),
		map[string]string{"id": "1"},
	)
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	assertStatus(t, rec.Code, http.StatusSeeOther)

	updated, err := queries.GetArticleByID(context.Background(), article.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Published {
		t.Error("Save Draft should unpublish the article")
	}
}

func TestArticlesHandler_Create_RejectsDuplicateSlug(t *testing.T) {
	h, db, queries := newArticlesHandler(t)
	createTestArticle(t, db, "Existing", "genting-day-trip", true)

	form := url.Values{
		"title":   {"Another Title"},
		"slug":    {"genting-day-trip"},
		"content": {"Body"},
	}
	rec := httptest.NewRecorder()
	h.Create(rec, postForm("/admin/articles", form))

	if rec.Code == http.StatusSeeOther {
		t.Error("duplicate slug should not redirect to success")
	}

	total, err := queries.CountArticles(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("article count = %d; want 1 (duplicate rejected)", total)
	}
}

func TestArticlesHandler_TogglePublish(t *testing.T) {
	h, db, queries := newArticlesHandler(t)
	article := createTestArticle(t, db, "Draft Guide", "draft-guide", false)

	req := requestWithURLParams(
		postForm("/admin/articles/1/publish", url.Values{}),
		map[string]string{"id": "1"},
	)
	rec := httptest.NewRecorder()
	h.TogglePublish(rec, req)

	assertStatus(t, rec.Code, http.StatusSeeOther)

	updated, err := queries.GetArticleByID(context.Background(), article.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !updated.Published {
		t.Error("article should be published after toggle")
	}
}

func TestArticlesHandler_Delete(t *testing.T) {
	h, db, queries := newArticlesHandler(t)
	article := createTestArticle(t, db, "Old Guide", "old-guide", true)

	req := requestWithURLParams(
		postForm("/admin/articles/1/delete", url.Values{}),
		map[string]string{"id": "1"},
	)
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	assertStatus(t, rec.Code, http.StatusSeeOther)

	if _, err := queries.GetArticleByID(context.Background(), article.ID); err == nil {
		t.Error("article should be deleted")
	}
}

func TestArticlesHandler_Preview_SanitizesMarkdown(t *testing.T) {
	h, _, _ := newArticlesHandler(t)

	form := url.Values{
		"content": {"**bold** text\n\n<script>alert(1)</script>"},
	}
	rec := httptest.NewRecorder()
	h.Preview(rec, postForm("/admin/articles/preview", form))

	assertStatus(t, rec.Code, http.StatusOK)

	var resp struct {
		Success bool   `json:"success"`
		HTML    string `json:"html"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if !resp.Success {
		t.Error("preview should succeed")
	}
	if !strings.Contains(resp.HTML, "<strong>bold</strong>") {
		t.Errorf("markdown not converted: %q", resp.HTML)
	}
	if strings.Contains(resp.HTML, "<script>") {
		t.Errorf("script tag not sanitized: %q", resp.HTML)
	}
}

func TestArticlesHandler_EditForm_InvalidID(t *testing.T) {
	h, _, _ := newArticlesHandler(t)

	req := requestWithURLParams(
		httptest.NewRequest(http.MethodGet, "/admin/articles/abc", nil),
		map[string]string{"id": "abc"},
	)
	rec := httptest.NewRecorder()
	h.EditForm(rec, req)

	assertStatus(t, rec.Code, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); loc != "/admin/articles" {
		t.Errorf("Location = %q; want /admin/articles", loc)
	}
}
