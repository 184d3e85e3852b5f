// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
)

// testFS returns a minimal template tree exercising the layout,
// partial and page composition used by the real templates.
func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}<title>{{.Title}}</title>` +
				`{{block "header" .}}{{template "site_header" .}}{{end}}` +
				`{{if .Flash}}<div class="flash flash-{{.FlashType}}">{{.Flash}}</div>{{end}}` +
				`{{template "content" .}}{{end}}`),
		},
		"layouts/admin.html": &fstest.MapFile{
			Data: []byte(`{{define "header"}}<nav>admin-nav</nav>{{end}}`),
		},
		"partials/site_header.html": &fstest.MapFile{
			Data: []byte(`{{define "site_header"}}<nav>site-nav</nav>{{end}}`),
		},
		"frontend/home.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<h1>welcome</h1>{{end}}`),
		},
		"admin/dashboard.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<h1>dashboard</h1>{{end}}`),
		},
		"auth/login.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<form>login</form>{{end}}`),
		},
	}
}

func newTestRenderer(t *testing.T, sm *scs.SessionManager) *Renderer {
	t.Helper()
	r, err := New(Config{TemplatesFS: testFS(), SessionManager: sm})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func TestNewParsesAllTemplateGroups(t *testing.T) {
	r := newTestRenderer(t, nil)

	for _, name := range []string{"frontend/home", "admin/dashboard", "auth/login"} {
		if _, ok := r.templates[name]; !ok {
			t.Errorf("template %q not parsed", name)
		}
	}
}

func TestRenderFrontendUsesSiteHeader(t *testing.T) {
	r := newTestRenderer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	if err := r.Render(rec, req, "frontend/home", TemplateData{Title: "Home"}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<title>Home</title>") {
		t.Error("missing title")
	}
	if !strings.Contains(body, "site-nav") {
		t.Error("frontend page should use the site header partial")
	}
	if !strings.Contains(body, "<h1>welcome</h1>") {
		t.Error("missing page content")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRenderAdminOverridesHeader(t *testing.T) {
	r := newTestRenderer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	if err := r.Render(rec, req, "admin/dashboard", TemplateData{Title: "Dashboard"}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "admin-nav") {
		t.Error("admin page should use the admin header override")
	}
	if strings.Contains(body, "site-nav") {
		t.Error("admin page should not fall through to the site header")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := newTestRenderer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	err := r.Render(rec, req, "frontend/missing", TemplateData{})
	if err == nil {
		t.Fatal("expected error for unknown template")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v, want template-not-found", err)
	}
}

func TestRenderPopsFlashFromSession(t *testing.T) {
	sm := scs.New()
	r := newTestRenderer(t, sm)

	req := httptest.NewRequest("GET", "/", nil)
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	req = req.WithContext(ctx)

	r.SetFlash(req, "Article saved", "success")

	rec := httptest.NewRecorder()
	if err := r.Render(rec, req, "frontend/home", TemplateData{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(rec.Body.String(), `<div class="flash flash-success">Article saved</div>`) {
		t.Errorf("flash not rendered: %s", rec.Body.String())
	}

	// Flash is consumed on first render
	rec = httptest.NewRecorder()
	if err := r.Render(rec, req, "frontend/home", TemplateData{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(rec.Body.String(), "Article saved") {
		t.Error("flash should be popped after the first render")
	}
}

func TestTemplateFuncs(t *testing.T) {
	r := newTestRenderer(t, nil)
	funcs := r.templateFuncs()

	seq := funcs["seq"].(func(int64, int64) []int64)
	got := seq(1, 5)
	if len(got) != 5 || got[0] != 1 || got[4] != 5 {
		t.Errorf("seq(1, 5) = %v", got)
	}
	if seq(3, 1) != nil {
		t.Error("seq with start > end should be empty")
	}

	truncate := funcs["truncate"].(func(string, int) string)
	if out := truncate("hello world", 5); out != "hello..." {
		t.Errorf("truncate = %q", out)
	}
	if out := truncate("hi", 5); out != "hi" {
		t.Errorf("truncate short = %q", out)
	}

	formatDate := funcs["formatDate"].(func(time.Time) string)
	ts := time.Date(2026, 3, 9, 15, 4, 0, 0, time.UTC)
	if out := formatDate(ts); out != "Mar 9, 2026" {
		t.Errorf("formatDate = %q", out)
	}
}
