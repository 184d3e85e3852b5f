// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
	"time"
)

func TestNewSitemapBuilder(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com")
	if builder == nil {
		t.Fatal("NewSitemapBuilder() returned nil")
	}
	if builder.siteURL != "https://example.com" {
		t.Errorf("siteURL = %q, want %q", builder.siteURL, "https://example.com")
	}
	if len(builder.urls) != 0 {
		t.Errorf("urls length = %d, want 0", len(builder.urls))
	}
}

func TestSitemapBuilderAddHomepage(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com")
	builder.AddHomepage()

	if len(builder.urls) != 1 {
		t.Fatalf("urls length = %d, want 1", len(builder.urls))
	}

	url := builder.urls[0]
	if url.Loc != "https://example.com" {
		t.Errorf("Loc = %q, want %q", url.Loc, "https://example.com")
	}
	if url.Priority != "1.0" {
		t.Errorf("Priority = %q, want %q", url.Priority, "1.0")
	}
	if url.ChangeFreq != ChangeFreqDaily {
		t.Errorf("ChangeFreq = %q, want %q", url.ChangeFreq, ChangeFreqDaily)
	}
}

func TestSitemapBuilderAddArticle(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com")
	updatedAt := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	builder.AddArticle(SitemapArticle{
		Slug:      "klia-arrival-guide",
		UpdatedAt: updatedAt,
	})

	if len(builder.urls) != 1 {
		t.Fatalf("urls length = %d, want 1", len(builder.urls))
	}

	url := builder.urls[0]
	if url.Loc != "https://example.com/articles/klia-arrival-guide" {
		t.Errorf("Loc = %q, want article URL", url.Loc)
	}
	if url.LastMod != updatedAt.Format(time.RFC3339) {
		t.Errorf("LastMod = %q, want %q", url.LastMod, updatedAt.Format(time.RFC3339))
	}
	if url.ChangeFreq != ChangeFreqWeekly {
		t.Errorf("ChangeFreq = %q, want %q", url.ChangeFreq, ChangeFreqWeekly)
	}
}

func TestSitemapBuilderAddArticleZeroTime(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com")
	builder.AddArticle(SitemapArticle{Slug: "no-date"})

	if builder.urls[0].LastMod != "" {
		t.Errorf("LastMod = %q, want empty for zero time", builder.urls[0].LastMod)
	}
}

func TestSitemapBuilderBuild(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com")
	builder.AddHomepage()
	builder.AddArticleIndex()
	builder.AddArticles([]SitemapArticle{
		{Slug: "first"},
		{Slug: "second"},
	})

	out, err := builder.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	xml := string(out)
	if !strings.HasPrefix(xml, "<?xml") {
		t.Error("output missing XML header")
	}
	if !strings.Contains(xml, XMLNamespace) {
		t.Error("output missing sitemap namespace")
	}
	for _, want := range []string{
		"<loc>https://example.com</loc>",
		"<loc>https://example.com/articles</loc>",
		"<loc>https://example.com/articles/first</loc>",
		"<loc>https://example.com/articles/second</loc>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestGenerateSitemap(t *testing.T) {
	out, err := GenerateSitemap("https://example.com", []SitemapArticle{
		{Slug: "guide"},
	})
	if err != nil {
		t.Fatalf("GenerateSitemap() error = %v", err)
	}

	xml := string(out)
	if !strings.Contains(xml, "<loc>https://example.com/articles/guide</loc>") {
		t.Error("output missing article URL")
	}
	// Homepage and article index come before individual articles
	if strings.Index(xml, "<loc>https://example.com</loc>") > strings.Index(xml, "guide") {
		t.Error("homepage should precede article entries")
	}
}
