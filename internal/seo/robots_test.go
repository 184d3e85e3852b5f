// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
)

func TestRobotsBuilderDefaults(t *testing.T) {
	out := NewRobotsBuilder(RobotsConfig{SiteURL: "https://example.com"}).Build()

	if !strings.Contains(out, "User-agent: *") {
		t.Error("missing User-agent directive")
	}
	for _, path := range []string{"/admin", "/login", "/logout", "/api"} {
		if !strings.Contains(out, "Disallow: "+path+"\n") {
			t.Errorf("missing Disallow for %s", path)
		}
	}
	if !strings.Contains(out, "Allow: /\n") {
		t.Error("missing Allow directive")
	}
	if !strings.Contains(out, "Sitemap: https://example.com/sitemap.xml") {
		t.Error("missing sitemap reference")
	}
}

func TestRobotsBuilderDisallowAll(t *testing.T) {
	out := NewRobotsBuilder(RobotsConfig{
		SiteURL:     "https://example.com",
		DisallowAll: true,
	}).Build()

	if !strings.Contains(out, "Disallow: /\n") {
		t.Error("missing Disallow: / for staging mode")
	}
	if strings.Contains(out, "Sitemap:") {
		t.Error("staging robots.txt should not reference the sitemap")
	}
	if strings.Contains(out, "Allow: /\n") {
		t.Error("staging robots.txt should not contain Allow")
	}
}

func TestRobotsBuilderExtraDisallowPaths(t *testing.T) {
	out := NewRobotsBuilder(RobotsConfig{
		SiteURL:       "https://example.com",
		DisallowPaths: []string{"/drafts"},
	}).Build()

	if !strings.Contains(out, "Disallow: /drafts\n") {
		t.Error("missing custom Disallow path")
	}
}

func TestRobotsBuilderTrailingSlashSiteURL(t *testing.T) {
	out := GenerateRobots("https://example.com/", false)

	if !strings.Contains(out, "Sitemap: https://example.com/sitemap.xml") {
		t.Errorf("sitemap URL not normalised: %q", out)
	}
}
