// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package markdown converts operator-authored markdown into sanitized
// HTML. Sanitization is applied on every call, so the output is safe
// to inject regardless of where the source text came from.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// md parses GitHub-flavored markdown. Raw HTML passes through the
// renderer and is handled by the sanitizer, never trusted directly.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// policy is the allow-list applied to every render. It starts from
// bluemonday's UGC policy (headings, paragraphs, emphasis, lists,
// blockquotes, tables, links, images, code blocks) and additionally
// permits iframes so operators can embed maps and videos. Script
// tags and event handlers are always stripped.
var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("iframe")
	p.AllowAttrs("src", "width", "height", "frameborder", "allowfullscreen", "allow", "title").OnElements("iframe")
	return p
}

// Render converts markdown source to sanitized HTML.
func Render(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return template.HTML(policy.Sanitize(buf.String())), nil
}

// RenderOrEmpty converts markdown source to sanitized HTML, returning
// an empty string on parse failure. Used at render boundaries where a
// broken article body should not take down the page.
func RenderOrEmpty(source string) template.HTML {
	out, err := Render(source)
	if err != nil {
		return ""
	}
	return out
}

// Excerpt returns the explicit excerpt if provided, otherwise the
// first 150 characters of the content followed by an ellipsis.
func Excerpt(explicit, content string) string {
	if explicit != "" {
		return explicit
	}
	runes := []rune(content)
	if len(runes) > 150 {
		runes = runes[:150]
	}
	return string(runes) + "..."
}
