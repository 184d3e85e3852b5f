// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"
)

// compressMinSize is the smallest body worth compressing. Responses
// under one packet gain nothing from gzip.
const compressMinSize = 1400

// compressibleTypes lists the content types the site serves that
// benefit from gzip. Uploaded images and webp/jpeg thumbnails are
// already compressed and pass through untouched.
var compressibleTypes = []string{
	"text/html",
	"text/css",
	"text/plain",
	"text/javascript",
	"application/javascript",
	"application/json",
	"application/xml",
	"image/svg+xml",
}

// Compress returns middleware that gzip-compresses responses for
// clients that accept it. The body is buffered so the decision can be
// made from the final Content-Type and size: pages, stylesheets, the
// sitemap and JSON API responses are compressed, image uploads and
// tiny responses are not.
func Compress(level int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
				next.ServeHTTP(w, r)
				return
			}

			cw := &compressWriter{ResponseWriter: w, level: level}
			next.ServeHTTP(cw, r)
			cw.finish()
		})
	}
}

// compressWriter buffers the response so headers can be rewritten
// before anything reaches the wire.
type compressWriter struct {
	http.ResponseWriter
	level  int
	status int
	body   []byte
}

func (cw *compressWriter) WriteHeader(status int) {
	cw.status = status
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	cw.body = append(cw.body, b...)
	return len(b), nil
}

// finish writes the buffered response, gzipped when the content type
// and size warrant it.
func (cw *compressWriter) finish() {
	compress := len(cw.body) >= compressMinSize && isCompressible(cw.Header().Get("Content-Type"))
	if compress {
		cw.Header().Set("Content-Encoding", "gzip")
		cw.Header().Set("Vary", "Accept-Encoding")
		cw.Header().Del("Content-Length")
	}

	if cw.status != 0 {
		cw.ResponseWriter.WriteHeader(cw.status)
	}
	if len(cw.body) == 0 {
		return
	}

	if !compress {
		_, _ = cw.ResponseWriter.Write(cw.body)
		return
	}

	gz, err := gzip.NewWriterLevel(cw.ResponseWriter, cw.level)
	if err != nil {
		gz = gzip.NewWriter(cw.ResponseWriter)
	}
	_, _ = gz.Write(cw.body)
	_ = gz.Close()
}

// isCompressible reports whether a Content-Type is worth gzipping.
func isCompressible(contentType string) bool {
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return false
	}

	for _, ct := range compressibleTypes {
		if strings.EqualFold(contentType, ct) {
			return true
		}
	}
	return strings.HasPrefix(strings.ToLower(contentType), "text/")
}
