// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/travthru/travthru/internal/geocode"
)

// GeocodeResponse holds location suggestions for a query.
type GeocodeResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

// Geocode handles GET /api/v1/geocode?q=...&seq=...
//
// The seq parameter is an opaque counter the autocomplete widget
// attaches to each keystroke's request. It is echoed back in the
// response meta so the client can discard replies that arrive out of
// order; the newest seq always wins regardless of network timing.
func (h *Handler) Geocode(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	seq, _ := strconv.ParseInt(r.URL.Query().Get("seq"), 10, 64)

	meta := &Meta{Seq: seq}

	if len(query) < geocode.MinQueryLength {
		WriteSuccess(w, GeocodeResponse{
			Query:       query,
			Suggestions: geocode.FilterPopular(query),
		}, meta)
		return
	}

	suggestions, err := h.lookup(r, query)
	if err != nil {
		slog.Warn("geocode lookup failed, serving popular locations",
			"error", err, "query", query)
		// Autocomplete must never break the booking form
		suggestions = geocode.FilterPopular(query)
	}

	WriteSuccess(w, GeocodeResponse{
		Query:       query,
		Suggestions: suggestions,
	}, meta)
}

// lookup resolves a query against the geocoder, consulting the shared
// response cache first. Identical queries from different visitors hit
// Nominatim once per cache TTL.
func (h *Handler) lookup(r *http.Request, query string) ([]string, error) {
	if h.geocodeCache == nil {
		return h.geocoder.Search(r.Context(), query)
	}

	key := "geocode:" + strings.ToLower(query)
	result, err := h.geocodeCache.GetOrSet(r.Context(), key, func() (*[]string, error) {
		suggestions, err := h.geocoder.Search(r.Context(), query)
		if err != nil {
			return nil, err
		}
		return &suggestions, nil
	})
	if err != nil {
		return nil, err
	}
	return *result, nil
}
