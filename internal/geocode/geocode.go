// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geocode provides location autocomplete backed by the
// Nominatim search API, with a curated fallback list for short or
// failed queries.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MinQueryLength is the shortest query sent to the geocoder. Shorter
// queries are answered from the popular locations list instead.
const MinQueryLength = 3

// PopularLocations is the curated suggestion list shown before the
// visitor has typed a meaningful query.
var PopularLocations = []string{
	"KLIA (Kuala Lumpur International Airport)",
	"KLIA 2",
	"Kuala Lumpur City Centre",
	"Genting Highlands",
	"Cameron Highlands",
	"Malacca (Melaka)",
	"Johor Bahru",
	"Ipoh",
	"Penang",
	"Legoland Malaysia",
	"Port Dickson",
	"Subang Airport",
}

// Client queries the Nominatim search endpoint.
type Client struct {
	baseURL string
	country string
	limit   int
	http    *http.Client
}

// New creates a geocoding client. baseURL is the Nominatim root
// (no trailing slash) and country the ISO country code filter.
func New(baseURL, country string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		country: country,
		limit:   5,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// nominatimResult is the subset of the search response we consume.
type nominatimResult struct {
	DisplayName string `json:"display_name"`
}

// Search returns deduplicated display names for the query.
// Queries below MinQueryLength are answered from PopularLocations
// without touching the network.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if len(query) < MinQueryLength {
		return FilterPopular(query), nil
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("countrycodes", c.country)
	params.Set("limit", fmt.Sprintf("%d", c.limit))
	params.Set("addressdetails", "1")

	reqURL := c.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	// Nominatim usage policy requires an identifying User-Agent
	req.Header.Set("User-Agent", "travthru/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding geocode response: %w", err)
	}

	return dedupe(results), nil
}

// dedupe returns display names with duplicates removed, preserving order.
func dedupe(results []nominatimResult) []string {
	seen := make(map[string]bool, len(results))
	names := make([]string, 0, len(results))
	for _, r := range results {
		if r.DisplayName == "" || seen[r.DisplayName] {
			continue
		}
		seen[r.DisplayName] = true
		names = append(names, r.DisplayName)
	}
	return names
}

// FilterPopular returns popular locations matching the query,
// case-insensitively. An empty query returns the whole list.
func FilterPopular(query string) []string {
	if query == "" {
		return append([]string(nil), PopularLocations...)
	}
	q := strings.ToLower(query)
	var out []string
	for _, loc := range PopularLocations {
		if strings.Contains(strings.ToLower(loc), q) {
			out = append(out, loc)
		}
	}
	return out
}
