// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/travthru/travthru/internal/assistant"
	"github.com/travthru/travthru/internal/cache"
	"github.com/travthru/travthru/internal/geocode"
)

type geocodeEnvelope struct {
	Data GeocodeResponse `json:"data"`
	Meta *Meta           `json:"meta"`
}

func decodeGeocode(t *testing.T, rec *httptest.ResponseRecorder) geocodeEnvelope {
	t.Helper()
	var env geocodeEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	return env
}

func TestGeocode_ShortQueryServesPopularLocations(t *testing.T) {
	h := NewHandler(geocode.New("http://127.0.0.1:1", "my"), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/geocode?q=kl&seq=42", nil)
	rec := httptest.NewRecorder()
	h.Geocode(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	env := decodeGeocode(t, rec)
	if env.Meta == nil || env.Meta.Seq != 42 {
		t.Fatalf("meta = %+v; seq must be echoed back", env.Meta)
	}
	if len(env.Data.Suggestions) == 0 {
		t.Fatal("short query should fall back to popular locations")
	}
	for _, s := range env.Data.Suggestions {
		if !strings.Contains(strings.ToLower(s), "kl") {
			t.Errorf("suggestion %q does not match query", s)
		}
	}
}

func TestGeocode_UpstreamFailureFallsBack(t *testing.T) {
	// Port 1 is never listening; the lookup fails immediately
	h := NewHandler(geocode.New("http://127.0.0.1:1", "my"), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/geocode?q=Genting&seq=7", nil)
	rec := httptest.NewRecorder()
	h.Geocode(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; autocomplete must not surface upstream errors", rec.Code)
	}

	env := decodeGeocode(t, rec)
	if env.Meta == nil || env.Meta.Seq != 7 {
		t.Fatalf("meta = %+v; seq must be echoed back", env.Meta)
	}

	found := false
	for _, s := range env.Data.Suggestions {
		if s == "Genting Highlands" {
			found = true
		}
	}
	if !found {
		t.Errorf("suggestions = %v; want popular fallback containing Genting Highlands", env.Data.Suggestions)
	}
}

func TestGeocode_ResponseCaching(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"display_name":"Ipoh, Perak, Malaysia"}]`))
	}))
	defer server.Close()

	general := cache.NewSimpleMemoryCache(time.Minute)
	h := NewHandler(geocode.New(server.URL, "my"), nil, general)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/geocode?q=Ipoh&seq=1", nil)
		rec := httptest.NewRecorder()
		h.Geocode(rec, req)

		env := decodeGeocode(t, rec)
		if len(env.Data.Suggestions) != 1 || env.Data.Suggestions[0] != "Ipoh, Perak, Malaysia" {
			t.Fatalf("suggestions = %v", env.Data.Suggestions)
		}
	}

	if has, _ := general.Has(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "geocode:ipoh"); !has {
		t.Error("second lookup should be answered from the response cache")
	}
}

func TestChat_NilAssistantUsesFallback(t *testing.T) {
	h := NewHandler(geocode.New("http://127.0.0.1:1", "my"), nil, nil)

	body := strings.NewReader(`{"message":"How much to Genting?"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", body)
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var env struct {
		Data ChatResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if env.Data.Reply != assistant.FallbackMessage {
		t.Errorf("reply = %q; want the fixed fallback message", env.Data.Reply)
	}
}

func TestChat_RejectsBadRequests(t *testing.T) {
	h := NewHandler(geocode.New("http://127.0.0.1:1", "my"), nil, nil)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"message":`},
		{"empty message", `{"message":"  "}`},
		{"oversized message", `{"message":"` + strings.Repeat("a", 2001) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Chat(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d; want 400", rec.Code)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	h := NewHandler(geocode.New("http://127.0.0.1:1", "my"), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var env struct {
		Data StatusResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if env.Data.Status != "ok" {
		t.Errorf("status = %q; want ok", env.Data.Status)
	}
}
