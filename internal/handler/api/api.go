// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON endpoints consumed by the site's
// frontend scripts: location autocomplete and the chat assistant.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/travthru/travthru/internal/assistant"
	"github.com/travthru/travthru/internal/cache"
	"github.com/travthru/travthru/internal/geocode"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	geocoder     *geocode.Client
	assistant    *assistant.Assistant
	geocodeCache *cache.TypedCache[[]string]
}

// NewHandler creates a new API handler. The assistant may be nil when
// no API key is configured; chat then always answers with the fallback
// message. general may be nil to disable geocode response caching.
func NewHandler(geocoder *geocode.Client, bot *assistant.Assistant, general cache.Cacher) *Handler {
	h := &Handler{
		geocoder:  geocoder,
		assistant: bot,
	}
	if general != nil {
		h.geocodeCache = cache.NewTypedCache[[]string](general, 15*time.Minute)
	}
	return h
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains request metadata echoed back to the caller.
type Meta struct {
	Seq   int64 `json:"seq,omitempty"`
	Total int64 `json:"total,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{
		Data: data,
		Meta: meta,
	})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{
		Status:  "ok",
		Version: "v1",
	}, nil)
}
