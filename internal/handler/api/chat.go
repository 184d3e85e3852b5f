// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/travthru/travthru/internal/assistant"
)

// maxChatMessageLen caps a single chat message.
const maxChatMessageLen = 2000

// ChatRequest is a single visitor chat message.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// Chat handles POST /api/v1/chat. The endpoint never surfaces upstream
// errors; when the assistant is unavailable the visitor gets the fixed
// fallback text as a normal reply.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		WriteBadRequest(w, "Message is required", nil)
		return
	}
	if len(message) > maxChatMessageLen {
		WriteBadRequest(w, "Message is too long", nil)
		return
	}

	if h.assistant == nil {
		WriteSuccess(w, ChatResponse{Reply: assistant.FallbackMessage}, nil)
		return
	}

	WriteSuccess(w, ChatResponse{Reply: h.assistant.Reply(r.Context(), message)}, nil)
}
