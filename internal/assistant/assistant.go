// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package assistant answers visitor chat questions about the business
// using an OpenAI chat model with a fixed system instruction.
package assistant

import (
	"context"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// FallbackMessage is returned whenever the upstream call fails.
// The chat UI treats it as a normal reply.
const FallbackMessage = "I'm having trouble connecting to the server. Please try again later or contact us on WhatsApp."

// emptyReplyMessage is returned when the model produces no text.
const emptyReplyMessage = "I apologize, I couldn't generate a response at the moment."

// systemInstruction describes the business to the model. Every chat
// request carries it so the assistant stays on topic.
const systemInstruction = `You are Trav, the intelligent assistant for "TravThru" private chauffeur services in Kuala Lumpur.

We specialize in **Airport Transfers**, **Genting Highlands**, **Outstation Trips**, and **Car Rental (Kereta Sewa)**.

**Contact:**
- WhatsApp: +60 10-719 8186

**Our Services:**
1. **KLIA / KLIA2 Airport Transfer:** Meet & Greet service. Flight monitoring included.
2. **Genting Highlands:** Drop off at First World Hotel, Genting Grand, or Premium Outlets.
3. **Intercity / Outstation:** Trips to Penang, Ipoh, Cameron Highlands, Melaka, JB, Singapore.
4. **City Tours:** Hourly booking for KL City Centre (KLCC, Batu Caves).
5. **Car Rental (Self Drive):** Daily/Weekly rentals available.

**Our Fleet:**
- **Luxury:** Toyota Alphard (6 pax, VIP captain seats).
- **MPV:** Hyundai Staria (7 pax), Toyota Innova (7 pax), Perodua Alza (7 pax). Excellent for families.
- **Economy:** Perodua Bezza and Perodua Axia (4 pax). Best value for city trips.

**Pricing Policy:**
- We offer competitive, fixed rates.
- Do not quote exact prices in chat; always ask the user to use the "Get Quote" button or WhatsApp for a custom quote from our admin.

**Rules:**
- If the user asks for a price, politely suggest they use the booking form or WhatsApp us directly for the best latest rate.
- If asked for a "Taxi", politely say we offer "Chauffeur Driven" or "Private Transfer" services which are more comfortable.
- Always be polite, professional, and helpful.
- Direct urgent bookings to WhatsApp.`

// Assistant wraps the OpenAI chat client.
type Assistant struct {
	client openai.Client
	model  string
}

// New creates an assistant with the given API key.
func New(apiKey string) *Assistant {
	return &Assistant{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModelGPT4oMini,
	}
}

// Reply answers a single visitor message. On any upstream failure it
// logs the error and returns FallbackMessage; the caller never sees
// an error.
func (a *Assistant) Reply(ctx context.Context, userMessage string) string {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemInstruction),
			openai.UserMessage(userMessage),
		},
	})
	if err != nil {
		slog.Error("assistant chat request failed", "error", err)
		return FallbackMessage
	}

	if len(resp.Choices) == 0 {
		return emptyReplyMessage
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return emptyReplyMessage
	}
	return text
}
