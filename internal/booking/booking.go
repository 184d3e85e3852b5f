// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package booking serializes quote requests into WhatsApp deep links.
// Booking requests are transient: they are never persisted, only
// forwarded to the business phone as a pre-filled message.
package booking

import (
	"errors"
	"net/url"
	"strings"
)

// TripType selects between a one-way and a return transfer.
type TripType string

// Trip types accepted by the booking form.
const (
	TripOneWay TripType = "one-way"
	TripReturn TripType = "return"
)

// Details holds a quote request from the booking form.
type Details struct {
	TripType        TripType
	PickupLocation  string
	DropoffLocation string
	PickupDate      string
	PickupTime      string
	ReturnDate      string
	ReturnTime      string
}

// Validate checks that the required fields are present.
func (d Details) Validate() error {
	if strings.TrimSpace(d.PickupLocation) == "" {
		return errors.New("pickup location is required")
	}
	if strings.TrimSpace(d.DropoffLocation) == "" {
		return errors.New("dropoff location is required")
	}
	if strings.TrimSpace(d.PickupDate) == "" {
		return errors.New("pickup date is required")
	}
	if strings.TrimSpace(d.PickupTime) == "" {
		return errors.New("pickup time is required")
	}
	if d.TripType != TripOneWay && d.TripType != TripReturn {
		return errors.New("trip type must be one-way or return")
	}
	return nil
}

// Message renders the quote request as the WhatsApp message body.
// Return date and time fall back to "Not specified" when omitted.
func (d Details) Message() string {
	tripLabel := "One Way"
	if d.TripType == TripReturn {
		tripLabel = "Return Trip"
	}

	var b strings.Builder
	b.WriteString("Hi TravThru, I would like a quote for a transfer:\n\n")
	b.WriteString("*Trip Type:* " + tripLabel + "\n")
	b.WriteString("*From:* " + d.PickupLocation + "\n")
	b.WriteString("*To:* " + d.DropoffLocation + "\n")
	b.WriteString("*Date:* " + d.PickupDate + "\n")
	b.WriteString("*Time:* " + d.PickupTime + "\n")

	if d.TripType == TripReturn {
		b.WriteString("*Return Date:* " + orNotSpecified(d.ReturnDate) + "\n")
		b.WriteString("*Return Time:* " + orNotSpecified(d.ReturnTime) + "\n")
	}

	return b.String()
}

func orNotSpecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}

// Link builds the wa.me deep link for a quote request.
func Link(phone string, d Details) string {
	return deepLink(phone, d.Message())
}

// CarInquiryLink builds the wa.me deep link asking about a specific car.
func CarInquiryLink(phone, carName string) string {
	msg := "Hi TravThru, I am interested in booking the *" + carName + "*. Is it available for my trip?"
	return deepLink(phone, msg)
}

func deepLink(phone, message string) string {
	// WhatsApp expects %20 for spaces, not the form-encoding plus sign
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + phone + "?text=" + encoded
}
