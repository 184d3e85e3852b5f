// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package booking

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetails_Message_OneWay(t *testing.T) {
	d := Details{
		TripType:        TripOneWay,
		PickupLocation:  "KLIA (Kuala Lumpur International Airport)",
		DropoffLocation: "Genting Highlands",
		PickupDate:      "2026-09-01",
		PickupTime:      "14:30",
	}

	msg := d.Message()

	want := "Hi TravThru, I would like a quote for a transfer:\n\n" +
		"*Trip Type:* One Way\n" +
		"*From:* KLIA (Kuala Lumpur International Airport)\n" +
		"*To:* Genting Highlands\n" +
		"*Date:* 2026-09-01\n" +
		"*Time:* 14:30\n"
	if msg != want {
		t.Errorf("Message() = %q, want %q", msg, want)
	}
	if strings.Contains(msg, "Return") {
		t.Error("one-way message must not contain return details")
	}
}

func TestDetails_Message_ReturnTrip(t *testing.T) {
	d := Details{
		TripType:        TripReturn,
		PickupLocation:  "Kuala Lumpur City Centre",
		DropoffLocation: "Malacca (Melaka)",
		PickupDate:      "2026-09-01",
		PickupTime:      "09:00",
		ReturnDate:      "2026-09-03",
		ReturnTime:      "18:00",
	}

	msg := d.Message()

	if !strings.Contains(msg, "*Trip Type:* Return Trip\n") {
		t.Error("return message must label the trip as Return Trip")
	}
	if !strings.Contains(msg, "*Return Date:* 2026-09-03\n") {
		t.Errorf("missing return date line in %q", msg)
	}
	if !strings.Contains(msg, "*Return Time:* 18:00\n") {
		t.Errorf("missing return time line in %q", msg)
	}
}

func TestDetails_Message_ReturnDefaults(t *testing.T) {
	d := Details{
		TripType:        TripReturn,
		PickupLocation:  "Ipoh",
		DropoffLocation: "Penang",
		PickupDate:      "2026-10-10",
		PickupTime:      "08:00",
	}

	msg := d.Message()

	if !strings.Contains(msg, "*Return Date:* Not specified\n") {
		t.Errorf("missing return date fallback in %q", msg)
	}
	if !strings.Contains(msg, "*Return Time:* Not specified\n") {
		t.Errorf("missing return time fallback in %q", msg)
	}
}

func TestLink(t *testing.T) {
	d := Details{
		TripType:        TripOneWay,
		PickupLocation:  "KLIA 2",
		DropoffLocation: "Port Dickson",
		PickupDate:      "2026-09-01",
		PickupTime:      "10:00",
	}

	link := Link("+60107198186", d)

	if !strings.HasPrefix(link, "https://wa.me/+60107198186?text=") {
		t.Fatalf("unexpected link prefix: %s", link)
	}
	if strings.Contains(link, "+60107198186?text=") && strings.Contains(strings.SplitN(link, "text=", 2)[1], "+") {
		t.Error("message body should encode spaces as %20, not +")
	}

	// The encoded text must decode back to the exact message
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link is not a valid URL: %v", err)
	}
	if got := u.Query().Get("text"); got != d.Message() {
		t.Errorf("decoded text = %q, want %q", got, d.Message())
	}
}

func TestCarInquiryLink(t *testing.T) {
	link := CarInquiryLink("+60107198186", "Toyota Alphard")

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link is not a valid URL: %v", err)
	}
	text := u.Query().Get("text")
	want := "Hi TravThru, I am interested in booking the *Toyota Alphard*. Is it available for my trip?"
	if text != want {
		t.Errorf("decoded text = %q, want %q", text, want)
	}
}

func TestDetails_Validate(t *testing.T) {
	valid := Details{
		TripType:        TripOneWay,
		PickupLocation:  "KLIA",
		DropoffLocation: "KL Sentral",
		PickupDate:      "2026-09-01",
		PickupTime:      "10:00",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*Details)
		wantErr string
	}{
		{"missing pickup", func(d *Details) { d.PickupLocation = " " }, "pickup location is required"},
		{"missing dropoff", func(d *Details) { d.DropoffLocation = "" }, "dropoff location is required"},
		{"missing date", func(d *Details) { d.PickupDate = "" }, "pickup date is required"},
		{"missing time", func(d *Details) { d.PickupTime = "" }, "pickup time is required"},
		{"bad trip type", func(d *Details) { d.TripType = "round" }, "trip type must be one-way or return"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			err := d.Validate()
			require.Error(t, err)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
