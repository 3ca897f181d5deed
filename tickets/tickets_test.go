package tickets

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"seminarhub/models"
)

func TestQRPayload_VerifyRoundTrip(t *testing.T) {
	p := NewPrinter("secret-a")

	payload := p.QRPayload("ev-123", "ABCD1234")
	if !strings.HasPrefix(payload, "ev-123|ABCD1234|") {
		t.Fatalf("payload shape: %q", payload)
	}
	eventID, number, ok := p.Verify(payload)
	if !ok {
		t.Fatalf("own payload rejected")
	}
	if eventID != "ev-123" || number != "ABCD1234" {
		t.Fatalf("decoded %q / %q", eventID, number)
	}
}

func TestQRPayload_TamperDetected(t *testing.T) {
	p := NewPrinter("secret-a")
	payload := p.QRPayload("ev-123", "ABCD1234")

	// swap the event id, keep the signature
	forged := "ev-999" + payload[len("ev-123"):]
	if _, _, ok := p.Verify(forged); ok {
		t.Fatalf("forged event id accepted")
	}

	if _, _, ok := p.Verify("no-separator-here"); ok {
		t.Fatalf("malformed payload accepted")
	}

	// another secret cannot verify it
	other := NewPrinter("secret-b")
	if _, _, ok := other.Verify(payload); ok {
		t.Fatalf("cross-secret payload accepted")
	}
}

func TestRender_ProducesPDF(t *testing.T) {
	p := NewPrinter("secret-a")
	e := models.Event{
		ID:       "ev-1",
		Title:    "Go Meetup",
		Location: "Hall B",
		StartDT:  time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC),
	}
	b := models.Booking{BookingNumber: "ZZZZ9999", Quantity: 2}
	buyer := models.User{FirstName: "Ada", LastName: "Lovelace"}

	out, err := p.Render(e, b, buyer)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF (%d bytes)", len(out))
	}
}
