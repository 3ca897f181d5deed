// Package tickets renders a printable PDF ticket for a confirmed booking,
// with a signed QR payload for door-side verification.
package tickets

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"seminarhub/models"
)

type Printer struct {
	secret []byte
}

func NewPrinter(secret string) *Printer {
	return &Printer{secret: []byte(secret)}
}

// QRPayload returns "eventID|bookingNumber|signature". The signature binds
// the code to the event so a ticket cannot be replayed at another one.
func (p *Printer) QRPayload(eventID, bookingNumber string) string {
	data := fmt.Sprintf("%s|%s", eventID, bookingNumber)
	h := hmac.New(sha256.New, p.secret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// Verify checks a scanned payload's signature and, when it is valid, returns
// the event ID and booking number it was issued for.
func (p *Printer) Verify(payload string) (eventID, bookingNumber string, ok bool) {
	i := strings.LastIndexByte(payload, '|')
	if i < 0 {
		return "", "", false
	}
	data, sig := payload[:i], payload[i+1:]
	h := hmac.New(sha256.New, p.secret)
	h.Write([]byte(data))
	want := base64.StdEncoding.EncodeToString(h.Sum(nil))
	if !hmac.Equal([]byte(sig), []byte(want)) {
		return "", "", false
	}
	parts := strings.SplitN(data, "|", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Render produces the ticket PDF for a booking on an event.
func (p *Printer) Render(e models.Event, b models.Booking, buyer models.User) ([]byte, error) {
	qrPNG, err := qrcode.Encode(p.QRPayload(e.ID, b.BookingNumber), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Seminar Ticket")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Event: %s", e.Title))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Location: %s", e.Location))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Starts: %s", e.StartDT.Format("2006-01-02 15:04")))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Name: %s %s", buyer.FirstName, buyer.LastName))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Booking Number: %s", b.BookingNumber))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Tickets: %d", b.Quantity))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return buf.Bytes(), nil
}
