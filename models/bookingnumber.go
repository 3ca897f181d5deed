package models

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

const bookingNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const bookingNumberLength = 8

// GenerateBookingNumber produces an 8-character code from A-Z0-9 and retries
// until the exists check reports it free. There is no retry cap: with 36^8
// possible codes a collision streak long enough to matter is assumed not to
// happen at this system's volume, and the UNIQUE constraint on
// bookings.booking_number backstops the check anyway.
func GenerateBookingNumber(ctx context.Context, exists func(context.Context, string) (bool, error)) (string, error) {
	for {
		code, err := randomBookingNumber()
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check booking number: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
}

func randomBookingNumber() (string, error) {
	buf := make([]byte, bookingNumberLength)
	max := big.NewInt(int64(len(bookingNumberAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate booking number: %w", err)
		}
		buf[i] = bookingNumberAlphabet[n.Int64()]
	}
	return string(buf), nil
}
