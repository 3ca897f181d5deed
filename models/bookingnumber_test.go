package models

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGenerateBookingNumber_Format(t *testing.T) {
	code, err := GenerateBookingNumber(context.Background(),
		func(context.Context, string) (bool, error) { return false, nil })
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(code) != bookingNumberLength {
		t.Fatalf("want %d chars, got %q", bookingNumberLength, code)
	}
	for _, r := range code {
		if !strings.ContainsRune(bookingNumberAlphabet, r) {
			t.Fatalf("character %q outside alphabet in %q", r, code)
		}
	}
}

func TestGenerateBookingNumber_RetriesOnCollision(t *testing.T) {
	calls := 0
	code, err := GenerateBookingNumber(context.Background(),
		func(_ context.Context, candidate string) (bool, error) {
			calls++
			return calls <= 3, nil // first three candidates are "taken"
		})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if calls != 4 {
		t.Fatalf("want 4 attempts, got %d", calls)
	}
	if code == "" {
		t.Fatalf("empty code after retries")
	}
}

func TestGenerateBookingNumber_ExistsError(t *testing.T) {
	boom := errors.New("db down")
	_, err := GenerateBookingNumber(context.Background(),
		func(context.Context, string) (bool, error) { return false, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("want wrapped exists error, got %v", err)
	}
}

func TestGenerateBookingNumber_Distinct(t *testing.T) {
	// not a uniqueness proof, just a sanity check that the generator is
	// not returning a constant
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateBookingNumber(context.Background(),
			func(context.Context, string) (bool, error) { return false, nil })
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		seen[code] = true
	}
	if len(seen) < 49 {
		t.Fatalf("suspiciously many duplicates: %d unique of 50", len(seen))
	}
}
