package models

import (
	"testing"
	"time"
)

func TestRfidCardValidity(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name string
		card RfidCard
		want bool
	}{
		{"active without expiry", RfidCard{IsActive: true}, true},
		{"active with future expiry", RfidCard{IsActive: true, ExpiresAt: &future}, true},
		{"active but expired", RfidCard{IsActive: true, ExpiresAt: &past}, false},
		{"inactive", RfidCard{IsActive: false}, false},
		{"inactive and expired", RfidCard{IsActive: false, ExpiresAt: &past}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.card.IsValid(now); got != tc.want {
				t.Fatalf("IsValid = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRfidCardExpiryBoundary(t *testing.T) {
	expiry := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	card := RfidCard{IsActive: true, ExpiresAt: &expiry}

	if card.IsExpired(expiry) {
		t.Fatal("card must not be expired exactly at its expiry instant")
	}
	if !card.IsExpired(expiry.Add(time.Nanosecond)) {
		t.Fatal("card must be expired after its expiry instant")
	}
}
